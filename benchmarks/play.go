package benchmarks

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"github.com/zeu5/easy21-rl/easy21"
)

func outcome(au aurora.Aurora, reward int) aurora.Value {
	switch reward {
	case easy21.RewardWin:
		return au.Green("You win")
	case easy21.RewardLoss:
		return au.Red("You lose")
	}
	return au.Yellow("Draw")
}

// Play runs interactive games read line by line from in, until q or end of input
func Play(in io.Reader, out io.Writer, au aurora.Aurora, envConfig *easy21.Config) error {
	env := easy21.NewEnvironment(envConfig)
	scanner := bufio.NewScanner(in)
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		line := strings.TrimSpace(scanner.Text())
		return line, line != "q" && line != "quit"
	}

	for game := 0; ; game++ {
		if game > 0 {
			fmt.Fprint(out, "Enter to deal again, q to quit: ")
			if _, ok := next(); !ok {
				return scanner.Err()
			}
		}
		if _, err := env.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(out, env.Render())

		for !env.Done() {
			fmt.Fprintf(out, "Action %v: ", env.ValidActions())
			line, ok := next()
			if !ok {
				return scanner.Err()
			}
			action, err := easy21.ParseAction(line)
			if err != nil {
				fmt.Fprintln(out, au.Red(err))
				continue
			}
			_, reward, done, err := env.Step(action)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, env.Render())
			if done {
				fmt.Fprintf(out, "%s, dealer sum %d\n", outcome(au, reward), env.DealerSum())
			}
		}
	}
}

func PlayCommand() *cobra.Command {
	var colors bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play Easy21 against the dealer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Play(cmd.InOrStdin(), cmd.OutOrStdout(), aurora.NewAurora(colors), cfg.Environment())
		},
	}
	cmd.Flags().BoolVar(&colors, "colors", true, "Color the outcome of each game")
	return cmd
}
