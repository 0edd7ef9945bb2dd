package types

import (
	"encoding/json"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/plotter"

	"github.com/zeu5/easy21-rl/easy21"
)

// ValueTable holds V(s) for every state, indexed by (dealer-1, player-1)
type ValueTable struct {
	values *mat.Dense
}

var _ plotter.GridXYZ = &ValueTable{}

func NewValueTable() *ValueTable {
	return &ValueTable{
		values: mat.NewDense(easy21.NumDealerStates, easy21.NumPlayerStates, nil),
	}
}

func (v *ValueTable) At(dealer, player int) float64 {
	return v.values.At(dealer, player)
}

func (v *ValueTable) Set(dealer, player int, value float64) {
	v.values.Set(dealer, player, value)
}

func (v *ValueTable) Value(s easy21.State) (float64, error) {
	d, p, err := easy21.StateIndex(s)
	if err != nil {
		return 0, err
	}
	return v.values.At(d, p), nil
}

// Matrix returns the underlying 10x21 matrix
func (v *ValueTable) Matrix() mat.Matrix {
	return v.values
}

// Rows returns a copy of the table as nested slices
func (v *ValueTable) Rows() [][]float64 {
	rows := make([][]float64, easy21.NumDealerStates)
	for d := range rows {
		rows[d] = mat.Row(nil, d, v.values)
	}
	return rows
}

func (v *ValueTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Rows())
}

// Dims, Z, X and Y lay the table out with the dealer card on the x axis

func (v *ValueTable) Dims() (int, int) {
	return easy21.NumDealerStates, easy21.NumPlayerStates
}

func (v *ValueTable) Z(c, r int) float64 {
	return v.values.At(c, r)
}

func (v *ValueTable) X(c int) float64 {
	return float64(c + easy21.MinCard)
}

func (v *ValueTable) Y(r int) float64 {
	return float64(r + easy21.MinSum)
}

// PolicyTable holds the greedy action for every state
type PolicyTable struct {
	actions [easy21.NumDealerStates][easy21.NumPlayerStates]easy21.Action
}

var _ plotter.GridXYZ = &PolicyTable{}

func NewPolicyTable() *PolicyTable {
	return &PolicyTable{}
}

func (p *PolicyTable) At(dealer, player int) easy21.Action {
	return p.actions[dealer][player]
}

func (p *PolicyTable) Set(dealer, player int, a easy21.Action) {
	p.actions[dealer][player] = a
}

func (p *PolicyTable) Action(s easy21.State) (easy21.Action, error) {
	d, pl, err := easy21.StateIndex(s)
	if err != nil {
		return easy21.Stick, err
	}
	return p.actions[d][pl], nil
}

func (p *PolicyTable) Rows() [][]int {
	rows := make([][]int, easy21.NumDealerStates)
	for d := range rows {
		rows[d] = make([]int, easy21.NumPlayerStates)
		for pl := range rows[d] {
			rows[d][pl] = int(p.actions[d][pl])
		}
	}
	return rows
}

func (p *PolicyTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Rows())
}

// String renders the table with one line per player sum, highest first,
// and one column per dealer card. H is hit and S is stick.
func (p *PolicyTable) String() string {
	var b strings.Builder
	for pl := easy21.NumPlayerStates - 1; pl >= 0; pl-- {
		for d := 0; d < easy21.NumDealerStates; d++ {
			if p.actions[d][pl] == easy21.Hit {
				b.WriteString("H")
			} else {
				b.WriteString("S")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (p *PolicyTable) Dims() (int, int) {
	return easy21.NumDealerStates, easy21.NumPlayerStates
}

func (p *PolicyTable) Z(c, r int) float64 {
	return float64(p.actions[c][r])
}

func (p *PolicyTable) X(c int) float64 {
	return float64(c + easy21.MinCard)
}

func (p *PolicyTable) Y(r int) float64 {
	return float64(r + easy21.MinSum)
}

// ActionValues flattens Q(s, a) over every state and action,
// in the order of easy21.States() and then easy21.AllActions
func ActionValues(v ValueEstimator) ([]float64, error) {
	values := make([]float64, 0, easy21.NumStates*easy21.NumActions)
	for _, s := range easy21.States() {
		for _, a := range easy21.AllActions {
			q, err := v.QValue(s, a)
			if err != nil {
				return nil, err
			}
			values = append(values, q)
		}
	}
	return values, nil
}
