package policies

import (
	"github.com/pkg/errors"

	"github.com/zeu5/easy21-rl/easy21"
)

// Interval is a closed range of card values or sums
type Interval struct {
	Low  int
	High int
}

func (i Interval) Contains(v int) bool {
	return v >= i.Low && v <= i.High
}

var (
	DealerIntervals = []Interval{{1, 4}, {4, 7}, {7, 10}}
	PlayerIntervals = []Interval{{1, 6}, {4, 9}, {7, 12}, {10, 15}, {13, 18}, {16, 21}}
)

const (
	featuresPerAction = 18 // len(DealerIntervals) * len(PlayerIntervals)
	NumFeatures       = featuresPerAction * easy21.NumActions
)

// ActiveFeatures lists the coordinates set to one in the feature vector of (s, a).
// Coordinates are a*18 + dealerBin*6 + playerBin.
func ActiveFeatures(s easy21.State, a easy21.Action) ([]int, error) {
	if !a.Valid() {
		return nil, errors.Wrapf(easy21.ErrInvalidAction, "%d", int(a))
	}
	active := make([]int, 0, 4)
	for di, d := range DealerIntervals {
		if !d.Contains(s.Dealer) {
			continue
		}
		for pj, p := range PlayerIntervals {
			if !p.Contains(s.Player) {
				continue
			}
			active = append(active, int(a)*featuresPerAction+di*len(PlayerIntervals)+pj)
		}
	}
	return active, nil
}

// FeatureVector is the binary coarse coding of (s, a)
func FeatureVector(s easy21.State, a easy21.Action) ([]float64, error) {
	active, err := ActiveFeatures(s, a)
	if err != nil {
		return nil, err
	}
	x := make([]float64, NumFeatures)
	for _, i := range active {
		x[i] = 1
	}
	return x, nil
}
