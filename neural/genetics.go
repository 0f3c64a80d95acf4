package neural

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"lukechampine.com/frand"

	"github.com/domino14/checkers/board"
)

// MutationStrategy selects how weights are perturbed.
type MutationStrategy int

const (
	// SelfAdaptive evolves a step size per weight along with the weight.
	SelfAdaptive MutationStrategy = iota
	// Fixed perturbs every weight with the same step size and leaves the
	// step sizes alone.
	Fixed
)

func (s MutationStrategy) String() string {
	if s == Fixed {
		return "fixed"
	}
	return "self-adaptive"
}

func ParseMutationStrategy(s string) (MutationStrategy, error) {
	switch s {
	case "self-adaptive", "":
		return SelfAdaptive, nil
	case "fixed":
		return Fixed, nil
	}
	return SelfAdaptive, fmt.Errorf("mutation strategy %q: %w", s, board.ErrInvalidArgument)
}

// Mutation parameterizes Mutate. Rate is only used by the Fixed strategy.
type Mutation struct {
	Strategy MutationStrategy
	Rate     float64
}

// Mutate returns a perturbed copy of n. With the self-adaptive strategy each
// step size is first scaled by exp(tau * N(0,1)), tau = 1/sqrt(2*sqrt(W))
// for W weights, and then each weight moves by its step size times N(0,1).
// The king value is scaled by exp(N(0,1)/sqrt(2)) and clamped.
func (n *Network) Mutate(m Mutation) *Network {
	tau := 1 / math.Sqrt(2*math.Sqrt(float64(n.NumWeights())))
	child := &Network{
		weights: make([]*mat.Dense, len(n.weights)),
		sigma:   make([]*mat.Dense, len(n.sigma)),
	}
	for i := range n.weights {
		s := mat.DenseCopyOf(n.sigma[i])
		if m.Strategy == SelfAdaptive {
			s.Apply(func(_, _ int, v float64) float64 {
				return v * math.Exp(tau*distuv.UnitNormal.Rand())
			}, s)
		}
		w := mat.DenseCopyOf(n.weights[i])
		w.Apply(func(r, c int, v float64) float64 {
			step := m.Rate
			if m.Strategy == SelfAdaptive {
				step = s.At(r, c)
			}
			return v + step*distuv.UnitNormal.Rand()
		}, w)
		child.weights[i] = w
		child.sigma[i] = s
	}
	child.k = clampK(n.k * math.Exp(distuv.UnitNormal.Rand()/math.Sqrt2))
	return child
}

// Crossover builds a child that takes each weight, together with its step
// size, from one of the parents at random. The king value comes from one
// parent chosen at random.
func Crossover(a, b *Network) (*Network, error) {
	if !a.sameShape(b) {
		return nil, fmt.Errorf("parents have layers %v and %v: %w",
			a.Layers(), b.Layers(), board.ErrInvalidArgument)
	}
	child := &Network{
		weights: make([]*mat.Dense, len(a.weights)),
		sigma:   make([]*mat.Dense, len(a.sigma)),
	}
	for i := range a.weights {
		w := mat.DenseCopyOf(a.weights[i])
		s := mat.DenseCopyOf(a.sigma[i])
		rows, cols := w.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if frand.Intn(2) == 1 {
					w.Set(r, c, b.weights[i].At(r, c))
					s.Set(r, c, b.sigma[i].At(r, c))
				}
			}
		}
		child.weights[i] = w
		child.sigma[i] = s
	}
	child.k = a.k
	if frand.Intn(2) == 1 {
		child.k = b.k
	}
	return child, nil
}
