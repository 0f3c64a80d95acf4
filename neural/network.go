// Package neural is a small feed-forward network used as a board evaluator,
// along with the genetic operators the trainer evolves it with.
package neural

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/heuristic"
)

const (
	MinKingValue     = 1.2
	MaxKingValue     = 3.0
	InitialKingValue = 2.0
	InitialSigma     = 0.05
)

// DefaultLayers is the number of neurons per layer, input first.
var DefaultLayers = []int{board.PlayableSquares, 39, 15, 1}

// Network is immutable once built; Mutate and Crossover return new networks.
// It is safe to evaluate from many goroutines at once.
//
// Layer i is a matrix of shape [layers[i]+1, layers[i+1]]. Its last row
// holds the biases, which are applied to a constant input of 1.
type Network struct {
	k       float64
	weights []*mat.Dense
	// sigma holds a mutation step size for every weight.
	sigma []*mat.Dense
}

func validateLayers(layers []int) error {
	if len(layers) < 2 {
		return fmt.Errorf("need at least 2 layers, got %d: %w", len(layers), board.ErrInvalidArgument)
	}
	if layers[0] != board.PlayableSquares {
		return fmt.Errorf("input layer must have %d neurons, got %d: %w",
			board.PlayableSquares, layers[0], board.ErrInvalidArgument)
	}
	if layers[len(layers)-1] != 1 {
		return fmt.Errorf("output layer must have 1 neuron, got %d: %w",
			layers[len(layers)-1], board.ErrInvalidArgument)
	}
	for _, l := range layers {
		if l < 1 {
			return fmt.Errorf("layer size %d: %w", l, board.ErrInvalidArgument)
		}
	}
	return nil
}

// New creates a network with weights drawn from N(0, 1).
func New(layers []int) (*Network, error) {
	if err := validateLayers(layers); err != nil {
		return nil, err
	}
	n := &Network{
		k:       InitialKingValue,
		weights: make([]*mat.Dense, len(layers)-1),
		sigma:   make([]*mat.Dense, len(layers)-1),
	}
	for i := 0; i < len(layers)-1; i++ {
		r, c := layers[i]+1, layers[i+1]
		w := make([]float64, r*c)
		s := make([]float64, r*c)
		for j := range w {
			w[j] = distuv.UnitNormal.Rand()
			s[j] = InitialSigma
		}
		n.weights[i] = mat.NewDense(r, c, w)
		n.sigma[i] = mat.NewDense(r, c, s)
	}
	return n, nil
}

// K is the value of a king relative to a man.
func (n *Network) K() float64 {
	return n.k
}

// Layers returns the neuron count of each layer.
func (n *Network) Layers() []int {
	layers := make([]int, 0, len(n.weights)+1)
	for i, w := range n.weights {
		r, c := w.Dims()
		if i == 0 {
			layers = append(layers, r-1)
		}
		layers = append(layers, c)
	}
	return layers
}

// NumWeights counts every weight and bias.
func (n *Network) NumWeights() int {
	total := 0
	for _, w := range n.weights {
		r, c := w.Dims()
		total += r * c
	}
	return total
}

// Evaluate scores a board from White's point of view, in (-1, 1).
func (n *Network) Evaluate(b *board.Board) float64 {
	r, _ := n.weights[0].Dims()
	in := make([]float64, r)
	heuristic.Encode(b, n.k, in[:board.PlayableSquares])
	in[r-1] = 1
	x := mat.NewVecDense(r, in)

	for i, w := range n.weights {
		_, c := w.Dims()
		last := i == len(n.weights)-1
		size := c + 1
		if last {
			size = c
		}
		out := make([]float64, size)
		y := mat.NewVecDense(c, out[:c])
		y.MulVec(w.T(), x)
		for j := 0; j < c; j++ {
			out[j] = math.Tanh(out[j])
		}
		if last {
			return out[0]
		}
		out[c] = 1
		x = mat.NewVecDense(size, out)
	}
	panic("network has no layers")
}

// Heuristic adapts the network for the search.
func (n *Network) Heuristic() heuristic.Func {
	return n.Evaluate
}

func (n *Network) sameShape(o *Network) bool {
	if len(n.weights) != len(o.weights) {
		return false
	}
	for i := range n.weights {
		r1, c1 := n.weights[i].Dims()
		r2, c2 := o.weights[i].Dims()
		if r1 != r2 || c1 != c2 {
			return false
		}
	}
	return true
}

func clampK(k float64) float64 {
	return math.Max(MinKingValue, math.Min(MaxKingValue, k))
}
