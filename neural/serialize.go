package neural

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/domino14/checkers/board"
)

// networkData is the stored form. Matrices are lists of rows. Sigma may be
// missing, for instance in networks produced by an external trainer; every
// step size then starts at InitialSigma.
type networkData struct {
	K       float64       `json:"K"`
	Weights [][][]float64 `json:"Weights"`
	Sigma   [][][]float64 `json:"Sigma,omitempty"`
}

func toRows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}

func fromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty matrix: %w", board.ErrInvalidArgument)
	}
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w",
				i, len(row), c, board.ErrInvalidArgument)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), c, data), nil
}

func (n *Network) MarshalJSON() ([]byte, error) {
	d := networkData{K: n.k}
	for i := range n.weights {
		d.Weights = append(d.Weights, toRows(n.weights[i]))
		d.Sigma = append(d.Sigma, toRows(n.sigma[i]))
	}
	return json.Marshal(d)
}

func (n *Network) UnmarshalJSON(bts []byte) error {
	var d networkData
	if err := json.Unmarshal(bts, &d); err != nil {
		return err
	}
	if d.Sigma != nil && len(d.Sigma) != len(d.Weights) {
		return fmt.Errorf("%d sigma matrices for %d layers: %w",
			len(d.Sigma), len(d.Weights), board.ErrInvalidArgument)
	}
	nw := Network{k: InitialKingValue}
	if d.K != 0 {
		nw.k = clampK(d.K)
	}
	layers := []int{}
	for i, rows := range d.Weights {
		w, err := fromRows(rows)
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		r, c := w.Dims()
		if i == 0 {
			layers = append(layers, r-1)
		} else if r-1 != layers[len(layers)-1] {
			return fmt.Errorf("layer %d has %d inputs, previous layer has %d outputs: %w",
				i, r-1, layers[len(layers)-1], board.ErrInvalidArgument)
		}
		layers = append(layers, c)

		var s *mat.Dense
		if d.Sigma != nil {
			s, err = fromRows(d.Sigma[i])
			if err != nil {
				return fmt.Errorf("sigma %d: %w", i, err)
			}
			if sr, sc := s.Dims(); sr != r || sc != c {
				return fmt.Errorf("sigma %d is %dx%d, weights are %dx%d: %w",
					i, sr, sc, r, c, board.ErrInvalidArgument)
			}
		} else {
			s = mat.NewDense(r, c, nil)
			s.Apply(func(_, _ int, _ float64) float64 { return InitialSigma }, s)
		}
		nw.weights = append(nw.weights, w)
		nw.sigma = append(nw.sigma, s)
	}
	if err := validateLayers(layers); err != nil {
		return err
	}
	*n = nw
	return nil
}

// Save writes the network as JSON.
func (n *Network) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(n)
}

// Load reads a network written by Save.
func Load(r io.Reader) (*Network, error) {
	n := &Network{}
	if err := json.NewDecoder(r).Decode(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Network) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := n.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return n, nil
}
