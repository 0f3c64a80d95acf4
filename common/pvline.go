package common

import (
	"fmt"
	"strings"

	"github.com/domino14/checkers/move"
)

// PVLine is the principal variation: the line of best play found by a
// search, and the value it leads to.
type PVLine struct {
	Moves []move.Move
	score float64
}

func (pv *PVLine) Clear() {
	pv.Moves = nil
}

// Update makes m followed by rest the new line.
func (pv *PVLine) Update(m move.Move, rest PVLine, score float64) {
	pv.Moves = append(append(make([]move.Move, 0, len(rest.Moves)+1), m), rest.Moves...)
	pv.score = score
}

// BestMove is the first move of the line. The line must not be empty.
func (pv PVLine) BestMove() move.Move {
	return pv.Moves[0]
}

func (pv PVLine) Score() float64 {
	return pv.score
}

// String prints the line in the usual notation, joining the jumps of one
// capture sequence: "+0.2500 22x15x6 1-10 ...".
func (pv PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%+.4f", pv.score)
	for i, m := range pv.Moves {
		if i > 0 {
			prev := pv.Moves[i-1]
			if m.IsCapture() && prev.IsCapture() && prev.Player == m.Player && prev.To == m.From {
				sb.WriteString("x" + m.To.String())
				continue
			}
		}
		sb.WriteString(" " + m.ShortDescription())
	}
	return sb.String()
}
