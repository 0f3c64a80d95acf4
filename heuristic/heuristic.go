// Package heuristic contains simple hand-written board evaluations. All of
// them score from White's point of view: positive is good for White.
package heuristic

import (
	"math"

	"github.com/domino14/checkers/board"
)

// Func maps a board to a desirability estimate for White.
type Func func(b *board.Board) float64

// Material counts men as 1 and kings as kingValue.
func Material(kingValue float64) Func {
	return func(b *board.Board) float64 {
		var v float64
		for _, p := range b {
			switch p {
			case board.WhiteMan:
				v++
			case board.BlackMan:
				v--
			case board.WhiteKing:
				v += kingValue
			case board.BlackKing:
				v -= kingValue
			}
		}
		return v
	}
}

// Advancement is material with kings worth 2, plus a tenth of a point per
// row a man has advanced toward promotion.
func Advancement(b *board.Board) float64 {
	var v float64
	for i, p := range b {
		row := float64(board.Position(i).Row())
		switch p {
		case board.WhiteMan:
			v += 1 + 0.1*row
		case board.BlackMan:
			v -= 1 + 0.1*(board.Height-1-row)
		case board.WhiteKing:
			v += 2
		case board.BlackKing:
			v -= 2
		}
	}
	return v
}

// Squashed is Advancement scaled into (-1, 1), the same range as a neural
// evaluator's output. It is the target used for generated training samples.
func Squashed(b *board.Board) float64 {
	return math.Tanh(Advancement(b) / 10)
}

// Encode writes the board as network inputs: men are +1 for White and -1
// for Black, kings are +k and -k.
func Encode(b *board.Board, k float64, dst []float64) {
	for i, p := range b {
		switch p {
		case board.WhiteMan:
			dst[i] = 1
		case board.BlackMan:
			dst[i] = -1
		case board.WhiteKing:
			dst[i] = k
		case board.BlackKing:
			dst[i] = -k
		default:
			dst[i] = 0
		}
	}
}
