package stats

import (
	"fmt"
	"strings"
)

// Outcome is a game result from one side's point of view.
type Outcome int8

const (
	Loss Outcome = iota
	Draw
	Win
)

// Letter is the one-character form used in result strings.
func (o Outcome) Letter() byte {
	switch o {
	case Win:
		return 'W'
	case Loss:
		return 'L'
	}
	return 'D'
}

// Tally accumulates a match between two players. A win scores 1, a draw
// one half and a loss 0.
type Tally struct {
	Wins, Losses, Draws int

	score  Statistic
	record strings.Builder
}

func (t *Tally) Add(o Outcome) {
	switch o {
	case Win:
		t.Wins++
	case Loss:
		t.Losses++
	default:
		t.Draws++
	}
	t.score.Push(float64(o) / 2)
	t.record.WriteByte(o.Letter())
}

func (t *Tally) Games() int {
	return t.score.Iterations()
}

// Record lists every result in order, for example "WWDLW".
func (t *Tally) Record() string {
	return t.record.String()
}

// Score is the mean score per game, between 0 and 1.
func (t *Tally) Score() float64 {
	return t.score.Mean()
}

// ConfidenceInterval returns the bounds of the mean score at the given
// confidence, in percent, using the normal approximation.
func (t *Tally) ConfidenceInterval(confidence float64) (float64, float64) {
	margin := ZVal(confidence) * t.score.StandardError()
	return t.Score() - margin, t.Score() + margin
}

func (t *Tally) String() string {
	lo, hi := t.ConfidenceInterval(95)
	return fmt.Sprintf("+%d -%d =%d score %.3f (95%% CI %.3f to %.3f)",
		t.Wins, t.Losses, t.Draws, t.Score(), lo, hi)
}
