package evolution

import (
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/checkers/neural"
	"github.com/domino14/checkers/stats"
)

const (
	histogramBins  = 10
	histogramWidth = 40
)

// GenerationReport summarizes one generation for the log stream.
type GenerationReport struct {
	Generation         int           `yaml:"generation"`
	Games              int           `yaml:"games"`
	ReinforcementGames int           `yaml:"reinforcement-games"`
	FailedGames        int           `yaml:"failed-games"`
	BestScore          int           `yaml:"best-score"`
	WorstScore         int           `yaml:"worst-score"`
	MeanScore          float64       `yaml:"mean-score"`
	ScoreStdev         float64       `yaml:"score-stdev"`
	MeanKingValue      float64       `yaml:"mean-king-value"`
	Exhibition         string        `yaml:"exhibition"`
	Elapsed            time.Duration `yaml:"elapsed"`
	// Scores are the evaluation scores, by index in the previous population.
	Scores []int `yaml:"-"`
}

func newReport(gen int, scores []int, next []*neural.Network) *GenerationReport {
	var st stats.Statistic
	for _, s := range scores {
		st.Push(float64(s))
	}
	return &GenerationReport{
		Generation: gen,
		BestScore:  lo.Max(scores),
		WorstScore: lo.Min(scores),
		MeanScore:  st.Mean(),
		ScoreStdev: st.Stdev(),
		MeanKingValue: lo.SumBy(next, func(n *neural.Network) float64 {
			return n.K()
		}) / float64(len(next)),
		Scores: scores,
	}
}

// Write appends the report as a YAML list item, followed by a histogram of
// the scores.
func (r *GenerationReport) Write(w io.Writer) error {
	out, err := yaml.Marshal([]GenerationReport{*r})
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	if len(r.Scores) == 0 {
		return nil
	}
	fmt.Fprintf(w, "# scores, generation %d\n", r.Generation)
	h := histogram.Hist(histogramBins, lo.Map(r.Scores, func(s int, _ int) float64 {
		return float64(s)
	}))
	return histogram.Fprint(w, h, histogram.Linear(histogramWidth))
}
