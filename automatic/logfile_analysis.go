package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/domino14/checkers/stats"
)

// AnalyzeLogFile reads a game log written by PlayMatch and summarizes the
// results of every player in it.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return AnalyzeGameLog(file)
}

func AnalyzeGameLog(rd io.Reader) (string, error) {
	r := csv.NewReader(rd)

	// Record looks like:
	// gameID,white,black,result,plies
	tallies := map[string]*stats.Tally{}
	tallyFor := func(name string) *stats.Tally {
		if tallies[name] == nil {
			tallies[name] = &stats.Tally{}
		}
		return tallies[name]
	}
	plies := &stats.Statistic{}
	whiteScore := &stats.Statistic{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			continue
		}
		if len(record) != 5 {
			return "", fmt.Errorf("bad record %v", record)
		}
		n, err := strconv.Atoi(record[4])
		if err != nil {
			return "", err
		}
		plies.Push(float64(n))
		var white, black stats.Outcome
		switch record[3] {
		case "white-wins":
			white, black = stats.Win, stats.Loss
		case "black-wins":
			white, black = stats.Loss, stats.Win
		default:
			white, black = stats.Draw, stats.Draw
		}
		whiteScore.Push(float64(white) / 2)
		tallyFor(record[1]).Add(white)
		tallyFor(record[2]).Add(black)
	}

	names := make([]string, 0, len(tallies))
	for name := range tallies {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", plies.Iterations())
	fmt.Fprintf(&sb, "Mean plies: %.2f  Stdev: %.2f\n", plies.Mean(), plies.Stdev())
	fmt.Fprintf(&sb, "White's mean score: %.3f\n", whiteScore.Mean())
	for _, name := range names {
		fmt.Fprintf(&sb, "%v: %v\n", name, tallies[name])
	}
	return sb.String(), nil
}
