package render

import (
	"bufio"
	"fmt"
	"io"
)

var toneMarks = map[Tone]string{
	ToneGood:    "+",
	ToneCaution: "~",
	ToneBad:     "-",
	ToneNeutral: " ",
}

// WriteText renders a result view for a terminal
func WriteText(w io.Writer, v ResultView) error {
	bw := bufio.NewWriter(w)

	switch {
	case v.Loading:
		fmt.Fprintln(bw, v.LoadingText)
	case v.Error != "":
		fmt.Fprintf(bw, "! %s\n", v.Error)
	case v.HasResult():
		writeResult(bw, v)
	}

	return bw.Flush()
}

func writeResult(w io.Writer, v ResultView) {
	if v.City != "" {
		fmt.Fprintf(w, "Forecast for %s\n\n", v.City)
	}

	if len(v.Ranking) > 0 {
		fmt.Fprintln(w, "Location Scout")
		for _, row := range v.Ranking {
			marker := " "
			if row.TopPick {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %d. %-20s %s %s\n", marker, row.Position, row.City, toneMarks[row.Tone], row.Recommendation)
		}
		fmt.Fprintln(w)
	}

	if v.Recommendation != "" {
		fmt.Fprintf(w, "Recommendation: %s\n\n", v.Recommendation)
	}

	for _, m := range v.Metrics {
		fmt.Fprintf(w, "%-20s %s\n", m.Title+":", m.Value)
	}

	if len(v.HourlyPlan) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Your 24-Hour Activity Plan")
		for _, row := range v.HourlyPlan {
			fmt.Fprintf(w, "  %s %s %s\n", row.Time, toneMarks[row.Tone], row.Recommendation)
		}
	}
}
