package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bamic-rtp-server/internal/domain"
	"github.com/bamic-rtp-server/internal/service"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeAssessment(w io.Writer, result *domain.DerivedResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Score:\t%d/100 (raw %.1f)\n", result.Score, result.RawPoints)
	fmt.Fprintf(tw, "Grade:\t%s\n", result.GradeText)
	fmt.Fprintf(tw, "Return to play:\t%s\n", result.Duration.Text)
	return tw.Flush()
}

func writeBreakdown(w io.Writer, result domain.ScoreResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, term := range result.Breakdown {
		fmt.Fprintf(tw, "%s\t%.1f\n", term.Name, term.Points)
	}
	fmt.Fprintf(tw, "raw\t%.1f\n", result.RawPoints)
	fmt.Fprintf(tw, "score\t%d\n", result.Score)
	return tw.Flush()
}

func writeReference(w io.Writer, ref service.Reference) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	tables := []struct {
		name    string
		entries []service.WeightEntry
	}{
		{"muscle", ref.Muscle},
		{"mechanism", ref.Mechanism},
		{"segment", ref.Segment},
		{"anatomic", ref.Anatomic},
	}
	for _, table := range tables {
		fmt.Fprintf(tw, "[%s] fallback %.1f\n", table.name, ref.Fallbacks[table.name])
		for _, e := range table.entries {
			fmt.Fprintf(tw, "  %d\t%.1f\n", e.Code, e.Weight)
		}
	}

	fmt.Fprintln(tw, "[volume]")
	for _, step := range ref.VolumeSteps {
		fmt.Fprintf(tw, "  <= %.0f%%\t%.0f\n", step.UpTo, step.Points)
	}

	fmt.Fprintln(tw, "[return to play]")
	for _, band := range ref.DurationBands {
		plus := ""
		if band.OpenEnded {
			plus = "+"
		}
		fmt.Fprintf(tw, "  <= %d\t%d-%d%s days\t%s\n", band.MaxScore, band.MinDays, band.MaxDays, plus, band.Description)
	}

	fmt.Fprintf(tw, "raw point ceiling: %.0f\n", ref.RawPointCeiling)
	return tw.Flush()
}
