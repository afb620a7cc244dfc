// Package output renders optimization results for humans and machines.
// Presentation only; no selection logic lives here.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"h2-site-plan/core/engine"
	"h2-site-plan/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the result
	Render(w io.Writer, result *engine.OptimizeResult) error
}

// New returns a formatter for the requested format.
func New(format Format, topSites int, showDetails bool) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return &cliFormatter{topSites: topSites, showDetails: showDetails}, nil
	case FormatJSON:
		return &jsonFormatter{}, nil
	default:
		return nil, errors.Configf("unknown output format %q", format).WithField("format")
	}
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format() Format { return FormatJSON }

func (f *jsonFormatter) Render(w io.Writer, result *engine.OptimizeResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

type cliFormatter struct {
	topSites    int
	showDetails bool
}

func (f *cliFormatter) Format() Format { return FormatCLI }

func (f *cliFormatter) Render(w io.Writer, result *engine.OptimizeResult) error {
	sel := result.Selection

	fmt.Fprintln(w, "┌─────────────────────────────────────────────────────────────────────────┐")
	fmt.Fprintln(w, "│                       SITE SELECTION SUMMARY                            │")
	fmt.Fprintln(w, "├─────────────────────────────────────────────────────────────────────────┤")

	limit := len(sel.Selected)
	if f.topSites > 0 && f.topSites < limit {
		limit = f.topSites
	}
	for i := 0; i < limit; i++ {
		s := &sel.Selected[i]
		fmt.Fprintf(w, "│ %2d. %-46s %20s │\n",
			i+1,
			truncate(s.ID, 46),
			fmt.Sprintf("$%.1fM  score %.3f", s.EstimatedCost, s.CompositeScore))
		if f.showDetails {
			fmt.Fprintf(w, "│     └─ %-44s %20s │\n",
				fmt.Sprintf("cost %.2f  renew %.2f  demand %.2f  risk %.2f",
					s.SubScores.Cost, s.SubScores.Renewable, s.SubScores.Demand, s.SubScores.Risk),
				fmt.Sprintf("feasibility %.3f", s.Feasibility))
		}
	}
	if limit < len(sel.Selected) {
		fmt.Fprintf(w, "│ %-71s │\n", fmt.Sprintf("... %d more selected sites", len(sel.Selected)-limit))
	}
	if len(sel.Selected) == 0 {
		fmt.Fprintf(w, "│ %-71s │\n", "no sites selected")
	}

	fmt.Fprintln(w, "├─────────────────────────────────────────────────────────────────────────┤")
	fmt.Fprintf(w, "│ %-50s %20s │\n", "TOTAL COST", fmt.Sprintf("$%.1fM", sel.TotalCost))
	fmt.Fprintf(w, "│ %-50s %20s │\n", "TOTAL UTILITY", fmt.Sprintf("%.3f", sel.TotalUtility))
	fmt.Fprintf(w, "│ %-50s %20s │\n", "BUDGET REMAINING", fmt.Sprintf("$%.1fM", sel.BudgetRemaining))
	fmt.Fprintf(w, "│ %-50s %20s │\n", "SOLVER TIER", string(sel.Tier))
	fmt.Fprintf(w, "│ %-50s %20s │\n", "AGGREGATE RISK",
		fmt.Sprintf("%.3f (%s)", result.Risk.AggregateRisk, result.Risk.AggregateLevel))
	fmt.Fprintln(w, "└─────────────────────────────────────────────────────────────────────────┘")

	if len(result.Risk.Flagged) > 0 {
		fmt.Fprintf(w, "\nHigh-risk sites: %v\n", result.Risk.Flagged)
	}
	for _, warning := range sel.Warnings {
		fmt.Fprintf(w, "\nWarning [%s]: %s\n", warning.Code, warning.Message)
	}
	if result.SkippedRows > 0 {
		fmt.Fprintf(w, "\n%d malformed dataset rows were skipped at ingestion.\n", result.SkippedRows)
	}

	if roi := result.Projection.ROICurve; len(roi) > 0 {
		final := roi[len(roi)-1]
		fmt.Fprintf(w, "\n%d-year cumulative ROI: %s\n", final.Year, final.CumulativeROI.StringFixed(2))
	}

	fmt.Fprintf(w, "\nRun %s completed in %s\n", result.Metadata.RunID, result.Metadata.Duration)
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
