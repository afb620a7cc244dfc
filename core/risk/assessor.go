// Package risk computes aggregate risk metrics for a selection and flags
// high-risk sites. Assessment is informational: it never removes sites
// from an already-computed selection.
package risk

import (
	"sort"

	"h2-site-plan/core/types"
)

// DefaultFlagThreshold flags sites whose mean risk severity exceeds it.
const DefaultFlagThreshold = 0.7

// Level bands for labelling severities.
const (
	mediumBand = 0.4
	highBand   = 0.7
)

// Params configures the assessor.
type Params struct {
	// FlagThreshold flags selected sites whose mean risk exceeds it
	FlagThreshold float64
}

func (p Params) withDefaults() Params {
	if p.FlagThreshold <= 0 {
		p.FlagThreshold = DefaultFlagThreshold
	}
	return p
}

// Assess computes the risk assessment for a selection.
//
// Aggregate risk is the mean of selected sites' mean risk severities
// weighted by each site's share of total cost, so expensive sites move
// the aggregate more. When the selection is free (total cost zero) the
// sites weigh equally.
func Assess(selection *types.SelectionResult, params Params) *types.RiskAssessment {
	params = params.withDefaults()

	assessment := &types.RiskAssessment{
		AggregateLevel: types.RiskLevelLow,
	}
	if len(selection.Selected) == 0 {
		return assessment
	}

	weightFor := func(s *types.ScoredSite) float64 {
		if selection.TotalCost == 0 {
			return 1.0 / float64(len(selection.Selected))
		}
		return s.EstimatedCost / selection.TotalCost
	}

	perCategory := make(map[string]float64)
	categoryWeight := make(map[string]float64)

	var aggregate float64
	var flagged []string
	for i := range selection.Selected {
		s := &selection.Selected[i]
		w := weightFor(s)
		mean := s.MeanRisk()
		aggregate += w * mean
		if mean > params.FlagThreshold {
			flagged = append(flagged, s.ID)
		}
		for category, severity := range s.RiskFactors {
			perCategory[category] += w * severity
			categoryWeight[category] += w
		}
	}

	sort.Strings(flagged)
	assessment.AggregateRisk = aggregate
	assessment.AggregateLevel = Level(aggregate)
	assessment.Flagged = flagged

	if len(perCategory) > 0 {
		levels := make(map[string]string, len(perCategory))
		for category := range perCategory {
			if categoryWeight[category] > 0 {
				perCategory[category] /= categoryWeight[category]
			}
			levels[category] = Level(perCategory[category])
		}
		assessment.PerCategory = perCategory
		assessment.Levels = levels
	}
	return assessment
}

// Level labels a severity in [0,1] as low, medium, or high.
func Level(severity float64) string {
	switch {
	case severity >= highBand:
		return types.RiskLevelHigh
	case severity >= mediumBand:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelLow
	}
}
