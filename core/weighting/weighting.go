// Package weighting turns feasibility sub-scores into a single composite
// utility per site using user-chosen criteria weights.
package weighting

import (
	"sort"

	"h2-site-plan/core/scoring"
	"h2-site-plan/core/types"
)

// Apply combines normalized sub-scores into a composite score in [0,1]
// using normalized weights. Deterministic and order-independent: the same
// sub-scores and weights always produce the same composite.
func Apply(sub types.SubScores, weights types.CriteriaWeights) (float64, error) {
	if err := weights.Validate(); err != nil {
		return 0, err
	}
	n := weights.Normalized()
	composite := n.Cost*sub.Cost +
		n.RenewableAccess*sub.Renewable +
		n.DemandProximity*sub.Demand +
		n.Risk*sub.Risk
	return composite, nil
}

// ScorePool scores every site in the pool and applies the weights,
// producing the scored candidates the selector consumes. Sites with
// malformed attributes abort the run with the underlying DATA_ERROR.
//
// The returned slice preserves pool order; the selector imposes its own
// deterministic ordering.
func ScorePool(sites []types.Site, weights types.CriteriaWeights) ([]types.ScoredSite, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	scorer := scoring.NewScorer(sites)
	n := weights.Normalized()

	scored := make([]types.ScoredSite, 0, len(sites))
	for i := range sites {
		feasibility, sub, err := scorer.Score(&sites[i])
		if err != nil {
			return nil, err
		}
		composite := n.Cost*sub.Cost +
			n.RenewableAccess*sub.Renewable +
			n.DemandProximity*sub.Demand +
			n.Risk*sub.Risk
		scored = append(scored, types.ScoredSite{
			Site:           sites[i],
			Feasibility:    feasibility,
			CompositeScore: composite,
			SubScores:      sub,
		})
	}
	return scored, nil
}

// RankByComposite orders scored sites for display: descending composite,
// ties broken by lower cost, then lower id.
func RankByComposite(scored []types.ScoredSite) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := &scored[i], &scored[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.EstimatedCost != b.EstimatedCost {
			return a.EstimatedCost < b.EstimatedCost
		}
		return a.ID < b.ID
	})
}
