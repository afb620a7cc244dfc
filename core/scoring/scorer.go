// Package scoring - feasibility scorer
package scoring

import (
	"h2-site-plan/core/types"
)

// Scorer derives a normalized feasibility score per site. It is a pure
// function over a site and pool-level statistics; it holds no other state.
type Scorer struct {
	stats PoolStats
}

// NewScorer computes pool statistics and returns a scorer bound to them.
func NewScorer(sites []types.Site) *Scorer {
	return &Scorer{stats: ComputeStats(sites)}
}

// NewScorerWithStats builds a scorer from precomputed statistics.
func NewScorerWithStats(stats PoolStats) *Scorer {
	return &Scorer{stats: stats}
}

// Stats returns the pool statistics the scorer was built from.
func (s *Scorer) Stats() PoolStats {
	return s.stats
}

// Score returns the site's feasibility in [0,1] together with the
// normalized sub-scores behind it.
//
// When the dataset supplies a valid precomputed feasibility it is returned
// directly; the sub-scores are still computed so the weighting engine can
// rank by criterion. Malformed attributes yield a DATA_ERROR naming the
// offending field.
func (s *Scorer) Score(site *types.Site) (float64, types.SubScores, error) {
	if err := site.Validate(); err != nil {
		return 0, types.SubScores{}, err
	}

	sub := types.SubScores{
		Cost:      scaleLowerBetter(site.EstimatedCost, s.stats.MinCost, s.stats.MaxCost),
		Renewable: scaleLowerBetter(site.RenewableDistance, s.stats.MinRenewableDistance, s.stats.MaxRenewableDistance),
		Demand:    scaleLowerBetter(site.DemandDistance, s.stats.MinDemandDistance, s.stats.MaxDemandDistance),
		Risk:      1 - site.MeanRisk(),
	}

	if site.HasValidRawFeasibility() {
		return *site.RawFeasibility, sub, nil
	}

	feasibility := (sub.Cost + sub.Renewable + sub.Demand + sub.Risk) / 4
	return feasibility, sub, nil
}
