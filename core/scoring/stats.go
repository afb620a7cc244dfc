// Package scoring derives normalized feasibility scores for candidate sites.
package scoring

import (
	"math"

	"h2-site-plan/core/types"
)

// PoolStats holds the pool-level min/max statistics used for min-max
// scaling. Computed once per candidate pool.
type PoolStats struct {
	MinCost float64 `json:"min_cost"`
	MaxCost float64 `json:"max_cost"`

	MinRenewableDistance float64 `json:"min_renewable_distance"`
	MaxRenewableDistance float64 `json:"max_renewable_distance"`

	MinDemandDistance float64 `json:"min_demand_distance"`
	MaxDemandDistance float64 `json:"max_demand_distance"`

	// PoolSize is the number of sites the stats were computed over
	PoolSize int `json:"pool_size"`
}

// ComputeStats scans the pool once and records min/max per attribute.
func ComputeStats(sites []types.Site) PoolStats {
	stats := PoolStats{
		MinCost:              math.Inf(1),
		MaxCost:              math.Inf(-1),
		MinRenewableDistance: math.Inf(1),
		MaxRenewableDistance: math.Inf(-1),
		MinDemandDistance:    math.Inf(1),
		MaxDemandDistance:    math.Inf(-1),
		PoolSize:             len(sites),
	}
	if len(sites) == 0 {
		return PoolStats{}
	}
	for i := range sites {
		s := &sites[i]
		stats.MinCost = math.Min(stats.MinCost, s.EstimatedCost)
		stats.MaxCost = math.Max(stats.MaxCost, s.EstimatedCost)
		stats.MinRenewableDistance = math.Min(stats.MinRenewableDistance, s.RenewableDistance)
		stats.MaxRenewableDistance = math.Max(stats.MaxRenewableDistance, s.RenewableDistance)
		stats.MinDemandDistance = math.Min(stats.MinDemandDistance, s.DemandDistance)
		stats.MaxDemandDistance = math.Max(stats.MaxDemandDistance, s.DemandDistance)
	}
	return stats
}

// scaleLowerBetter maps x into [0,1] where the pool minimum scores 1 and
// the pool maximum scores 0. The degenerate max == min pool maps to 1.
func scaleLowerBetter(x, min, max float64) float64 {
	if max <= min {
		return 1
	}
	return 1 - (x-min)/(max-min)
}
