// Package selector - exact tier
package selector

import (
	"math"
	"sort"

	"h2-site-plan/core/types"
)

// exactSelect is the exact tier: 0/1 knapsack dynamic programming over
// costs discretized into a bounded number of buckets. Returns ok=false
// when the instance cannot be discretized sensibly (zero budget with
// nothing free, degenerate bucket width), in which case the caller falls
// back to the heuristic tier.
//
// Bucket weights round up, so every set the DP admits fits the real
// budget, and a set admitted at one budget stays admitted at every
// larger one: total utility never decreases as the budget grows.
// Rounding up can exclude a set that fits the budget exactly, so the DP
// result is checked against a ratio-greedy pass over real costs and the
// higher utility wins; the greedy pass shares both guarantees.
func exactSelect(pool []types.ScoredSite, budget float64, opts Options) ([]types.ScoredSite, bool) {
	if len(pool) == 0 {
		return []types.ScoredSite{}, true
	}
	if budget == 0 {
		return freeSites(pool), true
	}

	buckets := opts.CostBuckets
	bucketWidth := budget / float64(buckets)
	if bucketWidth <= 0 || math.IsInf(bucketWidth, 0) {
		return nil, false
	}

	// Canonical item order keeps the DP deterministic.
	order := make([]types.ScoredSite, len(pool))
	copy(order, pool)
	sort.SliceStable(order, func(i, j int) bool {
		return ratioLess(&order[i], &order[j])
	})

	weights := make([]int, len(order))
	for i := range order {
		w := int(math.Ceil(order[i].EstimatedCost / bucketWidth))
		if w > buckets {
			// Prefilter guarantees cost <= budget; clamp float spillover
			// on costs right at the budget.
			w = buckets
		}
		weights[i] = w
	}

	// dp[b] is the best utility achievable with bucket capacity b.
	dp := make([]float64, buckets+1)
	take := make([]bool, len(order)*(buckets+1))

	for i := range order {
		w := weights[i]
		u := order[i].CompositeScore
		row := take[i*(buckets+1) : (i+1)*(buckets+1)]
		for b := buckets; b >= w; b-- {
			if cand := dp[b-w] + u; cand > dp[b] {
				dp[b] = cand
				row[b] = true
			}
		}
	}

	// Reconstruct the chosen set.
	chosen := make([]types.ScoredSite, 0)
	b := buckets
	for i := len(order) - 1; i >= 0; i-- {
		if take[i*(buckets+1)+b] {
			chosen = append(chosen, order[i])
			b -= weights[i]
		}
	}

	if baseline := greedyBaseline(order, budget); utilityOf(baseline) > utilityOf(chosen) {
		return baseline, true
	}
	return chosen, true
}

// greedyBaseline is a plain ratio-greedy accept pass over real costs.
// It recovers exact-budget fits the rounded-up DP cannot represent.
// order must already be in canonical ratio order.
func greedyBaseline(order []types.ScoredSite, budget float64) []types.ScoredSite {
	chosen := make([]types.ScoredSite, 0)
	total := 0.0
	for i := range order {
		if total+order[i].EstimatedCost <= budget {
			chosen = append(chosen, order[i])
			total += order[i].EstimatedCost
		}
	}
	return chosen
}

func utilityOf(sites []types.ScoredSite) float64 {
	var sum float64
	for i := range sites {
		sum += sites[i].CompositeScore
	}
	return sum
}

// freeSites returns every zero-cost site; with no budget to spend they
// are the only feasible picks and each adds non-negative utility.
func freeSites(pool []types.ScoredSite) []types.ScoredSite {
	chosen := make([]types.ScoredSite, 0)
	for i := range pool {
		if pool[i].EstimatedCost == 0 {
			chosen = append(chosen, pool[i])
		}
	}
	return chosen
}
