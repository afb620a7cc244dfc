// Package selector - heuristic tier
package selector

import (
	"sort"

	"h2-site-plan/core/types"
)

// Search windows for the local-search refinement. Scanning every
// selected/unselected pair at 74K candidates would defeat the latency
// bound, so moves are drawn from the worst selected and best unselected
// candidates under the canonical ratio order.
const (
	swapSelectedWindow   = 100
	swapUnselectedWindow = 200
)

// greedySelect is the heuristic tier: a ratio-greedy pass over the pool
// followed by a bounded local search that exchanges selected sites for
// higher-utility alternatives while preserving the budget.
func greedySelect(pool []types.ScoredSite, budget float64, opts Options) []types.ScoredSite {
	if len(pool) == 0 {
		return []types.ScoredSite{}
	}

	order := make([]types.ScoredSite, len(pool))
	copy(order, pool)
	sort.SliceStable(order, func(i, j int) bool {
		return ratioLess(&order[i], &order[j])
	})

	selected := make([]bool, len(order))
	totalCost := 0.0
	count := 0
	for i := range order {
		if opts.MaxProjects > 0 && count >= opts.MaxProjects {
			break
		}
		if totalCost+order[i].EstimatedCost <= budget {
			selected[i] = true
			totalCost += order[i].EstimatedCost
			count++
		}
	}

	totalCost = localSearch(order, selected, totalCost, budget, opts)

	chosen := make([]types.ScoredSite, 0, count)
	for i := range order {
		if selected[i] {
			chosen = append(chosen, order[i])
		}
	}
	return chosen
}

// localSearch refines the greedy result in place for at most
// opts.SwapIterations rounds. Each round applies the single best
// utility-improving move: add an unselected site that fits, swap one
// selected site for a better unselected one, or swap one selected site
// for a pair of unselected sites. Stops early when no move improves.
// A bounded refinement over the greedy result, not a re-solve.
func localSearch(order []types.ScoredSite, selected []bool, totalCost, budget float64, opts Options) float64 {
	for iter := 0; iter < opts.SwapIterations; iter++ {
		move := bestMove(order, selected, totalCost, budget, opts)
		if move == nil {
			break
		}
		for _, idx := range move.remove {
			selected[idx] = false
			totalCost -= order[idx].EstimatedCost
		}
		for _, idx := range move.add {
			selected[idx] = true
			totalCost += order[idx].EstimatedCost
		}
	}
	return totalCost
}

type swapMove struct {
	remove []int
	add    []int
	gain   float64
}

func bestMove(order []types.ScoredSite, selected []bool, totalCost, budget float64, opts Options) *swapMove {
	// Worst selected first: order is ratio-descending, so walk backwards.
	var sel []int
	for i := len(order) - 1; i >= 0 && len(sel) < swapSelectedWindow; i-- {
		if selected[i] {
			sel = append(sel, i)
		}
	}
	// Best unselected first.
	var unsel []int
	for i := 0; i < len(order) && len(unsel) < swapUnselectedWindow; i++ {
		if !selected[i] {
			unsel = append(unsel, i)
		}
	}
	if len(unsel) == 0 {
		return nil
	}

	count := 0
	for i := range selected {
		if selected[i] {
			count++
		}
	}

	const eps = 1e-12
	var best *swapMove

	consider := func(m swapMove) {
		if m.gain <= eps {
			return
		}
		if best == nil || m.gain > best.gain {
			best = &swapMove{remove: m.remove, add: m.add, gain: m.gain}
		}
	}

	// Pure additions: space may have been freed by earlier swaps.
	for _, u := range unsel {
		if opts.MaxProjects > 0 && count >= opts.MaxProjects {
			break
		}
		if totalCost+order[u].EstimatedCost <= budget {
			consider(swapMove{add: []int{u}, gain: order[u].CompositeScore})
		}
	}

	for _, s := range sel {
		slack := budget - totalCost + order[s].EstimatedCost

		// One-for-one exchange.
		for _, u := range unsel {
			if order[u].EstimatedCost > slack {
				continue
			}
			consider(swapMove{
				remove: []int{s},
				add:    []int{u},
				gain:   order[u].CompositeScore - order[s].CompositeScore,
			})
		}

		// One-for-two exchange: a low-ratio site makes room for two.
		if opts.MaxProjects > 0 && count+1 > opts.MaxProjects {
			continue
		}
		for ai := 0; ai < len(unsel); ai++ {
			a := unsel[ai]
			if order[a].EstimatedCost > slack {
				continue
			}
			for bi := ai + 1; bi < len(unsel); bi++ {
				b := unsel[bi]
				if order[a].EstimatedCost+order[b].EstimatedCost > slack {
					continue
				}
				consider(swapMove{
					remove: []int{s},
					add:    []int{a, b},
					gain:   order[a].CompositeScore + order[b].CompositeScore - order[s].CompositeScore,
				})
			}
		}
	}

	return best
}
