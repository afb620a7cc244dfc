// Package types - criteria weights
package types

import (
	"math"

	"h2-site-plan/internal/errors"
)

// CriteriaWeights holds user-specified relative weights for the four
// selection criteria. Weights are normalized to sum to 1 before use, so
// composite scores are invariant to scaling all weights by the same
// positive constant.
type CriteriaWeights struct {
	// Cost weights the cost sub-score (lower cost scores higher)
	Cost float64 `json:"cost"`

	// RenewableAccess weights proximity to renewable sources
	RenewableAccess float64 `json:"renewable_access"`

	// DemandProximity weights proximity to demand centers
	DemandProximity float64 `json:"demand_proximity"`

	// Risk weights the inverse-risk sub-score
	Risk float64 `json:"risk"`
}

// DefaultWeights mirror the planner defaults: renewable access dominates,
// cost and demand proximity split the remainder.
func DefaultWeights() CriteriaWeights {
	return CriteriaWeights{
		Cost:            0.3,
		RenewableAccess: 0.4,
		DemandProximity: 0.3,
		Risk:            0.0,
	}
}

// Sum returns the raw weight total.
func (w CriteriaWeights) Sum() float64 {
	return w.Cost + w.RenewableAccess + w.DemandProximity + w.Risk
}

// Validate checks the invariant: no negative weights, at least one > 0.
func (w CriteriaWeights) Validate() error {
	for _, pair := range []struct {
		name  string
		value float64
	}{
		{"cost", w.Cost},
		{"renewable_access", w.RenewableAccess},
		{"demand_proximity", w.DemandProximity},
		{"risk", w.Risk},
	} {
		if math.IsNaN(pair.value) || pair.value < 0 {
			return errors.Config("criteria weights must be non-negative").
				WithField(pair.name)
		}
	}
	if w.Sum() == 0 {
		return errors.Config("criteria weights must not all be zero")
	}
	return nil
}

// Normalized returns a copy scaled to sum to 1.
// Callers must Validate first; a zero sum passes through unchanged.
func (w CriteriaWeights) Normalized() CriteriaWeights {
	sum := w.Sum()
	if sum == 0 {
		return w
	}
	return CriteriaWeights{
		Cost:            w.Cost / sum,
		RenewableAccess: w.RenewableAccess / sum,
		DemandProximity: w.DemandProximity / sum,
		Risk:            w.Risk / sum,
	}
}
