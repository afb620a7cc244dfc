// Package types defines the data model shared by the optimization pipeline.
// All output structures are plain and serializable; presentation layers
// consume them without any embedded rendering logic.
package types

import (
	"math"

	"h2-site-plan/internal/errors"
)

// Site is an immutable candidate location record.
// Records are read-only inputs for a session; derived values live on ScoredSite.
type Site struct {
	// ID uniquely identifies the candidate site
	ID string `json:"id"`

	// Latitude and Longitude locate the site
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// EstimatedCost is the total investment required (monetary, >= 0)
	EstimatedCost float64 `json:"estimated_cost"`

	// RenewableDistance is the distance to the nearest renewable source (>= 0)
	RenewableDistance float64 `json:"renewable_distance"`

	// DemandDistance is the distance to the nearest demand center (>= 0)
	DemandDistance float64 `json:"demand_distance"`

	// RiskFactors maps risk category (regulatory, geological, supply_chain, ...)
	// to a severity score in [0,1]
	RiskFactors map[string]float64 `json:"risk_factors,omitempty"`

	// RawFeasibility is the precomputed feasibility score supplied by the
	// dataset. When present and valid it is the source of truth.
	RawFeasibility *float64 `json:"raw_feasibility,omitempty"`
}

// MeanRisk returns the mean of the site's risk factor severities.
// A site with no recorded risk factors has zero mean risk.
func (s *Site) MeanRisk() float64 {
	if len(s.RiskFactors) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.RiskFactors {
		sum += v
	}
	return sum / float64(len(s.RiskFactors))
}

// HasValidRawFeasibility reports whether the precomputed feasibility score
// is present and usable. Values outside [0,1] or NaN are flagged invalid
// and the computed path is used instead.
func (s *Site) HasValidRawFeasibility() bool {
	if s.RawFeasibility == nil {
		return false
	}
	v := *s.RawFeasibility
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// Validate checks the site record for malformed attributes.
// Returns a DATA_ERROR naming the offending field.
func (s *Site) Validate() error {
	if s.ID == "" {
		return errors.Data("site is missing an identifier", "id")
	}
	if math.IsNaN(s.EstimatedCost) || s.EstimatedCost < 0 {
		return errors.Data("estimated cost must be non-negative", "estimated_cost").
			WithContext("site_id", s.ID)
	}
	if math.IsNaN(s.RenewableDistance) || s.RenewableDistance < 0 {
		return errors.Data("renewable distance must be non-negative", "renewable_distance").
			WithContext("site_id", s.ID)
	}
	if math.IsNaN(s.DemandDistance) || s.DemandDistance < 0 {
		return errors.Data("demand distance must be non-negative", "demand_distance").
			WithContext("site_id", s.ID)
	}
	for category, severity := range s.RiskFactors {
		if math.IsNaN(severity) || severity < 0 || severity > 1 {
			return errors.Data("risk severity must be in [0,1]", "risk_factors").
				WithContext("site_id", s.ID).
				WithContext("category", category)
		}
	}
	return nil
}
