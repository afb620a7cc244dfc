// Package types - derived pipeline outputs
package types

import (
	"github.com/shopspring/decimal"
)

// SubScores are the normalized [0,1] per-criterion scores behind a
// feasibility value. Kept on the scored site for explainability.
type SubScores struct {
	// Cost scores cheaper sites higher
	Cost float64 `json:"cost"`

	// Renewable scores proximity to renewable sources
	Renewable float64 `json:"renewable"`

	// Demand scores proximity to demand centers
	Demand float64 `json:"demand"`

	// Risk is 1 - mean risk severity
	Risk float64 `json:"risk"`
}

// ScoredSite is a site plus its derived scores. Immutable once computed;
// recomputed whenever weights change.
type ScoredSite struct {
	Site

	// Feasibility is the normalized [0,1] viability score
	Feasibility float64 `json:"feasibility"`

	// CompositeScore combines sub-scores via the user's criteria weights
	CompositeScore float64 `json:"composite_score"`

	// SubScores explain how the feasibility and composite were built
	SubScores SubScores `json:"sub_scores"`
}

// Tier identifies which selector strategy produced a result
type Tier string

const (
	// TierExact is the dynamic-programming exact tier
	TierExact Tier = "exact"

	// TierGreedy is the ratio-greedy heuristic tier with local search
	TierGreedy Tier = "greedy"
)

// Warning codes
const (
	// CodeBudgetTooLow signals the budget cannot fund the cheapest site.
	// Selection proceeds (empty or partial); never fatal.
	CodeBudgetTooLow = "BUDGET_TOO_LOW"
)

// Warning is a non-fatal condition returned alongside a valid result
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SelectionResult is the output of the budget-constrained selector
type SelectionResult struct {
	// Selected sites ordered by descending composite score
	// (ties: lower cost, then lower id)
	Selected []ScoredSite `json:"selected"`

	// TotalCost is the sum of selected estimated costs; always <= budget
	TotalCost float64 `json:"total_cost"`

	// TotalUtility is the sum of selected composite scores
	TotalUtility float64 `json:"total_utility"`

	// Budget echoes the constraint the selection was solved against
	Budget float64 `json:"budget"`

	// BudgetRemaining = Budget - TotalCost, never negative
	BudgetRemaining float64 `json:"budget_remaining"`

	// UnselectedCount is the number of scored candidates left out
	UnselectedCount int `json:"unselected_count"`

	// FilteredCount is the number of candidates dropped by pre-filtering
	FilteredCount int `json:"filtered_count"`

	// Tier records which strategy solved the selection
	Tier Tier `json:"tier"`

	// Warnings carries non-fatal conditions (e.g. budget too low)
	Warnings []Warning `json:"warnings,omitempty"`
}

// HasWarning reports whether a warning with the given code is present
func (r *SelectionResult) HasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// SelectedIDs returns the selected site ids in display order
func (r *SelectionResult) SelectedIDs() []string {
	ids := make([]string, len(r.Selected))
	for i, s := range r.Selected {
		ids[i] = s.ID
	}
	return ids
}

// YearlyReturn is one entry of the 20-year ROI curve
type YearlyReturn struct {
	// Year is 1-based
	Year int `json:"year"`

	// NetCashFlow = revenue - operating cost - amortized capital
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`

	// CumulativeCashFlow is the running sum of net cash flows
	CumulativeCashFlow decimal.Decimal `json:"cumulative_cash_flow"`

	// CumulativeROI = cumulative cash flow / total cost
	CumulativeROI decimal.Decimal `json:"cumulative_roi"`
}

// Phase labels for timeline entries
const (
	PhasePlanning      = "planning"
	PhaseConstruction  = "construction"
	PhaseCommissioning = "commissioning"
)

// TimelineEntry is one month of the implementation schedule
type TimelineEntry struct {
	// Month is 1-based
	Month int `json:"month"`

	// Phase is planning, construction, or commissioning
	Phase string `json:"phase"`

	// Spend is the investment allocated to this month
	Spend decimal.Decimal `json:"spend"`

	// CumulativeSpend is the running total
	CumulativeSpend decimal.Decimal `json:"cumulative_spend"`
}

// FinancialProjection justifies a selection with cost, ROI, and schedule views
type FinancialProjection struct {
	// CostBreakdown allocates total cost across fixed categories;
	// amounts sum exactly to the selection's total cost
	CostBreakdown map[string]decimal.Decimal `json:"cost_breakdown"`

	// ROICurve holds exactly 20 yearly entries
	ROICurve []YearlyReturn `json:"roi_curve"`

	// Timeline is the month-by-month implementation schedule
	Timeline []TimelineEntry `json:"timeline"`
}

// Risk level labels
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// RiskAssessment summarizes portfolio risk for a selection.
// Informational only; it never alters the selection.
type RiskAssessment struct {
	// AggregateRisk is the cost-weighted mean of per-site mean risk, in [0,1]
	AggregateRisk float64 `json:"aggregate_risk"`

	// AggregateLevel labels the aggregate (low/medium/high)
	AggregateLevel string `json:"aggregate_level"`

	// Flagged lists ids of selected sites whose mean risk exceeds the
	// configured threshold, sorted for determinism
	Flagged []string `json:"flagged,omitempty"`

	// PerCategory is the cost-weighted mean severity per risk category
	PerCategory map[string]float64 `json:"per_category,omitempty"`

	// Levels labels each category (low/medium/high)
	Levels map[string]string `json:"levels,omitempty"`
}
