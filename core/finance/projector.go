// Package finance computes the financial projections that justify a
// selection: cost breakdown by category, a 20-year ROI curve, and a
// month-by-month implementation timeline.
//
// All money math uses decimals; the breakdown and timeline are pinned so
// their sums equal the selection's total cost exactly.
package finance

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"h2-site-plan/core/types"
	"h2-site-plan/internal/errors"
)

// ROIYears is the fixed projection horizon.
const ROIYears = 20

// Params configures the projector. Zero values fall back to defaults;
// the rate parameters are pointers so an explicit zero (flat cash flows)
// stays distinguishable from unset.
type Params struct {
	// Splits maps cost category to its share of total cost; must sum to 1.0
	Splits map[string]float64

	// BaseRevenueRate is year-1 revenue as a fraction of total capital
	// (nil = default)
	BaseRevenueRate *float64

	// BaseOperatingRate is year-1 operating cost as a fraction of total
	// capital (nil = default)
	BaseOperatingRate *float64

	// GrowthRate compounds revenue and operating cost year over year
	// (nil = default)
	GrowthRate *float64

	// DepreciationYears is the linear capital amortization horizon
	DepreciationYears int

	// TimelineMonths is the implementation schedule length
	TimelineMonths int

	// PlanningShare is the fraction of months spent planning/permitting
	PlanningShare float64
}

// Rate returns a pointer to v, for building Params literals.
func Rate(v float64) *float64 { return &v }

// DefaultSplits are typical shares for hydrogen infrastructure projects.
func DefaultSplits() map[string]float64 {
	return map[string]float64{
		"construction":             0.35,
		"equipment":                0.25,
		"grid_connection":          0.15,
		"transport_infrastructure": 0.10,
		"land_acquisition":         0.05,
		"permits_licensing":        0.05,
		"contingency":              0.05,
	}
}

// DefaultParams returns the projector defaults.
func DefaultParams() Params {
	return Params{
		Splits:            DefaultSplits(),
		BaseRevenueRate:   Rate(defaultRevenueRate),
		BaseOperatingRate: Rate(defaultOperatingRate),
		GrowthRate:        Rate(defaultGrowthRate),
		DepreciationYears: ROIYears,
		TimelineMonths:    36,
		PlanningShare:     0.25,
	}
}

const (
	defaultRevenueRate   = 0.18
	defaultOperatingRate = 0.06
	defaultGrowthRate    = 0.05

	splitSumTolerance = 1e-9
)

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Splits == nil {
		p.Splits = d.Splits
	}
	if p.BaseRevenueRate == nil {
		p.BaseRevenueRate = d.BaseRevenueRate
	}
	if p.BaseOperatingRate == nil {
		p.BaseOperatingRate = d.BaseOperatingRate
	}
	if p.GrowthRate == nil {
		p.GrowthRate = d.GrowthRate
	}
	if p.DepreciationYears <= 0 {
		p.DepreciationYears = d.DepreciationYears
	}
	if p.TimelineMonths <= 0 {
		p.TimelineMonths = d.TimelineMonths
	}
	if p.PlanningShare == 0 {
		p.PlanningShare = d.PlanningShare
	}
	return p
}

// validate checks caller-supplied parameters.
func (p Params) validate() error {
	sum := 0.0
	for category, share := range p.Splits {
		if math.IsNaN(share) || share < 0 {
			return errors.Config("cost breakdown percentages must be non-negative").
				WithField("splits").WithContext("category", category)
		}
		sum += share
	}
	if math.Abs(sum-1.0) > splitSumTolerance {
		return errors.Configf("cost breakdown percentages must sum to 1.0, got %.4f", sum).
			WithField("splits")
	}
	if *p.GrowthRate <= -1 {
		return errors.Config("growth rate must be greater than -100%").WithField("growth_rate")
	}
	if p.PlanningShare < 0 || p.PlanningShare >= 1 {
		return errors.Config("planning share must be in [0,1)").WithField("planning_share")
	}
	return nil
}

// Project computes the financial projection for a selection.
func Project(selection *types.SelectionResult, params Params) (*types.FinancialProjection, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	total := decimal.NewFromFloat(selection.TotalCost)
	return &types.FinancialProjection{
		CostBreakdown: breakdown(total, params.Splits),
		ROICurve:      roiCurve(total, params),
		Timeline:      timeline(total, params),
	}, nil
}

// breakdown allocates the total across categories. The largest category
// absorbs the residual so the amounts sum to the total exactly.
func breakdown(total decimal.Decimal, splits map[string]float64) map[string]decimal.Decimal {
	categories := make([]string, 0, len(splits))
	for c := range splits {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	largest := ""
	for _, c := range categories {
		if largest == "" || splits[c] > splits[largest] {
			largest = c
		}
	}

	out := make(map[string]decimal.Decimal, len(splits))
	allocated := decimal.Zero
	for _, c := range categories {
		if c == largest {
			continue
		}
		amount := total.Mul(decimal.NewFromFloat(splits[c]))
		out[c] = amount
		allocated = allocated.Add(amount)
	}
	if largest != "" {
		out[largest] = total.Sub(allocated)
	}
	return out
}

// roiCurve computes exactly ROIYears yearly entries. Revenue and
// operating cost compound from year 1; capital amortizes linearly over
// the depreciation horizon.
func roiCurve(total decimal.Decimal, params Params) []types.YearlyReturn {
	curve := make([]types.YearlyReturn, 0, ROIYears)

	growth := decimal.NewFromFloat(1 + *params.GrowthRate)
	revenue := total.Mul(decimal.NewFromFloat(*params.BaseRevenueRate))
	opex := total.Mul(decimal.NewFromFloat(*params.BaseOperatingRate))
	amortized := decimal.Zero
	if params.DepreciationYears > 0 {
		amortized = total.Div(decimal.NewFromInt(int64(params.DepreciationYears)))
	}

	cumulative := decimal.Zero
	for year := 1; year <= ROIYears; year++ {
		capital := decimal.Zero
		if year <= params.DepreciationYears {
			capital = amortized
		}
		net := revenue.Sub(opex).Sub(capital)
		cumulative = cumulative.Add(net)

		roi := decimal.Zero
		if !total.IsZero() {
			roi = cumulative.Div(total)
		}
		curve = append(curve, types.YearlyReturn{
			Year:               year,
			NetCashFlow:        net,
			CumulativeCashFlow: cumulative,
			CumulativeROI:      roi,
		})

		revenue = revenue.Mul(growth)
		opex = opex.Mul(growth)
	}
	return curve
}

// timeline distributes implementation spend across the configured months:
// planning/permitting months first carrying the permitting allocation,
// then construction, with the final fifth of the build commissioning.
// The last month absorbs residuals so cumulative spend ends at the total.
func timeline(total decimal.Decimal, params Params) []types.TimelineEntry {
	months := params.TimelineMonths
	if months <= 0 || total.IsZero() {
		return []types.TimelineEntry{}
	}

	planning := int(math.Round(float64(months) * params.PlanningShare))
	if planning < 1 {
		planning = 1
	}
	if planning >= months {
		planning = months - 1
	}
	if months == 1 {
		planning = 0
	}
	build := months - planning

	construction := int(math.Floor(0.8 * float64(build)))
	if construction == 0 {
		construction = build
	}

	planShare := 0.0
	if s, ok := params.Splits["permits_licensing"]; ok {
		planShare = s
	}
	planTotal := total.Mul(decimal.NewFromFloat(planShare))
	if planning == 0 {
		planTotal = decimal.Zero
	}
	buildTotal := total.Sub(planTotal)

	entries := make([]types.TimelineEntry, 0, months)
	cumulative := decimal.Zero

	perPlanning := decimal.Zero
	if planning > 0 {
		perPlanning = planTotal.Div(decimal.NewFromInt(int64(planning)))
	}
	perBuild := buildTotal.Div(decimal.NewFromInt(int64(build)))

	for month := 1; month <= months; month++ {
		var phase string
		var spend decimal.Decimal
		switch {
		case month <= planning:
			phase = types.PhasePlanning
			spend = perPlanning
		case month <= planning+construction:
			phase = types.PhaseConstruction
			spend = perBuild
		default:
			phase = types.PhaseCommissioning
			spend = perBuild
		}
		if month == months {
			// Pin the schedule total to the selection's total cost.
			spend = total.Sub(cumulative)
		}
		cumulative = cumulative.Add(spend)
		entries = append(entries, types.TimelineEntry{
			Month:           month,
			Phase:           phase,
			Spend:           spend,
			CumulativeSpend: cumulative,
		})
	}
	return entries
}
