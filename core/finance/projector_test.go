package finance

import (
	"testing"

	"github.com/shopspring/decimal"

	"h2-site-plan/core/types"
	"h2-site-plan/internal/errors"
)

func selection(totalCost float64) *types.SelectionResult {
	return &types.SelectionResult{TotalCost: totalCost}
}

func TestSplitsMustSumToOne(t *testing.T) {
	params := Params{
		Splits: map[string]float64{
			"construction": 0.5,
			"equipment":    0.45,
		},
	}
	_, err := Project(selection(1000), params)
	if err == nil {
		t.Fatal("expected config error for splits summing to 0.95")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
	if e, ok := err.(*errors.Error); !ok || e.Field != "splits" {
		t.Errorf("error should name the splits field, got %v", err)
	}
}

func TestNegativeSplitRejected(t *testing.T) {
	params := Params{
		Splits: map[string]float64{
			"construction": 1.2,
			"equipment":    -0.2,
		},
	}
	_, err := Project(selection(1000), params)
	if err == nil {
		t.Fatal("expected config error for a negative split")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestROICurveSpansTwentyYears(t *testing.T) {
	projection, err := Project(selection(1_000_000), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projection.ROICurve) != ROIYears {
		t.Fatalf("expected %d yearly entries, got %d", ROIYears, len(projection.ROICurve))
	}
	for i, entry := range projection.ROICurve {
		if entry.Year != i+1 {
			t.Errorf("entry %d: expected year %d, got %d", i, i+1, entry.Year)
		}
	}
}

func TestFirstYearCashFlow(t *testing.T) {
	projection, err := Project(selection(1_000_000), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Year 1: revenue 18% - opex 6% - amortization 1/20 = 7% of capital.
	want := decimal.NewFromInt(70_000)
	got := projection.ROICurve[0].NetCashFlow
	if !got.Equal(want) {
		t.Errorf("expected year-1 net cash flow %s, got %s", want, got)
	}
	wantROI := decimal.NewFromFloat(0.07)
	if !projection.ROICurve[0].CumulativeROI.Equal(wantROI) {
		t.Errorf("expected year-1 ROI %s, got %s", wantROI, projection.ROICurve[0].CumulativeROI)
	}
}

func TestZeroGrowthRateKeepsCashFlowsFlat(t *testing.T) {
	// An explicit zero growth rate must not fall back to the default.
	projection, err := Project(selection(1_000_000), Params{GrowthRate: Rate(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.NewFromInt(70_000)
	for _, entry := range projection.ROICurve {
		if !entry.NetCashFlow.Equal(want) {
			t.Fatalf("year %d: expected flat net cash flow %s, got %s", entry.Year, want, entry.NetCashFlow)
		}
	}
}

func TestCashFlowCompounds(t *testing.T) {
	projection, err := Project(selection(1_000_000), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Year 2: (revenue - opex) grows 5%, amortization stays flat:
	// 120000 * 1.05 - 50000 = 76000.
	want := decimal.NewFromInt(76_000)
	got := projection.ROICurve[1].NetCashFlow
	if !got.Equal(want) {
		t.Errorf("expected year-2 net cash flow %s, got %s", want, got)
	}
}

func TestBreakdownSumsToTotalExactly(t *testing.T) {
	total := 1_234_567.89
	projection, err := Project(selection(total), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := decimal.Zero
	for _, amount := range projection.CostBreakdown {
		sum = sum.Add(amount)
	}
	if !sum.Equal(decimal.NewFromFloat(total)) {
		t.Errorf("breakdown sums to %s, expected %v", sum, total)
	}
	if len(projection.CostBreakdown) != len(DefaultSplits()) {
		t.Errorf("expected %d categories, got %d", len(DefaultSplits()), len(projection.CostBreakdown))
	}
}

func TestBreakdownResidualGoesToLargestCategory(t *testing.T) {
	projection, err := Project(selection(1000), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// construction holds the largest default share, so it absorbs the
	// residual; every other category is an exact product.
	equipment := projection.CostBreakdown["equipment"]
	if !equipment.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected equipment share 250, got %s", equipment)
	}
	construction := projection.CostBreakdown["construction"]
	if !construction.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected construction share 350, got %s", construction)
	}
}

func TestTimelineCoversConfiguredMonths(t *testing.T) {
	projection, err := Project(selection(1_000_000), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projection.Timeline) != 36 {
		t.Fatalf("expected 36 timeline entries, got %d", len(projection.Timeline))
	}

	last := projection.Timeline[len(projection.Timeline)-1]
	if !last.CumulativeSpend.Equal(decimal.NewFromInt(1_000_000)) {
		t.Errorf("cumulative spend should end at the total, got %s", last.CumulativeSpend)
	}
	if last.Phase != types.PhaseCommissioning {
		t.Errorf("schedule should end in commissioning, got %s", last.Phase)
	}

	prev := decimal.Zero
	for _, entry := range projection.Timeline {
		if entry.CumulativeSpend.LessThan(prev) {
			t.Errorf("month %d: cumulative spend decreased", entry.Month)
		}
		prev = entry.CumulativeSpend
	}
}

func TestTimelinePhaseOrdering(t *testing.T) {
	projection, err := Project(selection(1_000_000), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rank := map[string]int{
		types.PhasePlanning:      0,
		types.PhaseConstruction:  1,
		types.PhaseCommissioning: 2,
	}
	prev := -1
	for _, entry := range projection.Timeline {
		r, ok := rank[entry.Phase]
		if !ok {
			t.Fatalf("month %d: unknown phase %q", entry.Month, entry.Phase)
		}
		if r < prev {
			t.Errorf("month %d: phase %s out of order", entry.Month, entry.Phase)
		}
		prev = r
	}
	if projection.Timeline[0].Phase != types.PhasePlanning {
		t.Errorf("schedule should start with planning, got %s", projection.Timeline[0].Phase)
	}
}

func TestEmptySelectionProjectsToZero(t *testing.T) {
	projection, err := Project(selection(0), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projection.Timeline) != 0 {
		t.Errorf("zero total should produce an empty timeline, got %d entries", len(projection.Timeline))
	}
	for category, amount := range projection.CostBreakdown {
		if !amount.IsZero() {
			t.Errorf("category %s should be zero, got %s", category, amount)
		}
	}
	for _, entry := range projection.ROICurve {
		if !entry.CumulativeROI.IsZero() {
			t.Errorf("year %d: ROI should be zero for an empty selection", entry.Year)
		}
	}
}

func TestShortTimeline(t *testing.T) {
	projection, err := Project(selection(1200), Params{TimelineMonths: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projection.Timeline) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(projection.Timeline))
	}
	if projection.Timeline[0].Phase != types.PhasePlanning {
		t.Errorf("first month should be planning, got %s", projection.Timeline[0].Phase)
	}
	if !projection.Timeline[1].CumulativeSpend.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("cumulative spend should end at 1200, got %s", projection.Timeline[1].CumulativeSpend)
	}
}
