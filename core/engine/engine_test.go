package engine

import (
	"context"
	"reflect"
	"testing"

	"h2-site-plan/core/finance"
	"h2-site-plan/core/types"
	"h2-site-plan/internal/errors"
)

func testSites() []types.Site {
	return []types.Site{
		{ID: "north", EstimatedCost: 100, RenewableDistance: 5, DemandDistance: 10,
			RiskFactors: map[string]float64{"regulatory": 0.2}},
		{ID: "south", EstimatedCost: 100, RenewableDistance: 40, DemandDistance: 30,
			RiskFactors: map[string]float64{"regulatory": 0.9}},
		{ID: "east", EstimatedCost: 50, RenewableDistance: 20, DemandDistance: 20},
	}
}

func TestOptimizeEndToEnd(t *testing.T) {
	eng := New(DefaultConfig())
	result, err := eng.Optimize(context.Background(), &OptimizeRequest{
		Sites:       testSites(),
		Budget:      150,
		Weights:     types.DefaultWeights(),
		SkippedRows: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Selection == nil || result.Projection == nil || result.Risk == nil {
		t.Fatal("result must carry selection, projection, and risk assessment")
	}
	if result.Selection.TotalCost > 150 {
		t.Errorf("budget violated: %f", result.Selection.TotalCost)
	}
	if result.PoolSize != 3 {
		t.Errorf("expected pool size 3, got %d", result.PoolSize)
	}
	if result.SkippedRows != 2 {
		t.Errorf("expected skipped rows echoed, got %d", result.SkippedRows)
	}
	if len(result.Projection.ROICurve) != finance.ROIYears {
		t.Errorf("expected %d ROI years, got %d", finance.ROIYears, len(result.Projection.ROICurve))
	}
	if result.Metadata.RunID == "" || result.Metadata.Version != Version {
		t.Errorf("incomplete run metadata: %+v", result.Metadata)
	}
}

func TestOptimizeIsDeterministicAcrossRuns(t *testing.T) {
	eng := New(DefaultConfig())
	req := &OptimizeRequest{Sites: testSites(), Budget: 150, Weights: types.DefaultWeights()}

	first, err := eng.Optimize(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := eng.Optimize(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first.Selection.SelectedIDs(), second.Selection.SelectedIDs()) {
		t.Errorf("selections differ: %v vs %v",
			first.Selection.SelectedIDs(), second.Selection.SelectedIDs())
	}
	if first.Selection.TotalUtility != second.Selection.TotalUtility {
		t.Errorf("utilities differ: %f vs %f",
			first.Selection.TotalUtility, second.Selection.TotalUtility)
	}
	if first.Metadata.RunID == second.Metadata.RunID {
		t.Error("each run must carry a fresh run id")
	}
}

func TestWeightChangeReordersResults(t *testing.T) {
	eng := New(DefaultConfig())
	sites := testSites()

	costDriven, err := eng.Optimize(context.Background(), &OptimizeRequest{
		Sites: sites, Budget: 1000,
		Weights: types.CriteriaWeights{Cost: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	renewableDriven, err := eng.Optimize(context.Background(), &OptimizeRequest{
		Sites: sites, Budget: 1000,
		Weights: types.CriteriaWeights{RenewableAccess: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cheapest site leads under pure cost weighting; closest-to-renewables
	// leads when that criterion takes all the weight.
	if costDriven.Selection.Selected[0].ID != "east" {
		t.Errorf("expected east first under cost weighting, got %s", costDriven.Selection.Selected[0].ID)
	}
	if renewableDriven.Selection.Selected[0].ID != "north" {
		t.Errorf("expected north first under renewable weighting, got %s", renewableDriven.Selection.Selected[0].ID)
	}
}

func TestNilRequestIsConfigError(t *testing.T) {
	eng := New(DefaultConfig())
	_, err := eng.Optimize(context.Background(), nil)
	if err == nil {
		t.Fatal("expected config error for a nil request")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestNonPositiveBudgetRejected(t *testing.T) {
	eng := New(DefaultConfig())
	for _, budget := range []float64{0, -100} {
		_, err := eng.Optimize(context.Background(), &OptimizeRequest{
			Sites:   testSites(),
			Budget:  budget,
			Weights: types.DefaultWeights(),
		})
		if err == nil {
			t.Fatalf("expected config error for budget %f", budget)
		}
		if !errors.IsType(err, errors.TypeConfig) {
			t.Errorf("budget %f: expected CONFIG_ERROR, got %v", budget, err)
		}
	}
}

func TestInvalidWeightsAbortRun(t *testing.T) {
	eng := New(DefaultConfig())
	_, err := eng.Optimize(context.Background(), &OptimizeRequest{
		Sites:   testSites(),
		Budget:  1000,
		Weights: types.CriteriaWeights{},
	})
	if err == nil {
		t.Fatal("expected config error for zero-sum weights")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestMalformedSiteAbortsRun(t *testing.T) {
	eng := New(DefaultConfig())
	_, err := eng.Optimize(context.Background(), &OptimizeRequest{
		Sites:   []types.Site{{ID: "bad", EstimatedCost: -1}},
		Budget:  1000,
		Weights: types.DefaultWeights(),
	})
	if err == nil {
		t.Fatal("expected data error for a malformed site")
	}
	if !errors.IsType(err, errors.TypeData) {
		t.Errorf("expected DATA_ERROR, got %v", err)
	}
}

func TestCancelledContextAbortsRun(t *testing.T) {
	eng := New(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Optimize(ctx, &OptimizeRequest{
		Sites:   testSites(),
		Budget:  1000,
		Weights: types.DefaultWeights(),
	})
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
	if !errors.IsType(err, errors.TypeInternal) {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}

func TestFinanceOverridePropagates(t *testing.T) {
	eng := New(DefaultConfig())
	result, err := eng.Optimize(context.Background(), &OptimizeRequest{
		Sites:   testSites(),
		Budget:  1000,
		Weights: types.DefaultWeights(),
		Finance: &finance.Params{TimelineMonths: 12},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Projection.Timeline) != 12 {
		t.Errorf("expected 12 timeline months, got %d", len(result.Projection.Timeline))
	}
}
