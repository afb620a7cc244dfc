package risk

import (
	"math"
	"reflect"
	"testing"

	"h2-site-plan/core/types"
)

func riskSite(id string, cost float64, factors map[string]float64) types.ScoredSite {
	return types.ScoredSite{
		Site: types.Site{ID: id, EstimatedCost: cost, RiskFactors: factors},
	}
}

func TestAggregateIsCostWeighted(t *testing.T) {
	selection := &types.SelectionResult{
		Selected: []types.ScoredSite{
			riskSite("big", 300, map[string]float64{"regulatory": 0.8}),
			riskSite("small", 100, map[string]float64{"regulatory": 0.2}),
		},
		TotalCost: 400,
	}

	assessment := Assess(selection, Params{})
	// 0.75 * 0.8 + 0.25 * 0.2
	if math.Abs(assessment.AggregateRisk-0.65) > 1e-12 {
		t.Errorf("expected cost-weighted aggregate 0.65, got %f", assessment.AggregateRisk)
	}
	if assessment.AggregateLevel != types.RiskLevelMedium {
		t.Errorf("0.65 should label medium, got %s", assessment.AggregateLevel)
	}
}

func TestFlaggingAboveThreshold(t *testing.T) {
	selection := &types.SelectionResult{
		Selected: []types.ScoredSite{
			riskSite("z-risky", 100, map[string]float64{"geological": 0.9}),
			riskSite("a-risky", 100, map[string]float64{"geological": 0.8}),
			riskSite("safe", 100, map[string]float64{"geological": 0.7}),
		},
		TotalCost: 300,
	}

	assessment := Assess(selection, Params{})
	if !reflect.DeepEqual(assessment.Flagged, []string{"a-risky", "z-risky"}) {
		t.Errorf("expected sorted flags [a-risky z-risky], got %v", assessment.Flagged)
	}
}

func TestFlagThresholdIsStrict(t *testing.T) {
	selection := &types.SelectionResult{
		Selected: []types.ScoredSite{
			riskSite("at-threshold", 100, map[string]float64{"regulatory": 0.7}),
		},
		TotalCost: 100,
	}
	assessment := Assess(selection, Params{})
	if len(assessment.Flagged) != 0 {
		t.Errorf("mean risk exactly at the threshold must not flag, got %v", assessment.Flagged)
	}
}

func TestCustomThreshold(t *testing.T) {
	selection := &types.SelectionResult{
		Selected: []types.ScoredSite{
			riskSite("a", 100, map[string]float64{"regulatory": 0.5}),
		},
		TotalCost: 100,
	}
	assessment := Assess(selection, Params{FlagThreshold: 0.4})
	if !reflect.DeepEqual(assessment.Flagged, []string{"a"}) {
		t.Errorf("expected [a] with threshold 0.4, got %v", assessment.Flagged)
	}
}

func TestPerCategoryMeans(t *testing.T) {
	selection := &types.SelectionResult{
		Selected: []types.ScoredSite{
			riskSite("a", 100, map[string]float64{"regulatory": 0.2, "geological": 0.9}),
			riskSite("b", 100, map[string]float64{"regulatory": 0.6}),
		},
		TotalCost: 200,
	}

	assessment := Assess(selection, Params{})
	if math.Abs(assessment.PerCategory["regulatory"]-0.4) > 1e-12 {
		t.Errorf("expected regulatory mean 0.4, got %f", assessment.PerCategory["regulatory"])
	}
	// geological appears only on site a; its mean normalizes to a's severity.
	if math.Abs(assessment.PerCategory["geological"]-0.9) > 1e-12 {
		t.Errorf("expected geological mean 0.9, got %f", assessment.PerCategory["geological"])
	}
	if assessment.Levels["geological"] != types.RiskLevelHigh {
		t.Errorf("0.9 should label high, got %s", assessment.Levels["geological"])
	}
	if assessment.Levels["regulatory"] != types.RiskLevelMedium {
		t.Errorf("0.4 should label medium, got %s", assessment.Levels["regulatory"])
	}
}

func TestZeroCostSelectionWeighsEqually(t *testing.T) {
	selection := &types.SelectionResult{
		Selected: []types.ScoredSite{
			riskSite("a", 0, map[string]float64{"regulatory": 0.2}),
			riskSite("b", 0, map[string]float64{"regulatory": 0.8}),
		},
		TotalCost: 0,
	}
	assessment := Assess(selection, Params{})
	if math.Abs(assessment.AggregateRisk-0.5) > 1e-12 {
		t.Errorf("expected equal-weight aggregate 0.5, got %f", assessment.AggregateRisk)
	}
}

func TestEmptySelection(t *testing.T) {
	assessment := Assess(&types.SelectionResult{}, Params{})
	if assessment.AggregateRisk != 0 {
		t.Errorf("expected zero aggregate, got %f", assessment.AggregateRisk)
	}
	if assessment.AggregateLevel != types.RiskLevelLow {
		t.Errorf("expected low level, got %s", assessment.AggregateLevel)
	}
	if len(assessment.Flagged) != 0 {
		t.Errorf("expected no flags, got %v", assessment.Flagged)
	}
}

func TestLevelBands(t *testing.T) {
	cases := []struct {
		severity float64
		want     string
	}{
		{0, types.RiskLevelLow},
		{0.39, types.RiskLevelLow},
		{0.4, types.RiskLevelMedium},
		{0.69, types.RiskLevelMedium},
		{0.7, types.RiskLevelHigh},
		{1, types.RiskLevelHigh},
	}
	for _, c := range cases {
		if got := Level(c.severity); got != c.want {
			t.Errorf("Level(%f) = %s, want %s", c.severity, got, c.want)
		}
	}
}
