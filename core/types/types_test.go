package types

import (
	"math"
	"testing"

	"h2-site-plan/internal/errors"
)

func TestWeightsNormalize(t *testing.T) {
	w := CriteriaWeights{Cost: 2, RenewableAccess: 4, DemandProximity: 2, Risk: 2}
	n := w.Normalized()
	if math.Abs(n.Sum()-1.0) > 1e-12 {
		t.Errorf("normalized weights sum to %f", n.Sum())
	}
	if math.Abs(n.RenewableAccess-0.4) > 1e-12 {
		t.Errorf("expected renewable weight 0.4, got %f", n.RenewableAccess)
	}
}

func TestWeightsValidation(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Errorf("default weights must validate: %v", err)
	}
	if err := (CriteriaWeights{}).Validate(); err == nil {
		t.Error("all-zero weights must not validate")
	} else if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
	if err := (CriteriaWeights{Cost: -1, RenewableAccess: 2}).Validate(); err == nil {
		t.Error("negative weight must not validate")
	}
	if err := (CriteriaWeights{Cost: math.NaN(), RenewableAccess: 1}).Validate(); err == nil {
		t.Error("NaN weight must not validate")
	}
}

func TestSiteMeanRisk(t *testing.T) {
	site := Site{RiskFactors: map[string]float64{"a": 0.2, "b": 0.6}}
	if got := site.MeanRisk(); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("expected mean 0.4, got %f", got)
	}
	if got := (&Site{}).MeanRisk(); got != 0 {
		t.Errorf("no factors should mean zero risk, got %f", got)
	}
}

func TestSiteValidation(t *testing.T) {
	valid := Site{ID: "s", EstimatedCost: 10, RenewableDistance: 1, DemandDistance: 1}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid site rejected: %v", err)
	}

	cases := []struct {
		name string
		site Site
	}{
		{"missing id", Site{EstimatedCost: 10}},
		{"negative cost", Site{ID: "s", EstimatedCost: -1}},
		{"negative distance", Site{ID: "s", EstimatedCost: 1, RenewableDistance: -1}},
		{"risk out of range", Site{ID: "s", EstimatedCost: 1, RiskFactors: map[string]float64{"a": 1.1}}},
	}
	for _, c := range cases {
		if err := c.site.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		} else if !errors.IsType(err, errors.TypeData) {
			t.Errorf("%s: expected DATA_ERROR, got %v", c.name, err)
		}
	}
}

func TestHasWarning(t *testing.T) {
	result := SelectionResult{
		Warnings: []Warning{{Code: CodeBudgetTooLow, Message: "budget too low"}},
	}
	if !result.HasWarning(CodeBudgetTooLow) {
		t.Error("expected budget warning to be found")
	}
	if result.HasWarning("OTHER") {
		t.Error("unexpected warning match")
	}
}

func TestSelectedIDs(t *testing.T) {
	result := SelectionResult{
		Selected: []ScoredSite{
			{Site: Site{ID: "a"}},
			{Site: Site{ID: "b"}},
		},
	}
	got := result.SelectedIDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected ids: %v", got)
	}
}
