// Package scenario loads optimization scenarios from HCL files, the
// planner-facing way to pin a budget, criteria weights, pre-filters, and
// financial assumptions alongside a dataset.
//
// Example:
//
//	budget       = 2000
//	max_projects = 8
//
//	weights {
//	  cost             = 0.3
//	  renewable_access = 0.4
//	  demand_proximity = 0.3
//	}
//
//	prefilter {
//	  min_feasibility = 0.2
//	}
package scenario

import (
	"github.com/hashicorp/hcl/v2/hclsimple"

	"h2-site-plan/core/types"
	"h2-site-plan/internal/errors"
)

// Scenario is a decoded optimization scenario.
type Scenario struct {
	// Budget is the total budget constraint
	Budget float64

	// MaxProjects caps the number of selected sites (0 = unlimited)
	MaxProjects int

	// Weights are the criteria weights (defaults when absent)
	Weights types.CriteriaWeights

	// MaxCost pre-filters sites above this cost (0 = disabled)
	MaxCost float64

	// MinFeasibility pre-filters sites below this floor
	MinFeasibility float64

	// GrowthRate overrides the projection growth rate (nil = default)
	GrowthRate *float64

	// DepreciationYears overrides the amortization horizon (0 = default)
	DepreciationYears int

	// TimelineMonths overrides the timeline length (0 = default)
	TimelineMonths int
}

type fileSchema struct {
	Budget      float64          `hcl:"budget"`
	MaxProjects *int             `hcl:"max_projects,optional"`
	Weights     *weightsSchema   `hcl:"weights,block"`
	Prefilter   *prefilterSchema `hcl:"prefilter,block"`
	Finance     *financeSchema   `hcl:"finance,block"`
}

type weightsSchema struct {
	Cost            *float64 `hcl:"cost,optional"`
	RenewableAccess *float64 `hcl:"renewable_access,optional"`
	DemandProximity *float64 `hcl:"demand_proximity,optional"`
	Risk            *float64 `hcl:"risk,optional"`
}

type prefilterSchema struct {
	MaxCost        *float64 `hcl:"max_cost,optional"`
	MinFeasibility *float64 `hcl:"min_feasibility,optional"`
}

type financeSchema struct {
	GrowthRate        *float64 `hcl:"growth_rate,optional"`
	DepreciationYears *int     `hcl:"depreciation_years,optional"`
	TimelineMonths    *int     `hcl:"timeline_months,optional"`
}

// Load decodes a scenario file. Decode and validation failures are
// CONFIG_ERRORs identifying the offending field.
func Load(path string) (*Scenario, error) {
	var file fileSchema
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "unable to decode scenario file", err).
			WithContext("path", path)
	}
	return fromSchema(&file)
}

// Parse decodes scenario source held in memory; filename is used for
// diagnostics only and must end in .hcl or .json.
func Parse(src []byte, filename string) (*Scenario, error) {
	var file fileSchema
	if err := hclsimple.Decode(filename, src, nil, &file); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "unable to decode scenario", err)
	}
	return fromSchema(&file)
}

func fromSchema(file *fileSchema) (*Scenario, error) {
	s := &Scenario{
		Budget:  file.Budget,
		Weights: types.DefaultWeights(),
	}
	if s.Budget < 0 {
		return nil, errors.Config("budget must be non-negative").WithField("budget")
	}
	if file.MaxProjects != nil {
		if *file.MaxProjects < 0 {
			return nil, errors.Config("max_projects must be non-negative").WithField("max_projects")
		}
		s.MaxProjects = *file.MaxProjects
	}
	if w := file.Weights; w != nil {
		// An explicit weights block replaces the defaults entirely;
		// omitted criteria weigh zero.
		s.Weights = types.CriteriaWeights{}
		if w.Cost != nil {
			s.Weights.Cost = *w.Cost
		}
		if w.RenewableAccess != nil {
			s.Weights.RenewableAccess = *w.RenewableAccess
		}
		if w.DemandProximity != nil {
			s.Weights.DemandProximity = *w.DemandProximity
		}
		if w.Risk != nil {
			s.Weights.Risk = *w.Risk
		}
		if err := s.Weights.Validate(); err != nil {
			return nil, err
		}
	}
	if p := file.Prefilter; p != nil {
		if p.MaxCost != nil {
			s.MaxCost = *p.MaxCost
		}
		if p.MinFeasibility != nil {
			s.MinFeasibility = *p.MinFeasibility
		}
	}
	if f := file.Finance; f != nil {
		s.GrowthRate = f.GrowthRate
		if f.DepreciationYears != nil {
			s.DepreciationYears = *f.DepreciationYears
		}
		if f.TimelineMonths != nil {
			s.TimelineMonths = *f.TimelineMonths
		}
	}
	return s, nil
}
