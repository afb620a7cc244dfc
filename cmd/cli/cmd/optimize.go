// Package cmd - optimize command
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"h2-site-plan/core/dataset"
	"h2-site-plan/core/engine"
	"h2-site-plan/core/finance"
	"h2-site-plan/core/output"
	"h2-site-plan/core/risk"
	"h2-site-plan/core/scenario"
	"h2-site-plan/core/selector"
	"h2-site-plan/core/types"
	"h2-site-plan/internal/config"
)

var (
	budget         float64
	scenarioPath   string
	outputFormat   string
	maxProjects    int
	maxCost        float64
	minFeasibility float64
	weightCost     float64
	weightRenew    float64
	weightDemand   float64
	weightRisk     float64
)

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize [dataset.csv]",
	Short: "Select the best sites for a budget",
	Long: `Score the candidate dataset, select the budget-respecting subset that
maximizes total utility, and report financial projections and risk.

A scenario file can pin the budget, weights, pre-filters, and financial
assumptions; explicit flags override it.

Examples:
  h2-site-plan optimize sites.csv --budget 2000
  h2-site-plan optimize sites.csv --budget 1500 --weight-risk 0.2
  h2-site-plan optimize sites.csv --scenario plan.hcl --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().Float64VarP(&budget, "budget", "b", 0, "total budget constraint")
	optimizeCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "HCL scenario file")
	optimizeCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	optimizeCmd.Flags().IntVar(&maxProjects, "max-projects", 0, "maximum number of selected sites (0 = unlimited)")
	optimizeCmd.Flags().Float64Var(&maxCost, "max-cost", 0, "pre-filter: drop sites above this cost")
	optimizeCmd.Flags().Float64Var(&minFeasibility, "min-feasibility", 0, "pre-filter: drop sites below this feasibility")
	optimizeCmd.Flags().Float64Var(&weightCost, "weight-cost", -1, "cost criterion weight")
	optimizeCmd.Flags().Float64Var(&weightRenew, "weight-renewable", -1, "renewable-access criterion weight")
	optimizeCmd.Flags().Float64Var(&weightDemand, "weight-demand", -1, "demand-proximity criterion weight")
	optimizeCmd.Flags().Float64Var(&weightRisk, "weight-risk", -1, "risk criterion weight")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("dataset does not exist: %s", path)
	}

	loaded, err := dataset.LoadFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d candidate sites", len(loaded.Sites))
	if loaded.SkippedRows > 0 {
		fmt.Printf(" (%d malformed rows skipped)", loaded.SkippedRows)
	}
	fmt.Println()

	req, err := buildRequest(cfg, loaded)
	if err != nil {
		return err
	}

	eng := engine.New(engineConfig(cfg))
	result, err := eng.Optimize(ctx, req)
	if err != nil {
		return err
	}

	format := output.Format(outputFormat)
	if outputFormat == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}
	formatter, err := output.New(format, cfg.Output.TopSites, cfg.Output.ShowDetails)
	if err != nil {
		return err
	}
	return formatter.Render(os.Stdout, result)
}

// buildRequest merges scenario file and flags; flags win.
func buildRequest(cfg *config.Config, loaded *dataset.LoadResult) (*engine.OptimizeRequest, error) {
	req := &engine.OptimizeRequest{
		Sites:       loaded.Sites,
		Weights:     types.DefaultWeights(),
		SkippedRows: loaded.SkippedRows,
	}

	if scenarioPath != "" {
		sc, err := scenario.Load(scenarioPath)
		if err != nil {
			return nil, err
		}
		req.Budget = sc.Budget
		req.Weights = sc.Weights
		req.MaxProjects = sc.MaxProjects
		req.MaxCost = sc.MaxCost
		req.MinFeasibility = sc.MinFeasibility
		if sc.GrowthRate != nil || sc.DepreciationYears != 0 || sc.TimelineMonths != 0 {
			params := cfg.Finance
			fin := finance.Params{
				Splits:            params.Splits,
				BaseRevenueRate:   finance.Rate(params.BaseRevenueRate),
				BaseOperatingRate: finance.Rate(params.BaseOperatingRate),
				GrowthRate:        finance.Rate(params.GrowthRate),
				DepreciationYears: params.DepreciationYears,
				TimelineMonths:    params.TimelineMonths,
				PlanningShare:     params.PlanningShare,
			}
			if sc.GrowthRate != nil {
				fin.GrowthRate = sc.GrowthRate
			}
			if sc.DepreciationYears != 0 {
				fin.DepreciationYears = sc.DepreciationYears
			}
			if sc.TimelineMonths != 0 {
				fin.TimelineMonths = sc.TimelineMonths
			}
			req.Finance = &fin
		}
	}

	if budget > 0 {
		req.Budget = budget
	}
	if req.Budget <= 0 {
		return nil, fmt.Errorf("a positive budget is required (--budget or scenario file)")
	}
	if maxProjects > 0 {
		req.MaxProjects = maxProjects
	}
	if maxCost > 0 {
		req.MaxCost = maxCost
	}
	if minFeasibility > 0 {
		req.MinFeasibility = minFeasibility
	}

	// Any explicit weight flag replaces the whole weight set; unset
	// criteria fall back to zero so the flags fully describe intent.
	if weightCost >= 0 || weightRenew >= 0 || weightDemand >= 0 || weightRisk >= 0 {
		w := types.CriteriaWeights{}
		if weightCost >= 0 {
			w.Cost = weightCost
		}
		if weightRenew >= 0 {
			w.RenewableAccess = weightRenew
		}
		if weightDemand >= 0 {
			w.DemandProximity = weightDemand
		}
		if weightRisk >= 0 {
			w.Risk = weightRisk
		}
		req.Weights = w
	}
	return req, nil
}

// engineConfig maps application configuration onto engine defaults.
func engineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		Selection: selector.Options{
			ExactThreshold: cfg.Selection.ExactThreshold,
			CostBuckets:    cfg.Selection.CostBuckets,
			SwapIterations: cfg.Selection.SwapIterations,
		},
		Finance: finance.Params{
			Splits:            cfg.Finance.Splits,
			BaseRevenueRate:   finance.Rate(cfg.Finance.BaseRevenueRate),
			BaseOperatingRate: finance.Rate(cfg.Finance.BaseOperatingRate),
			GrowthRate:        finance.Rate(cfg.Finance.GrowthRate),
			DepreciationYears: cfg.Finance.DepreciationYears,
			TimelineMonths:    cfg.Finance.TimelineMonths,
			PlanningShare:     cfg.Finance.PlanningShare,
		},
		Risk: risk.Params{
			FlagThreshold: cfg.Risk.FlagThreshold,
		},
	}
}
