// Package engine provides the API-primary optimization engine.
// CLI and HTTP surfaces are thin wrappers around this engine.
//
// Each run is a pure computation over an immutable input snapshot: the
// candidate pool, criteria weights, and budget. Any change to weights or
// budget produces a new result set; nothing is mutated in place.
package engine

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"h2-site-plan/core/finance"
	"h2-site-plan/core/risk"
	"h2-site-plan/core/selector"
	"h2-site-plan/core/types"
	"h2-site-plan/core/weighting"
	"h2-site-plan/internal/errors"
	"h2-site-plan/internal/logging"
)

// Version is the engine version reported on results.
const Version = "0.1.0"

// Config holds the engine defaults applied when a request leaves a
// parameter unset.
type Config struct {
	// Selection tunes the budget-constrained selector
	Selection selector.Options

	// Finance parameterizes the financial projector
	Finance finance.Params

	// Risk parameterizes the risk assessor
	Risk risk.Params
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Finance: finance.DefaultParams(),
		Risk:    risk.Params{FlagThreshold: risk.DefaultFlagThreshold},
	}
}

// Engine runs the optimization pipeline:
// score -> weight -> select -> {project, assess}.
type Engine struct {
	config Config
}

// New creates an engine with the given configuration.
func New(config Config) *Engine {
	return &Engine{config: config}
}

// OptimizeRequest is the input to one optimization run.
type OptimizeRequest struct {
	// Sites is the immutable candidate pool for this session
	Sites []types.Site `json:"sites"`

	// Budget is the total-cost ceiling
	Budget float64 `json:"budget"`

	// Weights are the user's criteria weights
	Weights types.CriteriaWeights `json:"weights"`

	// MaxProjects caps the number of selected sites (0 = unlimited)
	MaxProjects int `json:"max_projects,omitempty"`

	// MaxCost pre-filters sites above this cost (0 = disabled)
	MaxCost float64 `json:"max_cost,omitempty"`

	// MinFeasibility pre-filters sites below this feasibility floor
	MinFeasibility float64 `json:"min_feasibility,omitempty"`

	// Finance optionally overrides the engine's projection parameters
	Finance *finance.Params `json:"finance,omitempty"`

	// SkippedRows is echoed from ingestion so results carry the
	// malformed-row accounting
	SkippedRows int `json:"skipped_rows,omitempty"`
}

// RunMetadata identifies and times an optimization run.
type RunMetadata struct {
	// RunID uniquely identifies this run
	RunID string `json:"run_id"`

	// Timestamp is when the run started (RFC3339)
	Timestamp string `json:"timestamp"`

	// Duration is the wall-clock run time
	Duration string `json:"duration"`

	// Version is the engine version
	Version string `json:"version"`
}

// OptimizeResult is the complete output of one run. Plain serializable
// data, consumable independently by map, chart, and table layers.
type OptimizeResult struct {
	// Selection is the budget-constrained selection
	Selection *types.SelectionResult `json:"selection"`

	// Projection justifies the selection financially
	Projection *types.FinancialProjection `json:"projection"`

	// Risk summarizes portfolio risk
	Risk *types.RiskAssessment `json:"risk"`

	// PoolSize is the number of candidates considered
	PoolSize int `json:"pool_size"`

	// SkippedRows counts malformed dataset rows excluded at ingestion
	SkippedRows int `json:"skipped_rows"`

	// Metadata identifies the run
	Metadata RunMetadata `json:"metadata"`
}

// Optimize runs the full pipeline. DATA_ERRORs and CONFIG_ERRORs abort
// the run; warnings ride along inside the selection result.
func (e *Engine) Optimize(ctx context.Context, req *OptimizeRequest) (*OptimizeResult, error) {
	start := time.Now()

	if req == nil {
		return nil, errors.Config("optimization request is required")
	}
	if math.IsNaN(req.Budget) || req.Budget <= 0 {
		return nil, errors.Config("budget must be positive").WithField("budget")
	}
	if err := req.Weights.Validate(); err != nil {
		return nil, err
	}

	log := logging.Named("engine")
	log.Debug("starting optimization",
		zap.Int("pool", len(req.Sites)),
		zap.Float64("budget", req.Budget),
	)

	scored, err := weighting.ScorePool(req.Sites, req.Weights)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "optimization cancelled", err)
	}

	opts := e.config.Selection
	opts.MaxProjects = req.MaxProjects
	opts.MaxCost = req.MaxCost
	opts.MinFeasibility = req.MinFeasibility
	selection, err := selector.Select(scored, req.Budget, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "optimization cancelled", err)
	}

	financeParams := e.config.Finance
	if req.Finance != nil {
		financeParams = *req.Finance
	}
	projection, err := finance.Project(selection, financeParams)
	if err != nil {
		return nil, err
	}

	assessment := risk.Assess(selection, e.config.Risk)

	result := &OptimizeResult{
		Selection:   selection,
		Projection:  projection,
		Risk:        assessment,
		PoolSize:    len(req.Sites),
		SkippedRows: req.SkippedRows,
		Metadata: RunMetadata{
			RunID:     uuid.NewString(),
			Timestamp: start.UTC().Format(time.RFC3339),
			Duration:  time.Since(start).String(),
			Version:   Version,
		},
	}

	log.Info("optimization complete",
		zap.String("run_id", result.Metadata.RunID),
		zap.String("tier", string(selection.Tier)),
		zap.Int("selected", len(selection.Selected)),
		zap.Float64("total_cost", selection.TotalCost),
		zap.Float64("budget_remaining", selection.BudgetRemaining),
	)
	return result, nil
}
