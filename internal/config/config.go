// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"h2-site-plan/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Selection contains selector tuning
	Selection SelectionConfig `json:"selection"`

	// Finance contains financial projection parameters
	Finance FinanceConfig `json:"finance"`

	// Risk contains risk assessment parameters
	Risk RiskConfig `json:"risk"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// SelectionConfig tunes the budget-constrained selector
type SelectionConfig struct {
	// ExactThreshold is the maximum filtered pool size for the exact tier
	ExactThreshold int `json:"exact_threshold"`

	// CostBuckets is the cost discretization resolution for the exact tier
	CostBuckets int `json:"cost_buckets"`

	// SwapIterations bounds the local search after the greedy pass
	SwapIterations int `json:"swap_iterations"`
}

// FinanceConfig contains financial projection parameters
type FinanceConfig struct {
	// Splits maps cost category to its share of total cost (must sum to 1.0)
	Splits map[string]float64 `json:"splits"`

	// BaseRevenueRate is year-1 revenue as a fraction of total capital
	BaseRevenueRate float64 `json:"base_revenue_rate"`

	// BaseOperatingRate is year-1 operating cost as a fraction of total capital
	BaseOperatingRate float64 `json:"base_operating_rate"`

	// GrowthRate is the compounding annual growth applied to revenue and opex
	GrowthRate float64 `json:"growth_rate"`

	// DepreciationYears is the linear capital amortization horizon
	DepreciationYears int `json:"depreciation_years"`

	// TimelineMonths is the implementation timeline length
	TimelineMonths int `json:"timeline_months"`

	// PlanningShare is the fraction of timeline months spent on
	// planning and permitting before construction starts
	PlanningShare float64 `json:"planning_share"`
}

// RiskConfig contains risk assessment parameters
type RiskConfig struct {
	// FlagThreshold flags selected sites whose mean risk exceeds it
	FlagThreshold float64 `json:"flag_threshold"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// TopSites limits how many selected sites the CLI table shows
	TopSites int `json:"top_sites"`

	// ShowDetails shows per-site sub-scores in the CLI table
	ShowDetails bool `json:"show_details"`
}

// DefaultSplits are typical cost shares for hydrogen infrastructure projects
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

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Selection: SelectionConfig{
			ExactThreshold: 2000,
			CostBuckets:    10000,
			SwapIterations: 50,
		},
		Finance: FinanceConfig{
			Splits:            DefaultSplits(),
			BaseRevenueRate:   0.18,
			BaseOperatingRate: 0.06,
			GrowthRate:        0.05,
			DepreciationYears: 20,
			TimelineMonths:    36,
			PlanningShare:     0.25,
		},
		Risk: RiskConfig{
			FlagThreshold: 0.7,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			TopSites:      10,
			ShowDetails:   true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
