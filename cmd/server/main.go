// Command server runs the HTTP API for the site-selection engine.
package main

import (
	"flag"
	"net/http"
	"time"

	"go.uber.org/zap"

	"h2-site-plan/api"
	"h2-site-plan/core/engine"
	"h2-site-plan/core/finance"
	"h2-site-plan/core/risk"
	"h2-site-plan/core/selector"
	"h2-site-plan/internal/config"
	"h2-site-plan/internal/logging"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logging.Fatal("unable to load config", zap.Error(err))
		}
		config.Set(loaded)
		cfg = loaded
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Warn("unable to initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	eng := engine.New(engine.Config{
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
		Risk: risk.Params{FlagThreshold: cfg.Risk.FlagThreshold},
	})

	server := &http.Server{
		Addr:              *addr,
		Handler:           api.NewServer(eng, engine.Version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("starting API server", zap.String("addr", *addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Fatal("server failed", zap.Error(err))
	}
}
