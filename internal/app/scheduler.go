package app

import (
	"context"
	"time"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/interfaces"
	"github.com/bobmcallan/tickerboard/internal/models"
)

// startHealthMonitor re-probes the stock API on a fixed interval so the
// probe cache stays warm between page views.
func startHealthMonitor(ctx context.Context, source interfaces.DataSource, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", interval).Msg("Health monitor: started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Health monitor: stopped")
			return
		case <-ticker.C:
			probeOnce(ctx, source, logger)
		}
	}
}

func probeOnce(ctx context.Context, source interfaces.DataSource, logger *common.Logger) {
	start := time.Now()
	before := source.StatusSnapshot().UsingRealAPI

	health := source.ProbeHealth(ctx)
	after := source.StatusSnapshot().UsingRealAPI

	event := logger.Debug()
	if before != after {
		event = logger.Info()
	}
	event.
		Int("online", models.OnlineCount(health)).
		Bool("using_real_api", after).
		Bool("changed", before != after).
		Dur("elapsed", time.Since(start)).
		Msg("Health monitor: probe complete")
}
