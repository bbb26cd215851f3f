package app

import (
	"context"
	"os"
	"time"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/interfaces"
	"github.com/bobmcallan/tickerboard/internal/models"
	"github.com/bobmcallan/tickerboard/internal/services/dashboard"
)

// warmCache probes the API and loads the stock list, the initial chart and
// the initial detail panel so the first page view is served from cache.
func warmCache(ctx context.Context, source interfaces.DataSource, controller *dashboard.Controller, logger *common.Logger) {
	if os.Getenv("TICKERBOARD_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled via TICKERBOARD_WARM_CACHE=off")
		return
	}

	start := time.Now()
	logger.Info().Msg("Warm cache: starting")

	health := source.ProbeHealth(ctx)
	if ctx.Err() != nil {
		logger.Warn().Err(ctx.Err()).Msg("Warm cache: cancelled during probe")
		return
	}

	sel := dashboard.SelectionFromQuery(nil, controller.Symbols())

	_, statsSource := source.FetchStats(ctx)
	_, seriesSource, _ := controller.LoadChart(ctx, sel)
	details := controller.Details(ctx, sel.Symbol)

	logger.Info().
		Int("online", models.OnlineCount(health)).
		Str("symbol", sel.Symbol).
		Str("stats_source", string(statsSource)).
		Str("series_source", string(seriesSource)).
		Bool("details_failed", details.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("Warm cache: complete")
}
