package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/bobmcallan/tickerboard/internal/clients/stockapi"
	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/interfaces"
	"github.com/bobmcallan/tickerboard/internal/services/arbiter"
	"github.com/bobmcallan/tickerboard/internal/services/chart"
	"github.com/bobmcallan/tickerboard/internal/services/dashboard"
	"github.com/bobmcallan/tickerboard/internal/services/mockdata"
)

// probeDebounce coalesces bursts of manual probe requests.
const probeDebounce = 500 * time.Millisecond

// App holds the initialized client, services and controller shared by the
// HTTP server.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Client      interfaces.StockAPIClient // nil when the API is disabled
	Mock        *mockdata.Generator
	Source      *arbiter.Service
	Renderer    *chart.Renderer
	Dashboard   *dashboard.Controller
	StartupTime time.Time

	monitorCancel   context.CancelFunc
	warmCacheCancel context.CancelFunc
	probeDebouncer  *common.Debouncer
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// loadDotEnv loads the first .env files found next to the binary and in the
// working directory. Variables already set in the environment win.
func loadDotEnv(binDir string) []string {
	var loaded []string
	for _, path := range []string{filepath.Join(binDir, ".env"), ".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

// resolveConfigPath checks the provided path, TICKERBOARD_CONFIG, the binary
// dir, then the development fallback.
func resolveConfigPath(configPath, binDir string) string {
	if configPath == "" {
		configPath = os.Getenv("TICKERBOARD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "tickerboard.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/tickerboard.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and wires the data layer, renderer and dashboard.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()
	envFiles := loadDotEnv(binDir)

	config, err := common.LoadConfig(resolveConfigPath(configPath, binDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return newAppFromConfig(config, common.NewLoggerFromConfig(config.Logging), startupStart, envFiles)
}

func newAppFromConfig(config *common.Config, logger *common.Logger, startupStart time.Time, envFiles []string) (*App, error) {
	if len(envFiles) > 0 {
		logger.Debug().Strs("files", envFiles).Msg("Loaded .env files")
	}

	gen := mockdata.NewGenerator()

	var client interfaces.StockAPIClient
	if config.API.Enabled {
		client = stockapi.NewClient(
			stockapi.WithBaseURL(config.API.BaseURL),
			stockapi.WithLogger(logger),
			stockapi.WithRateLimit(config.API.RateLimit),
			stockapi.WithProbeTimeout(config.API.GetProbeTimeout()),
			stockapi.WithFetchTimeout(config.API.GetFetchTimeout()),
			stockapi.WithRetry(config.API.MaxRetries, config.API.GetRetryBackoff()),
		)
	} else {
		logger.Warn().Msg("Stock API disabled - serving mock data only")
	}

	source := arbiter.NewService(client, gen, logger,
		arbiter.WithAPIEnabled(config.API.Enabled),
		arbiter.WithHealthTTL(config.API.GetHealthTTL()),
		arbiter.WithSymbols(config.Symbols),
		arbiter.WithObserver(func(e arbiter.Event) {
			if e.Err != nil {
				logger.Debug().Str("operation", e.Operation).Str("symbol", e.Symbol).Str("source", string(e.Source)).Err(e.Err).Msg("Served fallback data")
			}
		}),
	)

	renderer := chart.NewRenderer(logger, chart.WithSize(config.Dashboard.ChartWidth, config.Dashboard.ChartHeight))

	controller := dashboard.NewController(source, renderer, logger,
		dashboard.WithSymbols(config.Symbols),
		dashboard.WithTitle(config.Dashboard.Title),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Client:      client,
		Mock:        gen,
		Source:      source,
		Renderer:    renderer,
		Dashboard:   controller,
		StartupTime: time.Now(),
	}
	a.probeDebouncer = common.Debounce(func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.API.GetProbeTimeout()+time.Second)
		defer cancel()
		a.Source.ProbeHealth(ctx)
	}, probeDebounce)

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// RequestProbe schedules a health probe; requests within the debounce window
// collapse into one.
func (a *App) RequestProbe() {
	a.probeDebouncer.Trigger()
}

// Close stops background work.
// Shutdown order: cancel health monitor, cancel warm cache, drop pending probes.
func (a *App) Close() {
	if a.monitorCancel != nil {
		a.monitorCancel()
		a.monitorCancel = nil
	}
	if a.warmCacheCancel != nil {
		a.warmCacheCancel()
		a.warmCacheCancel = nil
	}
	if a.probeDebouncer != nil {
		a.probeDebouncer.Stop()
	}
}

// StartWarmCache launches the background cache warming goroutine.
func (a *App) StartWarmCache() {
	if !a.Config.API.WarmCache {
		a.Logger.Info().Msg("Warm cache: disabled in config")
		return
	}
	warmCtx, warmCancel := context.WithTimeout(context.Background(), time.Minute)
	a.warmCacheCancel = warmCancel
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.Source, a.Dashboard, a.Logger)
	}()
}

// StartHealthMonitor launches the periodic health probe when an interval is
// configured.
func (a *App) StartHealthMonitor() {
	interval := a.Config.API.GetHealthInterval()
	if interval <= 0 || !a.Config.API.Enabled {
		return
	}
	monitorCtx, monitorCancel := context.WithCancel(context.Background())
	a.monitorCancel = monitorCancel
	go startHealthMonitor(monitorCtx, a.Source, a.Logger, interval)
}
