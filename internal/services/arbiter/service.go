// Package arbiter decides, per request, whether dashboard data comes from the
// remote stock API or the mock generator, and caches whatever it served.
package arbiter

import (
	"sync"
	"time"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/interfaces"
	"github.com/bobmcallan/tickerboard/internal/models"
)

// DefaultSentinel must appear in an API stats payload for it to be trusted.
const DefaultSentinel = "AAPL"

// minOnline is how many probed endpoints must be online to use the API.
const minOnline = 2

// Event describes one cache-miss resolution. Err is set when the API path
// was attempted and abandoned.
type Event struct {
	Operation string // "series", "stats" or "profile"
	Symbol    string
	Range     models.Range
	Source    models.SourceTag
	Err       error
}

type seriesKey struct {
	symbol string
	rng    models.Range
}

type seriesEntry struct {
	points []models.PricePoint
	source models.SourceTag
}

type statsEntry struct {
	records []models.StatsRecord
	source  models.SourceTag
}

// Service implements DataSource. One instance owns all arbitration state.
type Service struct {
	client    interfaces.StockAPIClient
	mock      interfaces.MockSource
	logger    *common.Logger
	now       func() time.Time // injectable clock for testing
	healthTTL time.Duration
	enabled   bool
	sentinel  string
	symbols   []string
	endpoints []string
	observer  func(Event)

	probeMu sync.Mutex // one probe round at a time

	mu              sync.RWMutex
	usingRealAPI    bool
	lastHealthCheck time.Time
	health          map[string]models.EndpointHealth
	series          map[seriesKey]seriesEntry
	stats           *statsEntry
	profiles        map[string]models.ProfileRecord
	mockSeries      map[string][]models.PricePoint
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the clock used for probe TTLs and range cutoffs
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHealthTTL sets how long a probe result is reused
func WithHealthTTL(ttl time.Duration) Option {
	return func(s *Service) { s.healthTTL = ttl }
}

// WithAPIEnabled turns the API path off entirely when false
func WithAPIEnabled(enabled bool) Option {
	return func(s *Service) { s.enabled = enabled }
}

// WithSentinel sets the symbol an API stats payload must contain
func WithSentinel(symbol string) Option {
	return func(s *Service) { s.sentinel = models.NormalizeSymbol(symbol) }
}

// WithSymbols sets the display order for stats records
func WithSymbols(symbols []string) Option {
	return func(s *Service) { s.symbols = append([]string(nil), symbols...) }
}

// WithObserver registers a callback for every cache-miss resolution
func WithObserver(fn func(Event)) Option {
	return func(s *Service) { s.observer = fn }
}

// NewService creates the arbiter. client may be nil, in which case every
// fetch is served from mock.
func NewService(client interfaces.StockAPIClient, mock interfaces.MockSource, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		client:    client,
		mock:      mock,
		logger:    logger,
		now:       time.Now,
		healthTTL: common.FreshnessHealthProbe,
		enabled:   true,
		sentinel:  DefaultSentinel,
		symbols:   append([]string(nil), common.DefaultSymbols...),
		endpoints: append([]string(nil), models.Endpoints...),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// StatusSnapshot returns the current source decision and a copy of the last probe results.
func (s *Service) StatusSnapshot() models.StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.StatusSnapshot{
		UsingRealAPI:     s.usingRealAPI,
		HealthByEndpoint: copyHealth(s.health),
		LastHealthCheck:  s.lastHealthCheck,
	}
}

// ForceSource overrides the source decision until the next probe that
// actually hits the network recomputes it. The cache is left alone.
func (s *Service) ForceSource(useReal bool) {
	s.mu.Lock()
	s.usingRealAPI = useReal
	s.mu.Unlock()

	s.logger.Info().Bool("using_real_api", useReal).Msg("Data source forced")
}

// ResetCache drops every cached series, stats and profile. Health state is kept.
func (s *Service) ResetCache() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.logger.Info().Msg("Data cache cleared")
}

func (s *Service) resetLocked() {
	s.series = make(map[seriesKey]seriesEntry)
	s.stats = nil
	s.profiles = make(map[string]models.ProfileRecord)
	s.mockSeries = make(map[string][]models.PricePoint)
}

func (s *Service) notify(e Event) {
	if s.observer != nil {
		s.observer(e)
	}
}

func copyHealth(in map[string]models.EndpointHealth) map[string]models.EndpointHealth {
	out := make(map[string]models.EndpointHealth, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var _ interfaces.DataSource = (*Service)(nil)
