package arbiter

import (
	"context"
	"fmt"
	"sort"

	"github.com/bobmcallan/tickerboard/internal/clients/stockapi"
	"github.com/bobmcallan/tickerboard/internal/models"
)

// FetchSeries returns the price series for symbol limited to rng. Unknown
// ranges resolve as the default range. It never fails: API problems fall
// back to the mock series. Repeated calls return the cached slice.
func (s *Service) FetchSeries(ctx context.Context, symbol string, rng models.Range) ([]models.PricePoint, models.SourceTag) {
	symbol = models.NormalizeSymbol(symbol)
	if !rng.Valid() {
		rng = models.DefaultRange
	}
	key := seriesKey{symbol: symbol, rng: rng}

	s.mu.RLock()
	if e, ok := s.series[key]; ok {
		s.mu.RUnlock()
		return e.points, e.source
	}
	s.mu.RUnlock()

	var apiErr error
	if s.useAPI(ctx) {
		points, err := s.fetchAPISeries(ctx, symbol, rng)
		if err == nil {
			e := s.storeSeries(key, seriesEntry{points: points, source: models.SourceAPI})
			s.notify(Event{Operation: "series", Symbol: symbol, Range: rng, Source: e.source})
			return e.points, e.source
		}
		apiErr = err
		s.logger.Warn().Err(err).Str("symbol", symbol).Str("range", string(rng)).Msg("Series API fetch failed, using mock data")
	}

	points := models.FilterSince(s.mockSeriesFor(symbol), rng.Cutoff(s.now().Unix()))
	if abandoned(ctx, apiErr) {
		s.notify(Event{Operation: "series", Symbol: symbol, Range: rng, Source: models.SourceMock, Err: apiErr})
		return points, models.SourceMock
	}
	e := s.storeSeries(key, seriesEntry{points: points, source: models.SourceMock})
	s.notify(Event{Operation: "series", Symbol: symbol, Range: rng, Source: e.source, Err: apiErr})
	return e.points, e.source
}

// abandoned reports whether an API failure came from the caller giving up.
// Fallback data for such a request is served but not cached.
func abandoned(ctx context.Context, apiErr error) bool {
	return apiErr != nil && ctx.Err() != nil
}

func (s *Service) fetchAPISeries(ctx context.Context, symbol string, rng models.Range) ([]models.PricePoint, error) {
	all, err := s.client.GetPriceSeries(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := all[symbol]
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("no series for %s: %w", symbol, stockapi.ErrDataAbsent)
	}
	points := models.FilterSince(raw, rng.Cutoff(s.now().Unix()))
	if len(points) == 0 {
		return nil, fmt.Errorf("no %s points for %s: %w", rng, symbol, stockapi.ErrDataAbsent)
	}
	return points, nil
}

// storeSeries caches e unless another caller filled the key first, in which
// case the existing entry wins so every caller sees one slice.
func (s *Service) storeSeries(key seriesKey, e seriesEntry) seriesEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.series[key]; ok {
		return existing
	}
	s.series[key] = e
	return e
}

// mockSeriesFor returns the full generated series for symbol, generating it
// once so every range of a symbol is cut from the same data.
func (s *Service) mockSeriesFor(symbol string) []models.PricePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pts, ok := s.mockSeries[symbol]; ok {
		return pts
	}
	pts := s.mock.GenerateSeries(symbol)
	s.mockSeries[symbol] = pts
	return pts
}

// FetchStats returns book value and profit for every symbol. An API payload
// is trusted only when it contains the sentinel symbol.
func (s *Service) FetchStats(ctx context.Context) ([]models.StatsRecord, models.SourceTag) {
	s.mu.RLock()
	if s.stats != nil {
		e := s.stats
		s.mu.RUnlock()
		return e.records, e.source
	}
	s.mu.RUnlock()

	var apiErr error
	if s.useAPI(ctx) {
		records, err := s.fetchAPIStats(ctx)
		if err == nil {
			e := s.storeStats(&statsEntry{records: records, source: models.SourceAPI})
			s.notify(Event{Operation: "stats", Source: e.source})
			return e.records, e.source
		}
		apiErr = err
		s.logger.Warn().Err(err).Msg("Stats API fetch failed, using mock data")
	}

	if abandoned(ctx, apiErr) {
		s.notify(Event{Operation: "stats", Source: models.SourceMock, Err: apiErr})
		return s.mock.Stats(), models.SourceMock
	}
	e := s.storeStats(&statsEntry{records: s.mock.Stats(), source: models.SourceMock})
	s.notify(Event{Operation: "stats", Source: e.source, Err: apiErr})
	return e.records, e.source
}

func (s *Service) fetchAPIStats(ctx context.Context) ([]models.StatsRecord, error) {
	byID, err := s.client.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	if len(byID) == 0 {
		return nil, fmt.Errorf("empty stats payload: %w", stockapi.ErrDataAbsent)
	}
	if _, ok := byID[s.sentinel]; !ok {
		return nil, fmt.Errorf("stats payload missing sentinel %s: %w", s.sentinel, stockapi.ErrInvalidResponse)
	}

	records := make([]models.StatsRecord, 0, len(byID))
	for _, rec := range byID {
		rec.Source = models.SourceAPI
		records = append(records, rec)
	}
	s.sortStats(records)
	return records, nil
}

// sortStats orders records by the configured symbol list, then alphabetically.
func (s *Service) sortStats(records []models.StatsRecord) {
	rank := make(map[string]int, len(s.symbols))
	for i, sym := range s.symbols {
		rank[sym] = i
	}
	sort.SliceStable(records, func(i, j int) bool {
		ri, iok := rank[records[i].Symbol]
		rj, jok := rank[records[j].Symbol]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return records[i].Symbol < records[j].Symbol
		}
	})
}

func (s *Service) storeStats(e *statsEntry) *statsEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats != nil {
		return s.stats
	}
	s.stats = e
	return e
}

// FetchProfile returns the company profile for symbol, falling back to the
// mock table or a generic summary.
func (s *Service) FetchProfile(ctx context.Context, symbol string) (models.ProfileRecord, models.SourceTag) {
	symbol = models.NormalizeSymbol(symbol)

	s.mu.RLock()
	if p, ok := s.profiles[symbol]; ok {
		s.mu.RUnlock()
		return p, p.Source
	}
	s.mu.RUnlock()

	var apiErr error
	if s.useAPI(ctx) {
		p, err := s.fetchAPIProfile(ctx, symbol)
		if err == nil {
			p = s.storeProfile(p)
			s.notify(Event{Operation: "profile", Symbol: symbol, Source: p.Source})
			return p, p.Source
		}
		apiErr = err
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Profile API fetch failed, using mock data")
	}

	p := s.mock.Profile(symbol)
	p.Symbol = symbol
	p.Source = models.SourceMock
	if abandoned(ctx, apiErr) {
		s.notify(Event{Operation: "profile", Symbol: symbol, Source: p.Source, Err: apiErr})
		return p, p.Source
	}
	p = s.storeProfile(p)
	s.notify(Event{Operation: "profile", Symbol: symbol, Source: p.Source, Err: apiErr})
	return p, p.Source
}

func (s *Service) fetchAPIProfile(ctx context.Context, symbol string) (models.ProfileRecord, error) {
	profiles, err := s.client.GetProfiles(ctx)
	if err != nil {
		return models.ProfileRecord{}, err
	}
	p, ok := profiles[symbol]
	if !ok {
		return models.ProfileRecord{}, fmt.Errorf("no profile for %s: %w", symbol, stockapi.ErrDataAbsent)
	}
	p.Symbol = symbol
	p.Source = models.SourceAPI
	return p, nil
}

func (s *Service) storeProfile(p models.ProfileRecord) models.ProfileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles[p.Symbol]; ok {
		return existing
	}
	s.profiles[p.Symbol] = p
	return p
}
