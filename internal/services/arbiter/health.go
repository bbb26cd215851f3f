package arbiter

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/models"
)

// ProbeHealth probes every endpoint and recomputes the source decision. A
// non-empty result is reused without network traffic for the health TTL;
// within that window the decision is not recomputed. A probe whose ctx ends
// before it completes leaves the cached health and decision unchanged.
func (s *Service) ProbeHealth(ctx context.Context) map[string]models.EndpointHealth {
	if !s.enabled || s.client == nil {
		s.mu.Lock()
		s.usingRealAPI = false
		s.mu.Unlock()
		return map[string]models.EndpointHealth{}
	}

	s.probeMu.Lock()
	defer s.probeMu.Unlock()

	s.mu.RLock()
	if len(s.health) > 0 && common.IsFreshAt(s.lastHealthCheck, s.now(), s.healthTTL) {
		cached := copyHealth(s.health)
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	start := time.Now()
	results := make([]models.EndpointHealth, len(s.endpoints))
	var wg sync.WaitGroup
	for i, endpoint := range s.endpoints {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.client.Probe(ctx, endpoint)
		}()
	}
	wg.Wait()

	health := make(map[string]models.EndpointHealth, len(results))
	for _, h := range results {
		health[h.Endpoint] = h
	}
	online := models.OnlineCount(health)

	// The caller gave up mid-probe; the failures say nothing about the API.
	if err := ctx.Err(); err != nil {
		s.logger.Debug().Err(err).Int("online", online).Msg("Health probe abandoned, keeping previous decision")
		return copyHealth(health)
	}
	useReal := online >= minOnline

	s.mu.Lock()
	if len(health) > 0 {
		s.health = health
		s.lastHealthCheck = s.now()
	}
	s.usingRealAPI = useReal
	s.mu.Unlock()

	s.logger.Info().
		Int("online", online).
		Int("endpoints", len(health)).
		Bool("using_real_api", useReal).
		Dur("elapsed", time.Since(start)).
		Msg("Stock API health probe")

	return copyHealth(health)
}

// useAPI runs the (possibly cached) probe and reports the source decision.
func (s *Service) useAPI(ctx context.Context) bool {
	if !s.enabled || s.client == nil {
		return false
	}
	s.ProbeHealth(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usingRealAPI
}
