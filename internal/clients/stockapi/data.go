package stockapi

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/tickerboard/internal/models"
)

// rawPoint mirrors one stocksdata array element; pointers detect missing fields.
type rawPoint struct {
	Timestamp *float64 `json:"timestamp"`
	Price     *float64 `json:"price"`
}

type rawStats struct {
	BookValue *decimal.Decimal `json:"bookValue"`
	Profit    *decimal.Decimal `json:"profit"`
}

type rawProfile struct {
	Summary *string `json:"summary"`
}

// GetPriceSeries retrieves all price histories. Malformed points and symbols
// are dropped; each remaining series is sorted oldest first.
func (c *Client) GetPriceSeries(ctx context.Context) (map[string][]models.PricePoint, error) {
	body, err := c.getJSON(ctx, models.EndpointStocks)
	if err != nil {
		return nil, err
	}

	raw, err := decodeObject(models.EndpointStocks, body)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]models.PricePoint, len(raw))
	dropped := 0
	for key, msg := range raw {
		symbol := models.NormalizeSymbol(key)
		var rows []json.RawMessage
		if symbol == "" || json.Unmarshal(msg, &rows) != nil {
			dropped++
			continue
		}

		points := make([]models.PricePoint, 0, len(rows))
		for _, row := range rows {
			var rp rawPoint
			if json.Unmarshal(row, &rp) != nil || !validPoint(rp) {
				dropped++
				continue
			}
			points = append(points, models.PricePoint{
				Timestamp: int64(*rp.Timestamp),
				Price:     *rp.Price,
			})
		}
		sort.SliceStable(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })
		out[symbol] = points
	}

	if dropped > 0 {
		c.logger.Debug().Int("dropped", dropped).Msg("Stock API series: malformed entries ignored")
	}
	return out, nil
}

func validPoint(rp rawPoint) bool {
	if rp.Timestamp == nil || rp.Price == nil {
		return false
	}
	ts, price := *rp.Timestamp, *rp.Price
	if math.IsNaN(ts) || math.IsInf(ts, 0) || ts <= 0 {
		return false
	}
	return !math.IsNaN(price) && !math.IsInf(price, 0) && price >= 0
}

// GetStats retrieves book value and profit per symbol. Entries missing
// either figure are dropped.
func (c *Client) GetStats(ctx context.Context) (map[string]models.StatsRecord, error) {
	body, err := c.getJSON(ctx, models.EndpointStats)
	if err != nil {
		return nil, err
	}

	raw, err := decodeObject(models.EndpointStats, body)
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.StatsRecord, len(raw))
	for key, msg := range raw {
		symbol := models.NormalizeSymbol(key)
		var rs rawStats
		if symbol == "" || json.Unmarshal(msg, &rs) != nil || rs.BookValue == nil || rs.Profit == nil {
			continue
		}
		out[symbol] = models.StatsRecord{
			Symbol:    symbol,
			BookValue: *rs.BookValue,
			Profit:    *rs.Profit,
			Source:    models.SourceAPI,
		}
	}
	return out, nil
}

// GetProfiles retrieves company summaries per symbol. An entry without a
// summary is kept with empty text; non-object entries are dropped.
func (c *Client) GetProfiles(ctx context.Context) (map[string]models.ProfileRecord, error) {
	body, err := c.getJSON(ctx, models.EndpointProfiles)
	if err != nil {
		return nil, err
	}

	raw, err := decodeObject(models.EndpointProfiles, body)
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.ProfileRecord, len(raw))
	for key, msg := range raw {
		symbol := models.NormalizeSymbol(key)
		var rp rawProfile
		if symbol == "" || !isObject(msg) || json.Unmarshal(msg, &rp) != nil {
			continue
		}
		rec := models.ProfileRecord{Symbol: symbol, Source: models.SourceAPI}
		if rp.Summary != nil {
			rec.Summary = strings.TrimSpace(*rp.Summary)
		}
		out[symbol] = rec
	}
	return out, nil
}

func isObject(msg json.RawMessage) bool {
	s := strings.TrimSpace(string(msg))
	return strings.HasPrefix(s, "{")
}
