package dashboard

import (
	"net/url"

	"github.com/bobmcallan/tickerboard/internal/models"
)

// DefaultSymbol is selected when the dashboard first loads.
const DefaultSymbol = "AAPL"

// Selection is the (symbol, range) pair the dashboard is showing.
type Selection struct {
	Symbol string       `json:"symbol"`
	Range  models.Range `json:"range"`
}

// DefaultSelection is the initial state.
func DefaultSelection() Selection {
	return Selection{Symbol: DefaultSymbol, Range: models.DefaultRange}
}

// SelectSymbol moves to symbol and keeps the current range.
func (s Selection) SelectSymbol(symbol string) Selection {
	s.Symbol = models.NormalizeSymbol(symbol)
	return s
}

// SelectRange moves to rng and keeps the current symbol.
func (s Selection) SelectRange(rng models.Range) Selection {
	s.Range = models.ParseRange(string(rng))
	return s
}

// Query encodes the selection as dashboard query parameters.
func (s Selection) Query() url.Values {
	return url.Values{
		"symbol": {s.Symbol},
		"range":  {string(s.Range)},
	}
}

// Href is the dashboard URL for the selection.
func (s Selection) Href() string {
	return "/?" + s.Query().Encode()
}

// SelectionFromQuery reads symbol and range from q. A symbol outside symbols
// resets to the default and an unknown range becomes the default range.
func SelectionFromQuery(q url.Values, symbols []string) Selection {
	sel := DefaultSelection()
	if sym := models.NormalizeSymbol(q.Get("symbol")); sym != "" && contains(symbols, sym) {
		sel.Symbol = sym
	} else if len(symbols) > 0 && !contains(symbols, sel.Symbol) {
		sel.Symbol = symbols[0]
	}
	sel.Range = models.ParseRange(q.Get("range"))
	return sel
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
