package common

import (
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DateLayout is the display layout for chart labels and dates ("Jan 2, 2006").
const DateLayout = "Jan 2, 2006"

// FormatCurrency renders v as US dollars with two decimals and thousands separators.
// Negative values render as "-$5.20".
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// FormatDecimalCurrency is FormatCurrency for decimal amounts.
func FormatDecimalCurrency(d decimal.Decimal) string {
	return FormatCurrency(d.InexactFloat64())
}

// FormatSignedCurrency prefixes non-negative amounts with "+".
func FormatSignedCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatDecimalCurrency(d)
	}
	return "+" + FormatDecimalCurrency(d)
}

// FormatDate renders an epoch-seconds timestamp as "Jan 2, 2006" in UTC.
func FormatDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(DateLayout)
}

// RoundPrice rounds a price to two decimal places.
func RoundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Debouncer coalesces bursts of calls into one call of fn after wait has
// passed without a new Trigger.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	fn    func()
	timer *time.Timer
}

// Debounce returns a Debouncer for fn.
func Debounce(fn func(), wait time.Duration) *Debouncer {
	return &Debouncer{fn: fn, wait: wait}
}

// Trigger schedules fn, resetting any pending schedule.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
