package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/fundburn/internal/model"
)

// ErrUnsupportedBreakdown is returned for a grouping key the engine does not
// know. Callers treat it as a programming error, not as "no data".
var ErrUnsupportedBreakdown = errors.New("metrics: unsupported breakdown")

// Breakdown is a column money moved can be grouped by.
type Breakdown string

const (
	ByPaymentPlatform Breakdown = "payment_platform"
	ByDonorChapter    Breakdown = "donor_chapter"
	ByChapterType     Breakdown = "chapter_type"
	ByCurrency        Breakdown = "currency"
	ByPortfolio       Breakdown = "portfolio"
	ByMonth           Breakdown = "month"
)

// Breakdowns lists every supported key in display order.
var Breakdowns = []Breakdown{
	ByPaymentPlatform, ByDonorChapter, ByChapterType, ByCurrency, ByPortfolio, ByMonth,
}

// ParseBreakdown validates a grouping key. "platform" is accepted as an
// alias for payment_platform.
func ParseBreakdown(s string) (Breakdown, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "platform" {
		return ByPaymentPlatform, nil
	}
	for _, b := range Breakdowns {
		if string(b) == key {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedBreakdown, s)
}

// Title renders the key for chart titles, e.g. "Payment Platform".
func (b Breakdown) Title() string {
	words := strings.Split(string(b), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Label returns the group of r under b. Missing platforms are "off
// platform"; other missing values are "none".
func (b Breakdown) Label(r model.Row) (string, error) {
	var v string
	switch b {
	case ByPaymentPlatform:
		if r.PaymentPlatform == "" {
			return "off platform", nil
		}
		return r.PaymentPlatform, nil
	case ByDonorChapter:
		v = r.DonorChapter()
	case ByChapterType:
		v = r.ChapterType()
	case ByCurrency:
		v = r.Currency
	case ByPortfolio:
		v = r.Portfolio()
	case ByMonth:
		return r.Date().Format("Jan 2006"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBreakdown, string(b))
	}
	if v == "" {
		return "none", nil
	}
	return v, nil
}

// sortBars orders bars by value descending, then label.
func sortBars(bars []model.Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
}
