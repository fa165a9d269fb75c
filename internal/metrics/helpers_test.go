package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/model"
)

func mustDate(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func usd(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func payment(t testing.TB, id, date string, amount float64) model.Payment {
	t.Helper()
	return model.Payment{
		PaymentID:        id,
		DonorID:          "D-" + id,
		Date:             mustDate(t, date),
		OriginalAmount:   usd(amount),
		OriginalCurrency: "USD",
		USDAmount:        usd(amount),
		PaymentPlatform:  "Stripe",
		Portfolio:        "Top Picks",
	}
}

type pledgeOpt func(*model.Pledge)

func withStatus(s model.PledgeStatus) pledgeOpt {
	return func(p *model.Pledge) { p.Status = s }
}

func withFrequency(f model.Frequency) pledgeOpt {
	return func(p *model.Pledge) { p.Frequency = f }
}

func withChapter(chapter, chapterType string) pledgeOpt {
	return func(p *model.Pledge) {
		p.DonorChapter = chapter
		p.ChapterType = chapterType
	}
}

func withCreated(t testing.TB, s string) pledgeOpt {
	return func(p *model.Pledge) { p.CreatedAt = mustDate(t, s) }
}

func newPledge(t testing.TB, id, donor, starts, ended string, amount float64, opts ...pledgeOpt) model.Pledge {
	t.Helper()
	p := model.Pledge{
		PledgeID:              id,
		DonorID:               donor,
		CreatedAt:             mustDate(t, starts),
		StartsAt:              mustDate(t, starts),
		EndedAt:               mustDate(t, ended),
		Status:                model.StatusActive,
		Frequency:             model.FrequencyMonthly,
		Currency:              "USD",
		USDContributionAmount: usd(amount),
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

func testEngine(t testing.TB, now string) *Engine {
	t.Helper()
	return NewEngine(config.DefaultConfig(), mustDate(t, now))
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
