package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/model"
)

// Digest returns a stable hash of the normalized tables. Two loads of the
// same input produce the same digest.
func Digest(payments []model.Payment, pledges []model.Pledge) string {
	h := sha256.New()
	for _, p := range payments {
		cf := ""
		if p.Counterfactuality != nil {
			cf = strconv.FormatFloat(*p.Counterfactuality, 'g', -1, 64)
		}
		writeLine(h, "pay", p.PaymentID, p.DonorID, p.PledgeID, model.FormatDate(p.Date),
			amountText(p.OriginalAmount), p.OriginalCurrency, amountText(p.USDAmount),
			p.PaymentPlatform, p.Portfolio, cf)
	}
	for _, p := range pledges {
		writeLine(h, "pledge", p.PledgeID, p.DonorID, p.DonorChapter, p.ChapterType, p.PaymentPlatform,
			model.FormatDate(p.CreatedAt), model.FormatDate(p.StartsAt), model.FormatDate(p.EndedAt),
			string(p.Status), string(p.Frequency),
			amountText(p.OriginalContributionAmount), p.Currency, amountText(p.USDContributionAmount),
			strconv.Itoa(p.PaymentCount), model.FormatDate(p.LastPaymentDate))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeLine(h hash.Hash, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			_, _ = io.WriteString(h, "\x1f")
		}
		_, _ = fmt.Fprintf(h, "%d:%s", len(f), f)
	}
	_, _ = io.WriteString(h, "\n")
}

func amountText(d decimal.NullDecimal) string {
	if !d.Valid {
		return "null"
	}
	return d.Decimal.String()
}
