package pipeline

import (
	"time"

	"github.com/theirongolddev/fundburn/internal/model"
)

// ReconcileStats counts what reconciliation changed.
type ReconcileStats struct {
	Input               int
	DroppedClosedNoEnd  int // closed status without an end date
	DroppedUpdatedNoPay int // Updated, open, and never paid
	DroppedNoPayments   int // no payments and not a future pledge
	RepairedEndDates    int // Updated pledges closed at their last payment
	Output              int
}

type paymentSummary struct {
	count int
	last  time.Time
}

// Reconcile repairs and filters normalized pledges against the payment
// history. The inputs are not modified.
//
// Updated pledges without an end date are closed at their last payment. This
// can overstate how long a pledge ran when the administrative close came
// later than the final payment; it is kept as an approximation.
func Reconcile(pledges []model.Pledge, payments []model.Payment) ([]model.Pledge, ReconcileStats) {
	stats := ReconcileStats{Input: len(pledges)}

	byPledge := make(map[string]paymentSummary)
	for _, p := range payments {
		if p.PledgeID == "" {
			continue
		}
		s := byPledge[p.PledgeID]
		s.count++
		if p.Date.After(s.last) {
			s.last = p.Date
		}
		byPledge[p.PledgeID] = s
	}

	out := make([]model.Pledge, 0, len(pledges))
	for _, p := range pledges {
		if p.Status.RequiresEndDate() && p.EndedAt.IsZero() {
			stats.DroppedClosedNoEnd++
			continue
		}

		var s paymentSummary
		if p.PledgeID != "" {
			s = byPledge[p.PledgeID]
		}
		p.PaymentCount = s.count
		p.LastPaymentDate = s.last

		if p.Status == model.StatusUpdated && p.EndedAt.IsZero() {
			if s.last.IsZero() {
				stats.DroppedUpdatedNoPay++
				continue
			}
			p.EndedAt = s.last
			stats.RepairedEndDates++
		}

		if p.PaymentCount == 0 && p.Status != model.StatusPledged {
			stats.DroppedNoPayments++
			continue
		}

		out = append(out, p)
	}

	stats.Output = len(out)
	return out, stats
}
