package pipeline

import "github.com/theirongolddev/fundburn/internal/model"

// Merge outer-joins payments and pledges on pledge_id. Rows come out in
// payment order, followed by pledges that matched no payment. Where both
// sides exist, donor_id, payment_platform and currency are taken from the
// payment. Empty pledge IDs never match.
func Merge(payments []model.Payment, pledges []model.Pledge) []model.Row {
	byID := make(map[string][]int, len(pledges))
	for i, p := range pledges {
		if p.PledgeID == "" {
			continue
		}
		byID[p.PledgeID] = append(byID[p.PledgeID], i)
	}

	matched := make([]bool, len(pledges))
	rows := make([]model.Row, 0, len(payments)+len(pledges))

	for i := range payments {
		pay := &payments[i]
		idxs := byID[pay.PledgeID]
		if pay.PledgeID == "" || len(idxs) == 0 {
			rows = append(rows, paymentOnly(pay))
			continue
		}
		for _, j := range idxs {
			matched[j] = true
			row := paymentOnly(pay)
			row.Pledge = &pledges[j]
			rows = append(rows, row)
		}
	}

	for j := range pledges {
		if matched[j] {
			continue
		}
		pl := &pledges[j]
		rows = append(rows, model.Row{
			Pledge:          pl,
			DonorID:         pl.DonorID,
			PaymentPlatform: pl.PaymentPlatform,
			Currency:        pl.Currency,
		})
	}
	return rows
}

func paymentOnly(p *model.Payment) model.Row {
	return model.Row{
		Payment:         p,
		DonorID:         p.DonorID,
		PaymentPlatform: p.PaymentPlatform,
		Currency:        p.OriginalCurrency,
	}
}
