package model

import "time"

// Row is one line of the payments/pledges outer join on pledge_id. Either
// side may be nil. DonorID, PaymentPlatform and Currency take the payment's
// value when the payment side is present.
type Row struct {
	Payment *Payment
	Pledge  *Pledge

	DonorID         string
	PaymentPlatform string
	Currency        string
}

// Date is the payment date, or the zero time for a pledge-only row.
func (r Row) Date() time.Time {
	if r.Payment == nil {
		return time.Time{}
	}
	return r.Payment.Date
}

// Portfolio is the payment portfolio, or empty for a pledge-only row.
func (r Row) Portfolio() string {
	if r.Payment == nil {
		return ""
	}
	return r.Payment.Portfolio
}

// DonorChapter is the pledge chapter, or empty for a payment-only row.
func (r Row) DonorChapter() string {
	if r.Pledge == nil {
		return ""
	}
	return r.Pledge.DonorChapter
}

// ChapterType is the pledge chapter type, or empty for a payment-only row.
func (r Row) ChapterType() string {
	if r.Pledge == nil {
		return ""
	}
	return r.Pledge.ChapterType
}

// PaymentRows wraps payments as rows with no pledge side.
func PaymentRows(payments []Payment) []Row {
	rows := make([]Row, len(payments))
	for i := range payments {
		p := &payments[i]
		rows[i] = Row{
			Payment:         p,
			DonorID:         p.DonorID,
			PaymentPlatform: p.PaymentPlatform,
			Currency:        p.OriginalCurrency,
		}
	}
	return rows
}
