package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PledgeStatus is the lifecycle state of a pledge. Values outside the known
// set are kept verbatim so they round-trip, and match no status rule.
type PledgeStatus string

const (
	StatusActive         PledgeStatus = "Active donor"
	StatusOneTime        PledgeStatus = "One-Time"
	StatusChurned        PledgeStatus = "Churned donor"
	StatusUpdated        PledgeStatus = "Updated"
	StatusPaymentFailure PledgeStatus = "Payment failure"
	StatusError          PledgeStatus = "ERROR"
	StatusPledged        PledgeStatus = "Pledged donor"
)

var knownStatuses = map[PledgeStatus]bool{
	StatusActive: true, StatusOneTime: true, StatusChurned: true, StatusUpdated: true,
	StatusPaymentFailure: true, StatusError: true, StatusPledged: true,
}

// ParsePledgeStatus trims surrounding whitespace and returns the status.
func ParsePledgeStatus(s string) PledgeStatus {
	return PledgeStatus(strings.TrimSpace(s))
}

// Known reports whether s is one of the recognized statuses.
func (s PledgeStatus) Known() bool { return knownStatuses[s] }

// Churned reports whether the pledge ended through cancellation or failure.
func (s PledgeStatus) Churned() bool {
	return s == StatusChurned || s == StatusPaymentFailure
}

// RequiresEndDate reports whether a pledge in this status must carry an end date.
func (s PledgeStatus) RequiresEndDate() bool {
	return s == StatusError || s == StatusPaymentFailure || s == StatusChurned
}

// Frequency is how often a pledge pays. Unknown values are kept verbatim and
// annualize like an annual pledge.
type Frequency string

const (
	FrequencyOneTime     Frequency = "One-Time"
	FrequencyAnnually    Frequency = "Annually"
	FrequencyMonthly     Frequency = "Monthly"
	FrequencyQuarterly   Frequency = "Quarterly"
	FrequencySemiMonthly Frequency = "Semi-Monthly"
	FrequencyUnspecified Frequency = "Unspecified"
)

// ParseFrequency trims surrounding whitespace and returns the frequency.
func ParseFrequency(s string) Frequency {
	return Frequency(strings.TrimSpace(s))
}

// Known reports whether f is one of the recognized frequencies.
func (f Frequency) Known() bool {
	switch f {
	case FrequencyOneTime, FrequencyAnnually, FrequencyMonthly,
		FrequencyQuarterly, FrequencySemiMonthly, FrequencyUnspecified:
		return true
	}
	return false
}

// PaymentsPerYear is the annualization multiplier.
func (f Frequency) PaymentsPerYear() int64 {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	default:
		return 1
	}
}

// NoChapterType labels pledges with an empty chapter type.
const NoChapterType = "<No chapter type>"

// DateField selects one of a pledge's three dates.
type DateField uint8

const (
	FieldCreated DateField = iota
	FieldStarts
	FieldEnded
)

func (f DateField) String() string {
	switch f {
	case FieldCreated:
		return "pledge_created_at"
	case FieldStarts:
		return "pledge_starts_at"
	case FieldEnded:
		return "pledge_ended_at"
	}
	return "unknown"
}

// Pledge is a donor's commitment. Zero dates mean the field is empty; an
// empty end date means the pledge is still open.
type Pledge struct {
	PledgeID        string
	DonorID         string
	DonorChapter    string
	ChapterType     string
	PaymentPlatform string

	CreatedAt time.Time
	StartsAt  time.Time
	EndedAt   time.Time

	Status    PledgeStatus
	Frequency Frequency

	OriginalContributionAmount decimal.NullDecimal
	Currency                   string
	USDContributionAmount      decimal.NullDecimal

	// Set during reconciliation.
	PaymentCount    int
	LastPaymentDate time.Time
}

// DateOf returns the pledge date selected by f.
func (p Pledge) DateOf(f DateField) time.Time {
	switch f {
	case FieldCreated:
		return p.CreatedAt
	case FieldStarts:
		return p.StartsAt
	case FieldEnded:
		return p.EndedAt
	}
	return time.Time{}
}

// Annualized is the USD contribution scaled to one year. It is absent when
// the USD contribution is absent.
func (p Pledge) Annualized() decimal.NullDecimal {
	if !p.USDContributionAmount.Valid {
		return decimal.NullDecimal{}
	}
	mult := decimal.NewFromInt(p.Frequency.PaymentsPerYear())
	return decimal.NullDecimal{Decimal: p.USDContributionAmount.Decimal.Mul(mult), Valid: true}
}

// ChapterTypeLabel returns the chapter type, or NoChapterType when empty.
func (p Pledge) ChapterTypeLabel() string {
	if strings.TrimSpace(p.ChapterType) == "" {
		return NoChapterType
	}
	return p.ChapterType
}

// Recurring reports whether the pledge takes part in ARR and attrition.
func (p Pledge) Recurring() bool {
	return p.Status != StatusOneTime
}
