// Package source decodes the raw payment and pledge JSON snapshots.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/model"
)

// PaymentsResult holds the output of parsing the payments file.
type PaymentsResult struct {
	Payments    []model.Payment
	ParseErrors int
}

// PledgesResult holds the output of parsing the pledges file.
type PledgesResult struct {
	Pledges     []model.Pledge
	ParseErrors int
}

// ParsePaymentsFile reads a JSON array of payment records.
func ParsePaymentsFile(path string) (PaymentsResult, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's config
	if err != nil {
		return PaymentsResult{}, fmt.Errorf("opening payments: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParsePayments(f)
}

// ParsePledgesFile reads a JSON array of pledge records.
func ParsePledgesFile(path string) (PledgesResult, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's config
	if err != nil {
		return PledgesResult{}, fmt.Errorf("opening pledges: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParsePledges(f)
}

// ParsePayments decodes a JSON array of payments. Records that fail to
// decode or carry an unparseable date are counted and skipped.
func ParsePayments(r io.Reader) (PaymentsResult, error) {
	var res PaymentsResult
	err := decodeArray(r, func(raw json.RawMessage) {
		var rp RawPayment
		if err := json.Unmarshal(raw, &rp); err != nil {
			res.ParseErrors++
			return
		}
		p, err := convertPayment(rp)
		if err != nil {
			res.ParseErrors++
			return
		}
		res.Payments = append(res.Payments, p)
	})
	if err != nil {
		return res, fmt.Errorf("decoding payments: %w", err)
	}
	return res, nil
}

// ParsePledges decodes a JSON array of pledges. Records that fail to decode
// or carry an unparseable date are counted and skipped.
func ParsePledges(r io.Reader) (PledgesResult, error) {
	var res PledgesResult
	err := decodeArray(r, func(raw json.RawMessage) {
		var rp RawPledge
		if err := json.Unmarshal(raw, &rp); err != nil {
			res.ParseErrors++
			return
		}
		p, err := convertPledge(rp)
		if err != nil {
			res.ParseErrors++
			return
		}
		res.Pledges = append(res.Pledges, p)
	})
	if err != nil {
		return res, fmt.Errorf("decoding pledges: %w", err)
	}
	return res, nil
}

// decodeArray streams the elements of a top-level JSON array to fn.
func decodeArray(r io.Reader, fn func(json.RawMessage)) error {
	dec := json.NewDecoder(bufio.NewReaderSize(r, 256*1024))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("expected JSON array, got %v", tok)
	}
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		fn(raw)
	}
	_, err = dec.Token()
	return err
}

func convertPayment(rp RawPayment) (model.Payment, error) {
	date, err := model.ParseDate(rp.Date)
	if err != nil {
		return model.Payment{}, err
	}
	amount, err := parseAmount(rp.Amount)
	if err != nil {
		return model.Payment{}, err
	}

	id := rp.PaymentID
	if id == "" {
		id = rp.ID
	}

	p := model.Payment{
		PaymentID:        string(id),
		DonorID:          string(rp.DonorID),
		PledgeID:         string(rp.PledgeID),
		Date:             date,
		OriginalAmount:   amount,
		OriginalCurrency: rp.Currency,
		PaymentPlatform:  rp.PaymentPlatform,
		Portfolio:        rp.Portfolio,
	}
	if rp.Counterfactuality.Raw != "" {
		cf, err := strconv.ParseFloat(rp.Counterfactuality.Raw, 64)
		if err != nil {
			return model.Payment{}, fmt.Errorf("parsing counterfactuality: %w", err)
		}
		p.Counterfactuality = &cf
	}
	return p, nil
}

func convertPledge(rp RawPledge) (model.Pledge, error) {
	created, err := model.ParseDate(rp.CreatedAt)
	if err != nil {
		return model.Pledge{}, err
	}
	starts, err := model.ParseDate(rp.StartsAt)
	if err != nil {
		return model.Pledge{}, err
	}
	ended, err := model.ParseDate(rp.EndedAt)
	if err != nil {
		return model.Pledge{}, err
	}
	amount, err := parseAmount(rp.ContributionAmount)
	if err != nil {
		return model.Pledge{}, err
	}

	return model.Pledge{
		PledgeID:                   string(rp.PledgeID),
		DonorID:                    string(rp.DonorID),
		DonorChapter:               rp.DonorChapter,
		ChapterType:                rp.ChapterType,
		PaymentPlatform:            rp.PaymentPlatform,
		CreatedAt:                  created,
		StartsAt:                   starts,
		EndedAt:                    ended,
		Status:                     model.ParsePledgeStatus(rp.Status),
		Frequency:                  model.ParseFrequency(rp.Frequency),
		OriginalContributionAmount: amount,
		Currency:                   rp.Currency,
	}, nil
}

func parseAmount(n FlexNumber) (decimal.NullDecimal, error) {
	if n.Raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(n.Raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("parsing amount %q: %w", n.Raw, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
