package source

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawPayment is one element of the payments JSON array.
type RawPayment struct {
	ID                FlexString `json:"id"`
	PaymentID         FlexString `json:"payment_id"`
	DonorID           FlexString `json:"donor_id"`
	PledgeID          FlexString `json:"pledge_id"`
	Date              string     `json:"date"`
	Amount            FlexNumber `json:"amount"`
	Currency          string     `json:"currency"`
	PaymentPlatform   string     `json:"payment_platform"`
	Portfolio         string     `json:"portfolio"`
	Counterfactuality FlexNumber `json:"counterfactuality"`
}

// RawPledge is one element of the pledges JSON array.
type RawPledge struct {
	PledgeID           FlexString `json:"pledge_id"`
	DonorID            FlexString `json:"donor_id"`
	DonorChapter       string     `json:"donor_chapter"`
	ChapterType        string     `json:"chapter_type"`
	PaymentPlatform    string     `json:"payment_platform"`
	CreatedAt          string     `json:"pledge_created_at"`
	StartsAt           string     `json:"pledge_starts_at"`
	EndedAt            string     `json:"pledge_ended_at"`
	Status             string     `json:"pledge_status"`
	Frequency          string     `json:"frequency"`
	ContributionAmount FlexNumber `json:"contribution_amount"`
	Currency           string     `json:"currency"`
}

// FlexString accepts a JSON string, number, or null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	str := n.String()
	// Exports sometimes serialize integer IDs as floats ("123.0").
	if f, err := strconv.ParseFloat(str, 64); err == nil && f == float64(int64(f)) {
		str = strconv.FormatInt(int64(f), 10)
	}
	*s = FlexString(str)
	return nil
}

// FlexNumber accepts a JSON number, numeric string, empty string, or null.
// Raw holds the decimal text; it is empty when the value is absent.
type FlexNumber struct {
	Raw string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		n.Raw = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, "nan") {
			v = ""
		}
		n.Raw = v
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	n.Raw = num.String()
	return nil
}
