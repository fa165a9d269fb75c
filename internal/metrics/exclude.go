package metrics

import "github.com/theirongolddev/fundburn/internal/model"

// Exclusions is the set of internal portfolios whose payments are transfers
// between the organization's own funds rather than money moved.
type Exclusions map[string]struct{}

// NewExclusions builds the set from portfolio names.
func NewExclusions(portfolios []string) Exclusions {
	ex := make(Exclusions, len(portfolios))
	for _, p := range portfolios {
		ex[p] = struct{}{}
	}
	return ex
}

// Internal reports whether portfolio is an internal fund.
func (ex Exclusions) Internal(portfolio string) bool {
	_, ok := ex[portfolio]
	return ok
}

// countable reports whether r is a payment that counts toward money moved.
func (ex Exclusions) countable(r model.Row) bool {
	return r.Payment != nil && !ex.Internal(r.Payment.Portfolio)
}
