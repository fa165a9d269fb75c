package fxrates

// RateResponse is the body of GET /{date}?base={currency}&symbols=USD.
type RateResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// Pair keys one historical rate: the USD value of one unit of Currency on Date.
type Pair struct {
	Date     string // YYYY-MM-DD
	Currency string
}

func (p Pair) String() string {
	return p.Currency + "@" + p.Date
}

// Rates maps pairs to USD multipliers. A missing key means the lookup failed.
type Rates map[Pair]float64

// Lookup returns the multiplier for p. USD is always 1.
func (r Rates) Lookup(p Pair) (float64, bool) {
	if p.Currency == USD {
		return 1, true
	}
	v, ok := r[p]
	return v, ok
}
