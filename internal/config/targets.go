package config

// Target names one KPI goal.
type Target string

const (
	TargetMoneyMoved               Target = "money_moved"
	TargetMoneyMovedCounterfactual Target = "money_moved_counterfactual"
	TargetTotalARR                 Target = "total_arr"
	TargetFutureARR                Target = "future_arr"
	TargetActiveARR                Target = "active_arr"
	TargetAttritionRate            Target = "attrition_rate"
	TargetActiveDonors             Target = "active_donors"
	TargetPledgesTotal             Target = "pledges_total"
	TargetPledgesFuture            Target = "pledges_future"
	TargetPledgesActive            Target = "pledges_active"
)

// DefaultTargets holds the fiscal-year goals.
var DefaultTargets = map[Target]float64{
	TargetMoneyMoved:               1_800_000,
	TargetMoneyMovedCounterfactual: 1_260_000,
	TargetTotalARR:                 1_800_000,
	TargetFutureARR:                600_000,
	TargetActiveARR:                1_200_000,
	TargetAttritionRate:            18,
	TargetActiveDonors:             1_200,
	TargetPledgesTotal:             1_850,
	TargetPledgesFuture:            1_000,
	TargetPledgesActive:            850,
}

// TargetOverrides allows user-defined goals. Nil fields keep the default.
type TargetOverrides struct {
	MoneyMoved               *float64 `toml:"money_moved,omitempty"`
	MoneyMovedCounterfactual *float64 `toml:"money_moved_counterfactual,omitempty"`
	TotalARR                 *float64 `toml:"total_arr,omitempty"`
	FutureARR                *float64 `toml:"future_arr,omitempty"`
	ActiveARR                *float64 `toml:"active_arr,omitempty"`
	AttritionRate            *float64 `toml:"attrition_rate,omitempty"`
	ActiveDonors             *float64 `toml:"active_donors,omitempty"`
	PledgesTotal             *float64 `toml:"pledges_total,omitempty"`
	PledgesFuture            *float64 `toml:"pledges_future,omitempty"`
	PledgesActive            *float64 `toml:"pledges_active,omitempty"`
}

func (o TargetOverrides) lookup(t Target) *float64 {
	switch t {
	case TargetMoneyMoved:
		return o.MoneyMoved
	case TargetMoneyMovedCounterfactual:
		return o.MoneyMovedCounterfactual
	case TargetTotalARR:
		return o.TotalARR
	case TargetFutureARR:
		return o.FutureARR
	case TargetActiveARR:
		return o.ActiveARR
	case TargetAttritionRate:
		return o.AttritionRate
	case TargetActiveDonors:
		return o.ActiveDonors
	case TargetPledgesTotal:
		return o.PledgesTotal
	case TargetPledgesFuture:
		return o.PledgesFuture
	case TargetPledgesActive:
		return o.PledgesActive
	}
	return nil
}

// Targets is a resolved set of goals.
type Targets map[Target]float64

// Get returns the goal for t, or 0 if it is unknown.
func (ts Targets) Get(t Target) float64 {
	return ts[t]
}

// ResolveTargets merges the configured overrides over the defaults.
func (c Config) ResolveTargets() Targets {
	out := make(Targets, len(DefaultTargets))
	for name, v := range DefaultTargets {
		if o := c.Targets.lookup(name); o != nil {
			v = *o
		}
		out[name] = v
	}
	return out
}
