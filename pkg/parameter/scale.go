package parameter

// Bracket is one step of a piecewise scale: the rate applying from the
// threshold upward.
type Bracket struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Rate      float64 `json:"rate" yaml:"rate"`
}

// Brackets is an ordered bracket list, ascending by threshold.
type Brackets []Bracket

// RateFor returns the rate of the highest bracket whose threshold is at or
// below the amount. Amounts below the first threshold get a zero rate.
func (b Brackets) RateFor(amount float64) float64 {
	rate := 0.0
	for _, bracket := range b {
		if bracket.Threshold > amount {
			break
		}
		rate = bracket.Rate
	}
	return rate
}

// MarginalTax computes the piecewise total over the amount: each slice
// between consecutive thresholds is taxed at its bracket's rate.
func (b Brackets) MarginalTax(amount float64) float64 {
	total := 0.0
	for i, bracket := range b {
		if bracket.Threshold >= amount {
			break
		}
		upper := amount
		if i+1 < len(b) && b[i+1].Threshold < amount {
			upper = b[i+1].Threshold
		}
		total += (upper - bracket.Threshold) * bracket.Rate
	}
	return total
}
