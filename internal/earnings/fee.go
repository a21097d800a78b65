package earnings

import "math"

// FeeModel applies the platform commission to gross revenue. The same
// rate applies to every revenue kind.
type FeeModel struct {
	rate float64
}

func NewFeeModel(rate float64) FeeModel {
	return FeeModel{rate: rate}
}

// NetAmount returns what the creator keeps from a gross amount, rounded
// half-up to cents. Rounding happens here and nowhere else.
func (f FeeModel) NetAmount(gross float64) float64 {
	return roundCents(gross * (1 - f.rate))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
