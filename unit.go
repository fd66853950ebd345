package recipescale

import "math"

// ContainerWeightKg is the net weight of one purchased container.
const ContainerWeightKg = 0.6667

type UnitConverter struct {
	rules map[Kind]float64 // kind -> kilograms per unit
}

func NewUnitConverter() *UnitConverter {
	return &UnitConverter{
		rules: make(map[Kind]float64),
	}
}

// DefaultUnitConverter converts container ingredients at ContainerWeightKg.
func DefaultUnitConverter() *UnitConverter {
	uc := NewUnitConverter()
	uc.AddRule(KindContainer, ContainerWeightKg)
	return uc
}

// Add a rule like: 1 container = 0.6667 kg -> (KindContainer, 0.6667)
func (uc *UnitConverter) AddRule(kind Kind, kgPerUnit float64) {
	uc.rules[kind] = kgPerUnit
}

func (uc *UnitConverter) Factor(kind Kind) (float64, bool) {
	if uc == nil {
		return 0, false
	}
	f, ok := uc.rules[kind]
	return f, ok
}

// FromKg converts a mass to the unit of kind, rounded to 2 decimals.
// Kinds without a rule stay in kilograms, unrounded.
func (uc *UnitConverter) FromKg(kind Kind, kg float64) float64 {
	if factor, ok := uc.Factor(kind); ok && factor > 0 {
		return round2(kg / factor)
	}
	return kg
}

func roundTo(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

func round2(x float64) float64 {
	return roundTo(x, 2)
}
