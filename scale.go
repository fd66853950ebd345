package recipescale

import (
	"fmt"
	"math"
)

const DefaultVesselCount = 3

type CalculationResult struct {
	Amount    float64
	Total     Ingredients
	PerVessel Ingredients
}

func (r CalculationResult) Clone() CalculationResult {
	return CalculationResult{
		Amount:    r.Amount,
		Total:     r.Total.Clone(),
		PerVessel: r.PerVessel.Clone(),
	}
}

// Scaler scales reference quantities defined for ReferenceBatchSize and
// divides the scaled batch across VesselCount vessels.
type Scaler struct {
	ReferenceBatchSize float64
	VesselCount        int
	Converter          *UnitConverter
}

func DefaultScaler() Scaler {
	return Scaler{
		ReferenceBatchSize: DefaultBatchKg,
		VesselCount:        DefaultVesselCount,
		Converter:          DefaultUnitConverter(),
	}
}

func (s Scaler) validate() error {
	if !(s.ReferenceBatchSize > 0) || math.IsInf(s.ReferenceBatchSize, 0) || s.VesselCount < 1 {
		return fmt.Errorf("%w: batch %v, vessels %d", ErrInvalidScaler, s.ReferenceBatchSize, s.VesselCount)
	}
	return nil
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0)
}

// Scale multiplies every reference quantity by amount/ReferenceBatchSize.
// Entries whose kind has a conversion rule are turned into unit counts.
func (s Scaler) Scale(amount float64, reference Ingredients) (Ingredients, error) {
	if err := s.validate(); err != nil {
		return Ingredients{}, err
	}
	if !validAmount(amount) {
		return Ingredients{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	ratio := amount / s.ReferenceBatchSize
	var out Ingredients
	for _, it := range reference.All() {
		it.Quantity = s.Converter.FromKg(it.Kind, it.Quantity*ratio)
		out.Put(it)
	}
	return out, nil
}

// Split divides total across the vessels. Converted kinds are rounded to
// 2 decimals again; masses keep full precision until display.
func (s Scaler) Split(total Ingredients) (Ingredients, error) {
	if err := s.validate(); err != nil {
		return Ingredients{}, err
	}
	var out Ingredients
	for _, it := range total.All() {
		q := it.Quantity / float64(s.VesselCount)
		if _, ok := s.Converter.Factor(it.Kind); ok {
			q = round2(q)
		}
		it.Quantity = q
		out.Put(it)
	}
	return out, nil
}

func (s Scaler) Calculate(amount float64, reference Ingredients) (CalculationResult, error) {
	total, err := s.Scale(amount, reference)
	if err != nil {
		return CalculationResult{}, err
	}
	perVessel, err := s.Split(total)
	if err != nil {
		return CalculationResult{}, err
	}
	return CalculationResult{Amount: amount, Total: total, PerVessel: perVessel}, nil
}

func ScaleIngredients(requestedAmount float64, reference Ingredients, referenceBatchSize float64) (Ingredients, error) {
	s := DefaultScaler()
	s.ReferenceBatchSize = referenceBatchSize
	return s.Scale(requestedAmount, reference)
}

func SplitAcrossVessels(total Ingredients, vesselCount int) (Ingredients, error) {
	s := DefaultScaler()
	s.VesselCount = vesselCount
	return s.Split(total)
}
