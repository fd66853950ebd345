package recipescale

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

type Labels struct {
	Container string `yaml:"container"`
	Gram      string `yaml:"gram"`
	Kilogram  string `yaml:"kilogram"`
}

func DefaultLabels() Labels {
	return Labels{
		Container: "علبة",
		Gram:      "جرام",
		Kilogram:  "كيلو",
	}
}

type Formatter struct {
	Labels Labels
}

func NewFormatter(labels Labels) Formatter {
	def := DefaultLabels()
	if labels.Container == "" {
		labels.Container = def.Container
	}
	if labels.Gram == "" {
		labels.Gram = def.Gram
	}
	if labels.Kilogram == "" {
		labels.Kilogram = def.Kilogram
	}
	return Formatter{Labels: labels}
}

// Quantity renders qty for display: containers with 2 decimals, masses
// under 1 kg as whole grams, heavier masses in kilograms with 3 decimals.
func (f Formatter) Quantity(kind Kind, qty float64) string {
	switch {
	case kind == KindContainer:
		return toFixed(qty, 2) + " " + f.Labels.Container
	case qty < 1:
		return toFixed(qty*1000, 0) + " " + f.Labels.Gram
	default:
		return toFixed(qty, 3) + " " + f.Labels.Kilogram
	}
}

func (f Formatter) Format(it Ingredient) string {
	return f.Quantity(it.Kind, it.Quantity)
}

func FormatQuantity(it Ingredient) string {
	return NewFormatter(Labels{}).Format(it)
}

// toFixed renders the decimal value of x with places digits. Exact ties
// round away from zero, so 0.125 reads "0.13" and 62.5 g reads "63".
func toFixed(x float64, places int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', places, 64)
	}
	if isTie(x, places) {
		x = roundTo(x, places)
	}
	s := strconv.FormatFloat(x, 'f', places, 64)
	if strings.TrimLeft(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return s
}

// isTie reports whether x*10^places lies exactly halfway between integers.
func isTie(x float64, places int) bool {
	scaled := new(big.Float).SetPrec(256)
	scaled.Mul(big.NewFloat(x), big.NewFloat(math.Pow10(places)))
	whole, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(scaled, new(big.Float).SetInt(whole))
	return frac.Abs(frac).Cmp(big.NewFloat(0.5)) == 0
}
