package recipescale

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleIngredientsLinear(t *testing.T) {
	ref := DefaultIngredients()
	for _, amount := range []float64{0.5, 3, 10, 17.25, 120} {
		out, err := ScaleIngredients(amount, ref, 10)
		require.NoError(t, err)
		assert.Equal(t, ref.Names(), out.Names())
		for _, it := range ref.All() {
			if it.Kind == KindContainer {
				continue
			}
			got, _ := out.Quantity(it.Name)
			assert.InDelta(t, it.Quantity*amount/10, got, 1e-12, it.Name)
		}
	}
}

func TestScaleConvertsContainers(t *testing.T) {
	ref := NewIngredients(Ingredient{Name: Yogurt, Quantity: 4.000, Kind: KindContainer})

	out, err := ScaleIngredients(10, ref, 10)
	require.NoError(t, err)
	q, _ := out.Quantity(Yogurt)
	assert.Equal(t, 6.0, q)

	out, err = ScaleIngredients(5, ref, 10)
	require.NoError(t, err)
	q, _ = out.Quantity(Yogurt)
	assert.Equal(t, 3.0, q)

	out, err = ScaleIngredients(7, ref, 10)
	require.NoError(t, err)
	q, _ = out.Quantity(Yogurt)
	assert.Equal(t, math.Round(2.8/0.6667*100)/100, q)
}

func TestScaleUsesKindNotName(t *testing.T) {
	ref := NewIngredients(
		Ingredient{Name: "yoghurt", Quantity: 4, Kind: KindContainer},
		Ingredient{Name: Yogurt, Quantity: 4},
	)
	out, err := ScaleIngredients(10, ref, 10)
	require.NoError(t, err)

	q, _ := out.Quantity("yoghurt")
	assert.Equal(t, 6.0, q)
	q, _ = out.Quantity(Yogurt)
	assert.Equal(t, 4.0, q)
}

func TestScaleRejectsBadAmounts(t *testing.T) {
	ref := DefaultIngredients()
	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := ScaleIngredients(amount, ref, 10)
		assert.True(t, errors.Is(err, ErrInvalidAmount), "amount %v", amount)
	}
	_, err := ScaleIngredients(5, ref, 0)
	assert.ErrorIs(t, err, ErrInvalidScaler)
}

func TestScaleDoesNotTouchReference(t *testing.T) {
	ref := DefaultIngredients()
	_, err := ScaleIngredients(25, ref, 10)
	require.NoError(t, err)
	assert.True(t, ref.Equal(DefaultIngredients()))
}

func TestSplitAcrossVessels(t *testing.T) {
	total := NewIngredients(
		Ingredient{Name: "A", Quantity: 0.5},
		Ingredient{Name: "B", Quantity: 2.8},
		Ingredient{Name: Yogurt, Quantity: 4, Kind: KindContainer},
	)
	out, err := SplitAcrossVessels(total, 3)
	require.NoError(t, err)

	for _, name := range []string{"A", "B"} {
		want, _ := total.Quantity(name)
		got, _ := out.Quantity(name)
		assert.InDelta(t, want, got*3, 1e-12)
	}
	a, _ := out.Quantity("A")
	assert.Equal(t, 0.5/3, a, "masses are not rounded")

	y, _ := out.Quantity(Yogurt)
	assert.Equal(t, 1.33, y)

	_, err = SplitAcrossVessels(total, 0)
	assert.ErrorIs(t, err, ErrInvalidScaler)
}

func TestCalculateEndToEnd(t *testing.T) {
	ref := NewIngredients(Ingredient{Name: "A", Quantity: 1.000})
	res, err := DefaultScaler().Calculate(5, ref)
	require.NoError(t, err)

	assert.Equal(t, 5.0, res.Amount)
	total, _ := res.Total.Get("A")
	assert.Equal(t, 0.5, total.Quantity)
	pv, _ := res.PerVessel.Quantity("A")
	assert.InDelta(t, 0.16666666, pv, 1e-6)
	assert.Equal(t, "500 جرام", FormatQuantity(total))
}

func TestCalculateDefaultRecipe(t *testing.T) {
	res, err := DefaultScaler().Calculate(15, DefaultIngredients())
	require.NoError(t, err)

	y, _ := res.Total.Quantity(Yogurt)
	assert.Equal(t, 9.0, y)
	ypv, _ := res.PerVessel.Quantity(Yogurt)
	assert.Equal(t, 3.0, ypv)
	h, _ := res.Total.Quantity(Hummus)
	assert.InDelta(t, 1.5, h, 1e-12)
}

func TestUnitConverter(t *testing.T) {
	uc := NewUnitConverter()
	assert.Equal(t, 1.234567, uc.FromKg(KindContainer, 1.234567), "no rule, unchanged")

	uc.AddRule(KindContainer, 0.5)
	assert.Equal(t, 2.47, uc.FromKg(KindContainer, 1.234567))
	assert.Equal(t, 1.234567, uc.FromKg(KindMass, 1.234567))

	var nilConv *UnitConverter
	assert.Equal(t, 3.0, nilConv.FromKg(KindContainer, 3))
}
