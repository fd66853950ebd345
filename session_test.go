package recipescale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSession(t *testing.T, st Storage, defaults Ingredients) *Session {
	t.Helper()
	ings, err := LoadIngredientStore(st, DefaultIngredientsKey, defaults, zap.NewNop())
	require.NoError(t, err)
	recs := loadRecords(t, st)
	return NewSession(ings, recs, DefaultScaler(), NewFormatter(Labels{}), zap.NewNop())
}

func TestSessionRejectsBadAmounts(t *testing.T) {
	s := newTestSession(t, NewMemoryStorage(), DefaultIngredients())
	for _, text := range []string{"-5", "abc", "0", ""} {
		_, err := s.OnCalculate(text)
		assert.ErrorIs(t, err, ErrInvalidAmount, text)
		_, ok := s.Result()
		assert.False(t, ok, "no result after %q", text)
	}
}

func TestSessionRejectedAmountKeepsResult(t *testing.T) {
	s := newTestSession(t, NewMemoryStorage(), DefaultIngredients())
	_, err := s.OnCalculate("5")
	require.NoError(t, err)

	_, err = s.OnCalculate("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 5.0, res.Amount)

	rec, err := s.OnSaveRecord()
	require.NoError(t, err)
	assert.Equal(t, 5.0, rec.Amount)
}

func TestSessionSaveRequiresResult(t *testing.T) {
	s := newTestSession(t, NewMemoryStorage(), DefaultIngredients())
	_, err := s.OnSaveRecord()
	assert.ErrorIs(t, err, ErrMissingResultOnSave)
	assert.Empty(t, s.Records())
}

func TestSessionCalculateSaveReload(t *testing.T) {
	st := NewMemoryStorage()
	s := newTestSession(t, st, NewIngredients(Ingredient{Name: "A", Quantity: 1}))

	res, err := s.OnCalculate("5")
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Amount)
	rows := s.Rows(res)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{Name: "A", Total: "500 جرام", PerVessel: "167 جرام"}, rows[0])

	rec, err := s.OnSaveRecord()
	require.NoError(t, err)
	assert.Equal(t, 5.0, rec.Amount)

	s.SetAmountText("40")
	_, err = s.OnSaveRecord()
	require.NoError(t, err)
	list := s.Records()
	require.Len(t, list, 2)
	assert.Equal(t, 5.0, list[0].Amount, "saved under the calculated amount")

	reloaded := newTestSession(t, st, DefaultIngredients())
	assert.Len(t, reloaded.Records(), 2)

	ok, err := reloaded.OnDeleteRecord(list[1].ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, reloaded.Records(), 1)
}

func TestSessionAddIngredientRejections(t *testing.T) {
	s := newTestSession(t, NewMemoryStorage(), NewIngredients(Ingredient{Name: "A", Quantity: 1}))
	before := s.Ingredients()

	assert.ErrorIs(t, s.OnAddIngredient("A", "2", KindMass), ErrDuplicateIngredientName)
	assert.ErrorIs(t, s.OnAddIngredient("   ", "2", KindMass), ErrEmptyIngredientName)
	assert.ErrorIs(t, s.OnAddIngredient("B", "-1", KindMass), ErrInvalidIngredientValue)
	assert.ErrorIs(t, s.OnAddIngredient("B", "x", KindMass), ErrInvalidIngredientValue)
	assert.True(t, before.Equal(s.Ingredients()))

	require.NoError(t, s.OnAddIngredient("  B ", "0.2", KindContainer))
	assert.Equal(t, []string{"A", "B"}, s.Ingredients().Names())
	b := mustGet(t, s.Ingredients(), "B")
	assert.Equal(t, KindContainer, b.Kind)
}

func TestSessionIngredientEdit(t *testing.T) {
	s := newTestSession(t, NewMemoryStorage(), NewIngredients(Ingredient{Name: "A", Quantity: 1}))

	assert.Error(t, s.OnIngredientEdit("A", "-3"))
	assert.Error(t, s.OnIngredientEdit("A", ""))
	assert.Equal(t, 1.0, mustGet(t, s.Ingredients(), "A").Quantity)

	require.NoError(t, s.OnIngredientEdit("A", "2.5kg"))
	assert.Equal(t, 2.5, mustGet(t, s.Ingredients(), "A").Quantity)

	require.NoError(t, s.OnIngredientEdit("A", "0"))
	res, err := s.OnCalculate("10")
	require.NoError(t, err)
	assert.Equal(t, "0 جرام", s.Rows(res)[0].Total)
}

func TestSessionRemoveAndReset(t *testing.T) {
	s := newTestSession(t, NewMemoryStorage(), DefaultIngredients())
	ok, err := s.OnRemoveIngredient(Cumin)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.OnRemoveIngredient(Cumin)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 6, s.Ingredients().Len())

	require.NoError(t, s.OnResetIngredients())
	assert.True(t, s.Ingredients().Equal(DefaultIngredients()))
}

func TestSessionImport(t *testing.T) {
	s := newTestSession(t, NewMemoryStorage(), DefaultIngredients())
	_, err := s.OnCalculate("10")
	require.NoError(t, err)
	own, err := s.OnSaveRecord()
	require.NoError(t, err)

	imported := NewIngredients(Ingredient{Name: "X", Quantity: 2})
	added, err := s.Import(imported, []Record{
		own,
		{ID: "other", Date: "1/1/2026", Amount: 3, Total: imported, PerVessel: imported},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"X"}, s.Ingredients().Names())
	assert.Len(t, s.Records(), 2)

	added, err = s.Import(Ingredients{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, []string{"X"}, s.Ingredients().Names(), "empty list keeps the current one")
}

func TestSessionRowsFormatContainers(t *testing.T) {
	s := newTestSession(t, NewMemoryStorage(), DefaultIngredients())
	res, err := s.OnCalculate("15")
	require.NoError(t, err)
	for _, row := range s.Rows(res) {
		if row.Name == Yogurt {
			assert.Equal(t, "9.00 علبة", row.Total)
			assert.Equal(t, "3.00 علبة", row.PerVessel)
			return
		}
	}
	t.Fatal("yogurt row missing")
}
