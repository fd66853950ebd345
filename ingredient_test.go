package recipescale

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientsKeepInsertionOrder(t *testing.T) {
	var ings Ingredients
	ings.Set("b", 2)
	ings.Set("a", 1)
	ings.Put(Ingredient{Name: "c", Quantity: 3, Kind: KindContainer})
	ings.Set("b", 5)

	assert.Equal(t, []string{"b", "a", "c"}, ings.Names())
	q, ok := ings.Quantity("b")
	require.True(t, ok)
	assert.Equal(t, 5.0, q)

	c, _ := ings.Get("c")
	assert.Equal(t, KindContainer, c.Kind)
	ings.Set("c", 4)
	c, _ = ings.Get("c")
	assert.Equal(t, KindContainer, c.Kind, "Set keeps the kind")

	assert.True(t, ings.Delete("b"))
	assert.False(t, ings.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, ings.Names())
	assert.True(t, ings.Has("c"))
	it, _ := ings.Get("c")
	assert.Equal(t, 4.0, it.Quantity)
}

func TestIngredientsNamesAreCaseSensitive(t *testing.T) {
	ings := NewIngredients(Ingredient{Name: "Salt", Quantity: 1}, Ingredient{Name: "salt", Quantity: 2})
	assert.Equal(t, 2, ings.Len())
}

func TestIngredientsCloneIsIndependent(t *testing.T) {
	orig := NewIngredients(Ingredient{Name: "a", Quantity: 1})
	c := orig.Clone()
	c.Set("a", 9)
	c.Set("b", 2)

	q, _ := orig.Quantity("a")
	assert.Equal(t, 1.0, q)
	assert.Equal(t, 1, orig.Len())
}

func TestIngredientsJSONPreservesOrder(t *testing.T) {
	ings := DefaultIngredients()
	data, err := json.Marshal(ings)
	require.NoError(t, err)

	var back Ingredients
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ings.Names(), back.Names())
	for _, it := range ings.All() {
		q, ok := back.Quantity(it.Name)
		require.True(t, ok)
		assert.Equal(t, it.Quantity, q)
	}

	var ordered Ingredients
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"a":0.5,"m":0}`), &ordered))
	assert.Equal(t, []string{"z", "a", "m"}, ordered.Names())
}

func TestIngredientsJSONRejectsBadBlobs(t *testing.T) {
	for name, blob := range map[string]string{
		"array":    `[1,2]`,
		"string":   `{"a":"1"}`,
		"negative": `{"a":-1}`,
		"garbage":  `{"a":`,
	} {
		t.Run(name, func(t *testing.T) {
			var ings Ingredients
			assert.Error(t, json.Unmarshal([]byte(blob), &ings))
		})
	}
}

func TestKindText(t *testing.T) {
	k, err := ParseKind("container")
	require.NoError(t, err)
	assert.Equal(t, KindContainer, k)

	_, err = ParseKind("litre")
	assert.Error(t, err)

	data, err := json.Marshal(map[string]Kind{Yogurt: KindContainer})
	require.NoError(t, err)
	assert.JSONEq(t, `{"زبادي":"container"}`, string(data))
}

func TestDefaultIngredients(t *testing.T) {
	ings := DefaultIngredients()
	assert.Equal(t, 7, ings.Len())
	assert.Equal(t, map[string]Kind{Yogurt: KindContainer}, ings.Kinds())
	q, _ := ings.Quantity(Yogurt)
	assert.Equal(t, 4.0, q)
}
