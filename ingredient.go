package recipescale

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

type Kind int

const (
	KindMass      Kind = iota // kilograms
	KindContainer             // container count once scaled
)

func (k Kind) String() string {
	switch k {
	case KindMass:
		return "mass"
	case KindContainer:
		return "container"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "mass", "":
		return KindMass, nil
	case "container":
		return KindContainer, nil
	}
	return KindMass, fmt.Errorf("unknown ingredient kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type Ingredient struct {
	Name     string
	Quantity float64
	Kind     Kind
}

// Ingredients is an insertion-ordered set of uniquely named ingredients.
// The zero value is an empty list ready to use.
type Ingredients struct {
	items []Ingredient
	index map[string]int
}

func NewIngredients(items ...Ingredient) Ingredients {
	var ings Ingredients
	for _, it := range items {
		ings.Put(it)
	}
	return ings
}

func (ings Ingredients) Len() int {
	return len(ings.items)
}

func (ings Ingredients) Names() []string {
	names := make([]string, 0, len(ings.items))
	for _, it := range ings.items {
		names = append(names, it.Name)
	}
	return names
}

func (ings Ingredients) Get(name string) (Ingredient, bool) {
	i, ok := ings.index[name]
	if !ok {
		return Ingredient{}, false
	}
	return ings.items[i], true
}

func (ings Ingredients) Has(name string) bool {
	_, ok := ings.index[name]
	return ok
}

func (ings Ingredients) Quantity(name string) (float64, bool) {
	it, ok := ings.Get(name)
	return it.Quantity, ok
}

// Set updates the quantity of name in place, keeping its kind and position.
// Unknown names are appended as mass ingredients.
func (ings *Ingredients) Set(name string, qty float64) {
	if i, ok := ings.index[name]; ok {
		ings.items[i].Quantity = qty
		return
	}
	ings.Put(Ingredient{Name: name, Quantity: qty, Kind: KindMass})
}

// Put inserts it, or replaces the entry with the same name without moving it.
func (ings *Ingredients) Put(it Ingredient) {
	if ings.index == nil {
		ings.index = make(map[string]int)
	}
	if i, ok := ings.index[it.Name]; ok {
		ings.items[i] = it
		return
	}
	ings.index[it.Name] = len(ings.items)
	ings.items = append(ings.items, it)
}

func (ings *Ingredients) Delete(name string) bool {
	i, ok := ings.index[name]
	if !ok {
		return false
	}
	ings.items = append(ings.items[:i], ings.items[i+1:]...)
	delete(ings.index, name)
	for j := i; j < len(ings.items); j++ {
		ings.index[ings.items[j].Name] = j
	}
	return true
}

// All returns a copy of the entries in display order.
func (ings Ingredients) All() []Ingredient {
	return append([]Ingredient(nil), ings.items...)
}

func (ings Ingredients) Clone() Ingredients {
	return NewIngredients(ings.items...)
}

func (ings Ingredients) Equal(other Ingredients) bool {
	if ings.Len() != other.Len() {
		return false
	}
	for i, it := range ings.items {
		if other.items[i] != it {
			return false
		}
	}
	return true
}

// Kinds returns the non-mass kinds by name.
func (ings Ingredients) Kinds() map[string]Kind {
	kinds := make(map[string]Kind)
	for _, it := range ings.items {
		if it.Kind != KindMass {
			kinds[it.Name] = it.Kind
		}
	}
	return kinds
}

// ApplyKinds re-tags entries named in kinds. Names not present are ignored.
func (ings *Ingredients) ApplyKinds(kinds map[string]Kind) {
	for name, kind := range kinds {
		if i, ok := ings.index[name]; ok {
			ings.items[i].Kind = kind
		}
	}
}

var errIngredientsNotObject = errors.New("ingredients: expected a JSON object")

// MarshalJSON writes a name -> quantity object in display order.
func (ings Ingredients) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range ings.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(it.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("ingredients: %s: %w", it.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the document order of the object keys. Every entry is
// decoded as a mass ingredient; kinds are restored separately.
func (ings *Ingredients) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("ingredients: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return errIngredientsNotObject
	}
	var out Ingredients
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			err = fmt.Errorf("ingredients: %q is not a number", key.String())
			return false
		}
		qty := value.Float()
		if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
			err = fmt.Errorf("ingredients: %q has invalid quantity %v", key.String(), qty)
			return false
		}
		out.Put(Ingredient{Name: key.String(), Quantity: qty, Kind: KindMass})
		return true
	})
	if err != nil {
		return err
	}
	*ings = out
	return nil
}

const (
	Hummus         = "حمص"
	Garlic         = "ثوم"
	Yogurt         = "زبادي"
	LemonJuice     = "عصير ليمون"
	Preservative   = "بيروكلينيت"
	Salt           = "ملح"
	Cumin          = "كمون"
	DefaultBatchKg = 10.0
)

// DefaultIngredients returns the reference quantities for a DefaultBatchKg batch.
func DefaultIngredients() Ingredients {
	return NewIngredients(
		Ingredient{Name: Hummus, Quantity: 1.000},
		Ingredient{Name: Garlic, Quantity: 0.075},
		Ingredient{Name: Yogurt, Quantity: 4.000, Kind: KindContainer},
		Ingredient{Name: LemonJuice, Quantity: 0.280},
		Ingredient{Name: Preservative, Quantity: 0.300},
		Ingredient{Name: Salt, Quantity: 0.140},
		Ingredient{Name: Cumin, Quantity: 0.075},
	)
}
