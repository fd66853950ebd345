package recipemsgpack

import (
	"recipescale"
)

const FormatVersion = 1

type Header struct {
	Version      int          `msgpack:"version"`
	ExportedAtMs int64        `msgpack:"exported_at,omitempty"`
	RecordCount  int          `msgpack:"record_count"`
	Ingredients  []Ingredient `msgpack:"ingredients,omitempty"`
}

type Ingredient struct {
	Name     string  `msgpack:"name"`
	Quantity float64 `msgpack:"quantity"`
	Kind     string  `msgpack:"kind,omitempty"`
}

type Record struct {
	ID        string       `msgpack:"id"`
	Date      string       `msgpack:"date,omitempty"`
	Amount    float64      `msgpack:"amount"`
	Total     []Ingredient `msgpack:"total,omitempty"`
	PerVessel []Ingredient `msgpack:"per_vessel,omitempty"`
}

func NewIngredients(ings recipescale.Ingredients) []Ingredient {
	var out []Ingredient
	for _, it := range ings.All() {
		ing := Ingredient{Name: it.Name, Quantity: it.Quantity}
		if it.Kind != recipescale.KindMass {
			ing.Kind = it.Kind.String()
		}
		out = append(out, ing)
	}
	return out
}

func ToIngredients(ings []Ingredient) (recipescale.Ingredients, error) {
	var out recipescale.Ingredients
	for _, it := range ings {
		kind, err := recipescale.ParseKind(it.Kind)
		if err != nil {
			return recipescale.Ingredients{}, err
		}
		out.Put(recipescale.Ingredient{Name: it.Name, Quantity: it.Quantity, Kind: kind})
	}
	return out, nil
}

func NewRecord(rec recipescale.Record) Record {
	return Record{
		ID:        rec.ID,
		Date:      rec.Date,
		Amount:    rec.Amount,
		Total:     NewIngredients(rec.Total),
		PerVessel: NewIngredients(rec.PerVessel),
	}
}

func ToRecord(rec Record) (recipescale.Record, error) {
	total, err := ToIngredients(rec.Total)
	if err != nil {
		return recipescale.Record{}, err
	}
	perVessel, err := ToIngredients(rec.PerVessel)
	if err != nil {
		return recipescale.Record{}, err
	}
	kinds := total.Kinds()
	for name, kind := range perVessel.Kinds() {
		kinds[name] = kind
	}
	return recipescale.Record{
		ID:        rec.ID,
		Date:      rec.Date,
		Amount:    rec.Amount,
		Total:     total,
		PerVessel: perVessel,
		Kinds:     kinds,
	}, nil
}
