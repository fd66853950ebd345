package recipescale

import "errors"

var (
	ErrInvalidAmount           = errors.New("amount must be a number greater than zero")
	ErrInvalidIngredientValue  = errors.New("ingredient quantity must be a number of zero or more")
	ErrEmptyIngredientName     = errors.New("ingredient name is empty")
	ErrDuplicateIngredientName = errors.New("ingredient already exists")
	ErrMissingResultOnSave     = errors.New("nothing to save: calculate first")
	ErrInvalidScaler           = errors.New("batch size and vessel count must be positive")
)
