package recipescale

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// IngredientStore holds the live reference list and persists it on every
// change. Kinds are kept under their own key so the list blob stays a plain
// name -> quantity object.
type IngredientStore struct {
	storage  Storage
	key      string
	kindsKey string
	defaults Ingredients
	items    Ingredients
	logger   *zap.Logger
}

func KindsKey(ingredientsKey string) string {
	return ingredientsKey + "Kinds"
}

// LoadIngredientStore reads the persisted list, falling back to defaults when
// nothing was saved or the blob cannot be decoded.
func LoadIngredientStore(storage Storage, key string, defaults Ingredients, logger *zap.Logger) (*IngredientStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = DefaultIngredientsKey
	}
	s := &IngredientStore{
		storage:  storage,
		key:      key,
		kindsKey: KindsKey(key),
		defaults: defaults.Clone(),
		logger:   logger,
	}

	data, ok, err := storage.Load(key)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	if !ok {
		s.items = defaults.Clone()
		return s, nil
	}
	var items Ingredients
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("stored ingredients unreadable, using defaults", zap.String("key", key), zap.Error(err))
		s.items = defaults.Clone()
		return s, nil
	}
	items.ApplyKinds(s.loadKinds())
	s.items = items
	return s, nil
}

func (s *IngredientStore) loadKinds() map[string]Kind {
	data, ok, err := s.storage.Load(s.kindsKey)
	if err == nil && ok {
		var kinds map[string]Kind
		if err = json.Unmarshal(data, &kinds); err == nil {
			return kinds
		}
	}
	if err != nil {
		s.logger.Warn("stored ingredient kinds unreadable, using defaults", zap.String("key", s.kindsKey), zap.Error(err))
	}
	return s.defaults.Kinds()
}

func (s *IngredientStore) Get() Ingredients {
	return s.items.Clone()
}

func (s *IngredientStore) commit(next Ingredients) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	kinds, err := json.Marshal(next.Kinds())
	if err != nil {
		return fmt.Errorf("encode ingredient kinds: %w", err)
	}
	if err := s.storage.Save(s.kindsKey, kinds); err != nil {
		return fmt.Errorf("save ingredient kinds: %w", err)
	}
	if err := s.storage.Save(s.key, data); err != nil {
		if prev, merr := json.Marshal(s.items.Kinds()); merr == nil {
			if rerr := s.storage.Save(s.kindsKey, prev); rerr != nil {
				s.logger.Warn("restoring ingredient kinds failed", zap.String("key", s.kindsKey), zap.Error(rerr))
			}
		}
		return fmt.Errorf("save ingredients: %w", err)
	}
	s.items = next
	return nil
}

// Set updates or inserts name. qty must be finite and not negative.
func (s *IngredientStore) Set(name string, qty float64) error {
	if !validQuantity(qty) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidIngredientValue, name, qty)
	}
	next := s.items.Clone()
	next.Set(name, qty)
	return s.commit(next)
}

// Add inserts a new ingredient; existing names are never overwritten.
func (s *IngredientStore) Add(name string, qty float64, kind Kind) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyIngredientName
	}
	if !validQuantity(qty) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidIngredientValue, name, qty)
	}
	if s.items.Has(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateIngredientName, name)
	}
	next := s.items.Clone()
	next.Put(Ingredient{Name: name, Quantity: qty, Kind: kind})
	return s.commit(next)
}

// Remove deletes name and reports whether it was present.
func (s *IngredientStore) Remove(name string) (bool, error) {
	if !s.items.Has(name) {
		return false, nil
	}
	next := s.items.Clone()
	next.Delete(name)
	if err := s.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

func (s *IngredientStore) Replace(items Ingredients) error {
	for _, it := range items.All() {
		if strings.TrimSpace(it.Name) == "" {
			return ErrEmptyIngredientName
		}
		if !validQuantity(it.Quantity) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidIngredientValue, it.Name, it.Quantity)
		}
	}
	return s.commit(items.Clone())
}

func (s *IngredientStore) Reset() error {
	return s.commit(s.defaults.Clone())
}
