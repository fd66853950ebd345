package recipescale

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Session is the state of one running shell: the stores it edits plus the
// amount text and result of the last calculation.
type Session struct {
	ingredients *IngredientStore
	records     *RecordStore
	scaler      Scaler
	formatter   Formatter
	logger      *zap.Logger

	amountText string
	result     *CalculationResult
}

func NewSession(ingredients *IngredientStore, records *RecordStore, scaler Scaler, formatter Formatter, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		ingredients: ingredients,
		records:     records,
		scaler:      scaler,
		formatter:   formatter,
		logger:      logger,
	}
}

func (s *Session) AmountText() string {
	return s.amountText
}

func (s *Session) SetAmountText(text string) {
	s.amountText = text
}

// Result returns a copy of the last successful calculation.
func (s *Session) Result() (CalculationResult, bool) {
	if s.result == nil {
		return CalculationResult{}, false
	}
	return s.result.Clone(), true
}

func (s *Session) Ingredients() Ingredients {
	return s.ingredients.Get()
}

func (s *Session) Records() []Record {
	return s.records.List()
}

// OnCalculate parses text as the requested amount and scales the current
// ingredient list. A rejected amount keeps the previous result.
func (s *Session) OnCalculate(text string) (CalculationResult, error) {
	s.amountText = text
	amount, err := ParseAmount(text)
	if err != nil {
		s.logger.Info("calculation rejected", zap.String("amount", text), zap.Error(err))
		return CalculationResult{}, err
	}
	res, err := s.scaler.Calculate(amount, s.ingredients.Get())
	if err != nil {
		s.logger.Error("calculation failed", zap.Float64("amount", amount), zap.Error(err))
		return CalculationResult{}, err
	}
	s.result = &res
	s.logger.Info("calculated", zap.Float64("amount", amount), zap.Int("ingredients", res.Total.Len()))
	return res.Clone(), nil
}

// OnSaveRecord stores the last result under the amount it was computed for.
func (s *Session) OnSaveRecord() (Record, error) {
	if s.result == nil || strings.TrimSpace(s.amountText) == "" {
		s.logger.Info("save rejected", zap.Error(ErrMissingResultOnSave))
		return Record{}, ErrMissingResultOnSave
	}
	rec, err := s.records.Save(s.result.Amount, s.result)
	if err != nil {
		s.logger.Error("save failed", zap.Error(err))
		return Record{}, err
	}
	s.logger.Info("record saved", zap.String("id", rec.ID), zap.Float64("amount", rec.Amount))
	return rec, nil
}

func (s *Session) OnDeleteRecord(id string) (bool, error) {
	ok, err := s.records.Delete(id)
	if err != nil {
		s.logger.Error("delete record failed", zap.String("id", id), zap.Error(err))
		return false, err
	}
	s.logger.Info("record deleted", zap.String("id", id), zap.Bool("found", ok))
	return ok, nil
}

// OnIngredientEdit sets name to the quantity in valueText. Invalid or
// negative values leave the list unchanged.
func (s *Session) OnIngredientEdit(name, valueText string) error {
	qty, err := ParseQuantity(valueText)
	if err != nil {
		s.logger.Debug("ingredient edit ignored", zap.String("name", name), zap.String("value", valueText))
		return err
	}
	if err := s.ingredients.Set(name, qty); err != nil {
		s.logger.Error("ingredient edit failed", zap.String("name", name), zap.Error(err))
		return err
	}
	s.logger.Info("ingredient updated", zap.String("name", name), zap.Float64("quantity", qty))
	return nil
}

func (s *Session) OnAddIngredient(name, amountText string, kind Kind) error {
	qty, err := ParseQuantity(amountText)
	if err != nil {
		s.logger.Info("add ingredient rejected", zap.String("name", name), zap.Error(err))
		return err
	}
	if err := s.ingredients.Add(name, qty, kind); err != nil {
		if errors.Is(err, ErrDuplicateIngredientName) || errors.Is(err, ErrEmptyIngredientName) {
			s.logger.Info("add ingredient rejected", zap.String("name", name), zap.Error(err))
		} else {
			s.logger.Error("add ingredient failed", zap.String("name", name), zap.Error(err))
		}
		return err
	}
	s.logger.Info("ingredient added", zap.String("name", strings.TrimSpace(name)), zap.Float64("quantity", qty), zap.Stringer("kind", kind))
	return nil
}

func (s *Session) OnRemoveIngredient(name string) (bool, error) {
	ok, err := s.ingredients.Remove(name)
	if err != nil {
		s.logger.Error("remove ingredient failed", zap.String("name", name), zap.Error(err))
		return false, err
	}
	s.logger.Info("ingredient removed", zap.String("name", name), zap.Bool("found", ok))
	return ok, nil
}

func (s *Session) OnResetIngredients() error {
	if err := s.ingredients.Reset(); err != nil {
		s.logger.Error("reset ingredients failed", zap.Error(err))
		return err
	}
	s.logger.Info("ingredients reset to defaults")
	return nil
}

// Row is one display line of a result.
type Row struct {
	Name      string
	Total     string
	PerVessel string
}

func (s *Session) Rows(res CalculationResult) []Row {
	rows := make([]Row, 0, res.Total.Len())
	for _, it := range res.Total.All() {
		row := Row{Name: it.Name, Total: s.formatter.Format(it)}
		if pv, ok := res.PerVessel.Get(it.Name); ok {
			row.PerVessel = s.formatter.Format(pv)
		}
		rows = append(rows, row)
	}
	return rows
}

// Import replaces the ingredient list and merges records with unknown ids.
func (s *Session) Import(ingredients Ingredients, records []Record) (int, error) {
	if ingredients.Len() > 0 {
		if err := s.ingredients.Replace(ingredients); err != nil {
			s.logger.Error("import ingredients failed", zap.Error(err))
			return 0, err
		}
	}
	added, err := s.records.Merge(records)
	if err != nil {
		s.logger.Error("import records failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("imported", zap.Int("ingredients", ingredients.Len()), zap.Int("records", added))
	return added, nil
}
