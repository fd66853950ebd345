package recipescale

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Record is a saved calculation. Kinds lists the non-mass entries of the
// snapshots; blobs written without it fall back to the default kinds.
type Record struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Amount    float64         `json:"amount"`
	Total     Ingredients     `json:"totalAmounts"`
	PerVessel Ingredients     `json:"perPotAmounts"`
	Kinds     map[string]Kind `json:"kinds"`
}

func (r Record) Clone() Record {
	c := r
	c.Total = r.Total.Clone()
	c.PerVessel = r.PerVessel.Clone()
	if r.Kinds != nil {
		c.Kinds = make(map[string]Kind, len(r.Kinds))
		for k, v := range r.Kinds {
			c.Kinds[k] = v
		}
	}
	return c
}

func (r Record) Result() CalculationResult {
	return CalculationResult{
		Amount:    r.Amount,
		Total:     r.Total.Clone(),
		PerVessel: r.PerVessel.Clone(),
	}
}

func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// RecordStore keeps saved calculations newest first.
type RecordStore struct {
	storage  Storage
	key      string
	records  []Record
	stamper  DateStamper
	now      func() time.Time
	newID    func() string
	fallback map[string]Kind
	logger   *zap.Logger
}

type RecordStoreOption func(*RecordStore)

func WithDateStamper(ds DateStamper) RecordStoreOption {
	return func(s *RecordStore) { s.stamper = ds }
}

func WithClock(now func() time.Time) RecordStoreOption {
	return func(s *RecordStore) { s.now = now }
}

func WithIDGenerator(newID func() string) RecordStoreOption {
	return func(s *RecordStore) { s.newID = newID }
}

// WithFallbackKinds sets the kinds applied to records saved without any.
func WithFallbackKinds(kinds map[string]Kind) RecordStoreOption {
	return func(s *RecordStore) { s.fallback = kinds }
}

func LoadRecordStore(storage Storage, key string, logger *zap.Logger, opts ...RecordStoreOption) (*RecordStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = DefaultRecordsKey
	}
	defaults := DefaultIngredients()
	stamper, err := NewDateStamper(DefaultLocale, DefaultDateLayout)
	if err != nil {
		stamper = DateStamper{layout: DefaultDateLayout}
	}
	s := &RecordStore{
		storage:  storage,
		key:      key,
		stamper:  stamper,
		now:      time.Now,
		newID:    GenerateID,
		fallback: defaults.Kinds(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := storage.Load(key)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if !ok {
		return s, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("stored records unreadable, starting empty", zap.String("key", key), zap.Error(err))
		return s, nil
	}
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			logger.Warn("dropping record with duplicate id", zap.String("id", r.ID))
			continue
		}
		seen[r.ID] = true
		s.records = append(s.records, s.withKinds(r))
	}
	return s, nil
}

func (s *RecordStore) withKinds(r Record) Record {
	kinds := r.Kinds
	if kinds == nil {
		kinds = s.fallback
	}
	r.Total.ApplyKinds(kinds)
	r.PerVessel.ApplyKinds(kinds)
	return r
}

// List returns copies of all records, newest first.
func (s *RecordStore) List() []Record {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out
}

func (s *RecordStore) Len() int {
	return len(s.records)
}

func (s *RecordStore) Get(id string) (Record, bool) {
	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return Record{}, false
}

func (s *RecordStore) persist(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.storage.Save(s.key, data); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	s.records = records
	return nil
}

const maxIDAttempts = 8

func (s *RecordStore) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if _, taken := s.Get(id); !taken && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("no unused record id after %d attempts", maxIDAttempts)
}

// Save snapshots result as a new record at the head of the list.
func (s *RecordStore) Save(amount float64, result *CalculationResult) (Record, error) {
	if result == nil {
		return Record{}, ErrMissingResultOnSave
	}
	if !validAmount(amount) {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	id, err := s.uniqueID()
	if err != nil {
		return Record{}, err
	}
	snap := result.Clone()
	kinds := snap.Total.Kinds()
	for name, kind := range snap.PerVessel.Kinds() {
		kinds[name] = kind
	}
	rec := Record{
		ID:        id,
		Date:      s.stamper.Stamp(s.now()),
		Amount:    amount,
		Total:     snap.Total,
		PerVessel: snap.PerVessel,
		Kinds:     kinds,
	}
	next := make([]Record, 0, len(s.records)+1)
	next = append(next, rec)
	next = append(next, s.records...)
	if err := s.persist(next); err != nil {
		return Record{}, err
	}
	return rec.Clone(), nil
}

// Delete removes the record with id and reports whether one was found.
func (s *RecordStore) Delete(id string) (bool, error) {
	next := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	if len(next) == len(s.records) {
		return false, nil
	}
	if err := s.persist(next); err != nil {
		return false, err
	}
	return true, nil
}

// Merge appends records whose ids are not stored yet, keeping their order,
// and returns how many were added.
func (s *RecordStore) Merge(records []Record) (int, error) {
	next := append([]Record(nil), s.records...)
	seen := make(map[string]bool, len(next))
	for _, r := range next {
		seen[r.ID] = true
	}
	added := 0
	for _, r := range records {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		next = append(next, s.withKinds(r.Clone()))
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := s.persist(next); err != nil {
		return 0, err
	}
	return added, nil
}
