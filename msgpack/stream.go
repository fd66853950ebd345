package recipemsgpack

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"recipescale"
)

var ErrUnsupportedVersion = errors.New("unsupported archive version")

// Archive is the decoded content of an export stream.
type Archive struct {
	ExportedAt  time.Time
	Ingredients recipescale.Ingredients
	Records     []recipescale.Record
}

// WriteArchive encodes a header value followed by one value per record.
func WriteArchive(w io.Writer, ingredients recipescale.Ingredients, records []recipescale.Record, exportedAt time.Time) error {
	enc := msgpack.NewEncoder(w)
	h := Header{
		Version:      FormatVersion,
		ExportedAtMs: exportedAt.UnixMilli(),
		RecordCount:  len(records),
		Ingredients:  NewIngredients(ingredients),
	}
	if err := enc.Encode(&h); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for i := range records {
		rec := NewRecord(records[i])
		if err := enc.Encode(&rec); err != nil {
			return fmt.Errorf("encode record %s: %w", records[i].ID, err)
		}
	}
	return nil
}

func ReadArchive(r io.Reader) (Archive, error) {
	dec := msgpack.NewDecoder(r)

	var h Header
	if err := dec.Decode(&h); err != nil {
		return Archive{}, fmt.Errorf("decode header: %w", err)
	}
	if h.Version != FormatVersion {
		return Archive{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	ings, err := ToIngredients(h.Ingredients)
	if err != nil {
		return Archive{}, err
	}
	a := Archive{Ingredients: ings}
	if h.ExportedAtMs != 0 {
		a.ExportedAt = time.UnixMilli(h.ExportedAtMs)
	}

	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return a, fmt.Errorf("archive truncated after %d records: %w", len(a.Records), err)
			}
			return a, err
		}
		coreRec, err := ToRecord(rec)
		if err != nil {
			return a, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		a.Records = append(a.Records, coreRec)
	}
	if len(a.Records) != h.RecordCount {
		return a, fmt.Errorf("archive holds %d records, header says %d", len(a.Records), h.RecordCount)
	}
	return a, nil
}
