package recipescale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateStamperLatinDigits(t *testing.T) {
	ds, err := NewDateStamper("en-GB", "")
	require.NoError(t, err)
	assert.Equal(t, "5/3/2026", ds.Stamp(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))

	ds, err = NewDateStamper("en-US", "1/2/2006")
	require.NoError(t, err)
	assert.Equal(t, "3/5/2026", ds.Stamp(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestDateStamperArabicLocale(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for _, locale := range []string{"ar-EG", "ar", ""} {
		ds, err := NewDateStamper(locale, "")
		require.NoError(t, err, locale)
		assert.Equal(t, "١٩/١٠/٢٠٢٦", ds.Stamp(day), locale)
	}
}

func TestDateStamperRejectsBadLocale(t *testing.T) {
	_, err := NewDateStamper("not a locale!", "")
	assert.Error(t, err)
}
