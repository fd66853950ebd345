package recipescale

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale     = "ar-EG"
	DefaultDateLayout = "2/1/2006"
)

// DateStamper renders record dates with a Go time layout, writing digits in
// the numbering system of its locale.
type DateStamper struct {
	layout string
	digits *strings.Replacer
}

func NewDateStamper(locale, layout string) (DateStamper, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DateStamper{}, fmt.Errorf("locale %q: %w", locale, err)
	}
	pairs := digitPairs(tag)
	if len(pairs) == 0 {
		// x/text prints Latin digits for regional tags such as ar-EG; the
		// base language carries the native numbering system.
		if _, hasNu := tag.Extension('u'); !hasNu {
			if base, conf := tag.Base(); conf != language.No {
				pairs = digitPairs(language.Make(base.String()))
			}
		}
	}
	ds := DateStamper{layout: layout}
	if len(pairs) > 0 {
		ds.digits = strings.NewReplacer(pairs...)
	}
	return ds, nil
}

// digitPairs lists ASCII -> local replacements for digits that tag prints
// differently.
func digitPairs(tag language.Tag) []string {
	p := message.NewPrinter(tag)
	pairs := make([]string, 0, 20)
	for d := 0; d <= 9; d++ {
		ascii := string(rune('0' + d))
		local := p.Sprint(number.Decimal(d))
		if local != ascii {
			pairs = append(pairs, ascii, local)
		}
	}
	return pairs
}

func (ds DateStamper) Stamp(t time.Time) string {
	layout := ds.layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	s := t.Format(layout)
	if ds.digits != nil {
		s = ds.digits.Replace(s)
	}
	return s
}
