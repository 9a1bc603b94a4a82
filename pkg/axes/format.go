package axes

import (
	"github.com/aretw0/sonisync/pkg/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NumberFormat returns a locale-aware formatter with digit grouping and at
// most three fraction digits. Unknown or empty languages fall back to English.
func NumberFormat(lang string) domain.Formatter {
	tag := language.English
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			tag = t
		}
	}
	return func(v float64) string {
		// message.Printer is not safe for concurrent use.
		p := message.NewPrinter(tag)
		return p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
	}
}
