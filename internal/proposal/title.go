package proposal

import (
	"encoding/hex"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// A Collator keeps iteration state, so each caller borrows its own.
var titleCollators = sync.Pool{
	New: func() any {
		return collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth)
	},
}

// TitleKey returns the primary-strength collation key of a title, hex encoded.
// Titles that differ only in case, diacritics or width ("Café", "CAFE",
// "Øre"/"Ore", "ＡＢＣ"/"abc") share one key.
func TitleKey(title string) string {
	col := titleCollators.Get().(*collate.Collator)
	defer titleCollators.Put(col)

	var buf collate.Buffer
	return hex.EncodeToString(col.KeyFromString(&buf, title))
}
