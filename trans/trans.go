/*
Package trans holds the types shared by the catalog updater, the XLIFF codec and the translation
database.
*/
package trans

import (
	"sort"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/xerrors"
)

// SourceLanguage is the language the catalog keys are written in.
const SourceLanguage = "en"

// DefaultKeepLanguages are the languages every catalog entry must carry after an update.
var DefaultKeepLanguages = []string{"en", "de", "es", "fr", "ja", "ko", "zh-Hans"}

// Table maps a catalog key to its translations, keyed by language code.
type Table map[string]map[string]string

// Keys returns the table keys in sorted order.
func (t Table) Keys() []string {
	keys := lo.Keys(t)
	sort.Strings(keys)
	return keys
}

// Lookup returns the non-empty translation of key into lang.
func (t Table) Lookup(key, lang string) (string, bool) {
	text, ok := t[key][lang]
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// Set stores a translation, creating the key's row when needed.
func (t Table) Set(key, lang, text string) {
	row, ok := t[key]
	if !ok {
		row = make(map[string]string)
		t[key] = row
	}
	row[lang] = text
}

// Merge copies all translations from other into t. Values from other win.
func (t Table) Merge(other Table) {
	for key, row := range other {
		for lang, text := range row {
			t.Set(key, lang, text)
		}
	}
}

// Validate checks that every language used in the table is a well-formed tag and one of keep.
func (t Table) Validate(keep []string) error {
	for _, key := range t.Keys() {
		for lang, text := range t[key] {
			if !lo.Contains(keep, lang) {
				return xerrors.Errorf("key %q: language %q is not a kept language", key, lang)
			}
			if text == "" {
				return xerrors.Errorf("key %q: empty translation for %q", key, lang)
			}
		}
	}
	return ValidateLanguages(keep)
}

// ValidateLanguages checks that every code parses as a BCP 47 tag.
func ValidateLanguages(codes []string) error {
	for _, code := range codes {
		if _, err := language.Parse(code); err != nil {
			return xerrors.Errorf("invalid language code %q: %w", code, err)
		}
	}
	return nil
}

// Language is a language known to the translation database.
type Language struct {
	Id   int64  `db:"id" json:"-"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// Domain is a named set of translatable strings, one per catalog.
type Domain interface {
	Name() string
	Strings() []String
}

// String is a single translatable key within a Domain.
type String interface {
	Name() string
	Translations() map[Language]Translation
}

// Translation is the content of a String in one language.
type Translation interface {
	Content() string
	State() string
}
