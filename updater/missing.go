package updater

import (
	"github.com/samber/lo"

	"github.com/petert82/xcstrings-tool/xcstrings"
)

// MissingEntry is a catalog key that lacks a value in some kept languages.
type MissingEntry struct {
	Key       string
	Languages []string
}

// Missing lists the translatable keys of c that have no value for one or more of the kept
// languages. Keys are reported in catalog order. The catalog is not modified.
func Missing(c *xcstrings.Catalog, keep []string) []MissingEntry {
	langs := lo.Uniq(append([]string{c.SourceLanguage}, keep...))

	var missing []MissingEntry
	for pair := c.Strings.Oldest(); pair != nil; pair = pair.Next() {
		key, e := pair.Key, pair.Value
		if key == "" || !e.ShouldTranslate() || e.ExtractionState == xcstrings.ExtractionStale {
			continue
		}

		absent := lo.Filter(langs, func(lang string, _ int) bool {
			l, ok := e.Localization(lang)
			return !ok || (!l.HasVariations() && l.Value() == "")
		})
		if len(absent) > 0 {
			missing = append(missing, MissingEntry{Key: key, Languages: absent})
		}
	}

	return missing
}
