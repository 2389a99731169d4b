package updater

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petert82/xcstrings-tool/trans"
	"github.com/petert82/xcstrings-tool/xcstrings"
)

var keep = []string{"en", "de", "es", "fr", "ja", "ko", "zh-Hans"}

const doc = `{
  "sourceLanguage" : "en",
  "strings" : {
    "Cancel" : {
      "localizations" : {
        "de" : { "stringUnit" : { "state" : "translated", "value" : "Abbrechen" } },
        "en" : { "stringUnit" : { "state" : "translated", "value" : "Cancel" } },
        "es" : { "stringUnit" : { "state" : "translated", "value" : "Cancelar" } },
        "fr" : { "stringUnit" : { "state" : "translated", "value" : "Annuler" } },
        "ja" : { "stringUnit" : { "state" : "translated", "value" : "キャンセル" } },
        "ko" : { "stringUnit" : { "state" : "translated", "value" : "취소" } },
        "zh-Hans" : { "stringUnit" : { "state" : "translated", "value" : "取消" } }
      }
    },
    "Exporting" : {
      "localizations" : {
        "de" : { "stringUnit" : { "state" : "translated", "value" : "Exportiere" } },
        "en" : { "stringUnit" : { "state" : "translated", "value" : "Exporting" } },
        "fr" : { "stringUnit" : { "state" : "translated", "value" : "Exportation" } },
        "ja" : { "stringUnit" : { "state" : "translated", "value" : "書き出し中" } },
        "ko" : { "stringUnit" : { "state" : "translated", "value" : "내보내는 중" } },
        "zh-Hans" : { "stringUnit" : { "state" : "translated", "value" : "正在导出" } }
      }
    }
  },
  "version" : "1.0"
}`

var exporting = map[string]string{
	"de":      "Exportiere",
	"es":      "Exportando",
	"fr":      "Exportation",
	"ja":      "書き出し中",
	"ko":      "내보내는 중",
	"zh-Hans": "正在导出",
}

func parse(t *testing.T, in string) *xcstrings.Catalog {
	t.Helper()
	c, err := xcstrings.Parse([]byte(in))
	require.NoError(t, err)
	return c
}

func localization(t *testing.T, c *xcstrings.Catalog, key, lang string) *xcstrings.Localization {
	t.Helper()
	e, ok := c.Entry(key)
	require.True(t, ok, "key %q missing", key)
	l, ok := e.Localization(lang)
	require.True(t, ok, "key %q has no %q localization", key, lang)
	return l
}

func TestFillsSingleMissingTranslation(t *testing.T) {
	c := parse(t, doc)

	counts := UpdateMissingTranslations(c, trans.Table{"Exporting": exporting}, keep, DefaultOptions)

	es := localization(t, c, "Exporting", "es")
	assert.Equal(t, "Exportando", es.Value())
	assert.Equal(t, xcstrings.StateTranslated, es.State())
	assert.Equal(t, Counts{TranslationsAdded: 1}, counts)
	assert.Equal(t, 1, counts.Total())
}

func TestTableKeysGetEveryKeptLanguage(t *testing.T) {
	c := parse(t, doc)
	table := trans.Table{
		"Exporting":       exporting,
		"Import Settings": {"de": "Einstellungen importieren", "ja": "設定を読み込む"},
	}

	counts := UpdateMissingTranslations(c, table, keep, Options{})

	for _, key := range table.Keys() {
		for _, lang := range keep {
			assert.NotEmpty(t, localization(t, c, key, lang).Value(), "%s/%s", key, lang)
		}
	}

	e, _ := c.Entry("Import Settings")
	assert.Equal(t, xcstrings.ExtractionManual, e.ExtractionState)
	assert.Equal(t, []string{"de", "en", "es", "fr", "ja", "ko", "zh-Hans"}, e.Languages())
	assert.Equal(t, "Import Settings", localization(t, c, "Import Settings", "en").Value())
	assert.Equal(t, "設定を読み込む", localization(t, c, "Import Settings", "ja").Value())
	fr := localization(t, c, "Import Settings", "fr")
	assert.Equal(t, "Import Settings", fr.Value())
	assert.Equal(t, xcstrings.StateNeedsReview, fr.State())

	assert.Equal(t, []string{"Cancel", "Exporting", "Import Settings"}, c.Keys())
	assert.Equal(t, Counts{KeysAdded: 1, EnglishAdded: 1, TranslationsAdded: 3, FallbacksFilled: 4}, counts)
}

func TestSecondRunChangesNothing(t *testing.T) {
	c := parse(t, doc)
	table := trans.Table{
		"Exporting":  exporting,
		"New String": {"de": "Neu"},
	}

	first := UpdateMissingTranslations(c, table, keep, DefaultOptions)
	require.NotZero(t, first.Total())
	before, err := xcstrings.Marshal(c)
	require.NoError(t, err)

	second := UpdateMissingTranslations(c, table, keep, DefaultOptions)
	assert.Zero(t, second.Total())
	after, err := xcstrings.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUntouchedKeysKeepTheirBytes(t *testing.T) {
	c := parse(t, doc)
	cancel, _ := c.Entry("Cancel")
	before, err := json.Marshal(cancel)
	require.NoError(t, err)

	UpdateMissingTranslations(c, trans.Table{"Exporting": exporting, "Other": {"de": "Andere"}}, keep, DefaultOptions)

	after, err := json.Marshal(cancel)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestExistingTranslationsWin(t *testing.T) {
	c := parse(t, doc)
	table := trans.Table{"Cancel": {"de": "Abbruch", "fr": "Annuler"}}

	counts := UpdateMissingTranslations(c, table, keep, DefaultOptions)

	assert.Equal(t, "Abbrechen", localization(t, c, "Cancel", "de").Value())
	assert.Equal(t, 1, counts.OverridesSkipped)
	assert.Zero(t, counts.TranslationsAdded)
}

func TestNewStateUnits(t *testing.T) {
	c := parse(t, `{"sourceLanguage": "en", "strings": {
		"Importing": {"localizations": {
			"en": {"stringUnit": {"state": "new", "value": "Importing"}},
			"de": {"stringUnit": {"state": "new", "value": "Importieren"}},
			"es": {"stringUnit": {"state": "new", "value": "Importando"}},
			"fr": {"stringUnit": {"state": "new", "value": ""}}
		}}
	}}`)
	table := trans.Table{"Importing": {"de": "Importiere", "es": "Importando", "fr": "Importation en cours"}}

	counts := UpdateMissingTranslations(c, table, []string{"en", "de", "es", "fr"}, DefaultOptions)

	for lang, want := range map[string]string{
		"en": "Importing",
		"de": "Importiere",
		"es": "Importando",
		"fr": "Importation en cours",
	} {
		l := localization(t, c, "Importing", lang)
		assert.Equal(t, want, l.Value(), lang)
		assert.Equal(t, xcstrings.StateTranslated, l.State(), lang)
	}
	assert.Equal(t, Counts{StatesFixed: 2, TranslationsReplaced: 1, TranslationsAdded: 1}, counts)
}

func TestSourceCopiesAreReplacedByTable(t *testing.T) {
	c := parse(t, `{"sourceLanguage": "en", "strings": {
		"Exporting": {"localizations": {
			"en": {"stringUnit": {"state": "translated", "value": "Exporting"}},
			"es": {"stringUnit": {"state": "needs_review", "value": "Exporting"}},
			"fr": {"stringUnit": {"state": "needs_review", "value": "Exportation"}}
		}}
	}}`)

	counts := UpdateMissingTranslations(c, trans.Table{"Exporting": {"es": "Exportando", "fr": "Export"}}, []string{"en", "es", "fr"}, DefaultOptions)

	assert.Equal(t, "Exportando", localization(t, c, "Exporting", "es").Value())
	assert.Equal(t, "Exportation", localization(t, c, "Exporting", "fr").Value())
	assert.Equal(t, Counts{TranslationsReplaced: 1, OverridesSkipped: 1}, counts)
}

func TestSkippedEntries(t *testing.T) {
	in := `{"sourceLanguage": "en", "strings": {
		"": {},
		"FlowDown": {"shouldTranslate": false},
		"Old": {"extractionState": "stale"},
		"%lld items": {"localizations": {
			"en": {"stringUnit": {"state": "translated", "value": "%lld items"}},
			"de": {"variations": {"plural": {"other": {"stringUnit": {"state": "translated", "value": "%lld Elemente"}}}}}
		}}
	}}`
	c := parse(t, in)

	counts := UpdateMissingTranslations(c, trans.Table{}, []string{"en", "de"}, DefaultOptions)

	assert.Zero(t, counts.Total())
	for _, key := range []string{"", "FlowDown", "Old"} {
		e, _ := c.Entry(key)
		assert.Empty(t, e.Languages(), key)
	}
	de := localization(t, c, "%lld items", "de")
	assert.True(t, de.HasVariations())
}

func TestNewStringMarkedDoNotTranslateIsLeftAlone(t *testing.T) {
	in := `{"sourceLanguage": "en", "strings": {"FlowDown": {"shouldTranslate": false, "localizations": {
		"en": {"stringUnit": {"state": "translated", "value": "FlowDown"}}
	}}}}`
	c := parse(t, in)
	before, err := xcstrings.Marshal(c)
	require.NoError(t, err)

	counts := UpdateMissingTranslations(c, trans.Table{"FlowDown": {"de": "FlowDown"}}, []string{"en", "de"}, DefaultOptions)

	assert.Zero(t, counts.Total())
	e, _ := c.Entry("FlowDown")
	assert.Equal(t, []string{"en"}, e.Languages())
	after, err := xcstrings.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestStaleKeysInTableAreFilled(t *testing.T) {
	c := parse(t, `{"sourceLanguage": "en", "strings": {"Old": {"extractionState": "stale"}}}`)

	counts := UpdateMissingTranslations(c, trans.Table{"Old": {"de": "Alt"}}, []string{"en", "de"}, Options{})

	assert.Equal(t, "Alt", localization(t, c, "Old", "de").Value())
	assert.Equal(t, Counts{EnglishAdded: 1, TranslationsAdded: 1}, counts)
}

func TestWithoutSourceFallback(t *testing.T) {
	c := parse(t, doc)

	counts := UpdateMissingTranslations(c, trans.Table{}, keep, Options{})

	e, _ := c.Entry("Exporting")
	_, ok := e.Localization("es")
	assert.False(t, ok)
	assert.Zero(t, counts.Total())
	assert.Equal(t, []MissingEntry{{Key: "Exporting", Languages: []string{"es"}}}, Missing(c, keep))
}

func TestPruneLanguages(t *testing.T) {
	c := parse(t, `{"sourceLanguage": "en", "strings": {"Cancel": {"localizations": {
		"en": {"stringUnit": {"state": "translated", "value": "Cancel"}},
		"de": {"stringUnit": {"state": "translated", "value": "Abbrechen"}},
		"it": {"stringUnit": {"state": "translated", "value": "Annulla"}}
	}}}}`)

	counts := UpdateMissingTranslations(c, nil, []string{"en", "de"}, Options{PruneLanguages: true})

	e, _ := c.Entry("Cancel")
	assert.Equal(t, []string{"en", "de"}, e.Languages())
	assert.Equal(t, Counts{LanguagesRemoved: 1}, counts)
}

func TestMissing(t *testing.T) {
	c := parse(t, doc)
	c.Add("Draft", xcstrings.NewEntry(xcstrings.ExtractionManual))

	missing := Missing(c, keep)

	assert.Equal(t, []MissingEntry{
		{Key: "Draft", Languages: keep},
		{Key: "Exporting", Languages: []string{"es"}},
	}, missing)
}

func TestCounts(t *testing.T) {
	a := Counts{KeysAdded: 1, TranslationsAdded: 2, OverridesSkipped: 5}
	b := Counts{TranslationsAdded: 1, StatesFixed: 1}

	sum := a.Add(b)
	assert.Equal(t, Counts{KeysAdded: 1, TranslationsAdded: 3, StatesFixed: 1, OverridesSkipped: 5}, sum)
	assert.Equal(t, 5, sum.Total())
	assert.Contains(t, sum.String(), "3 translations added")
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintSummary(&buf, "Localizable.xcstrings", Counts{TranslationsAdded: 1, OverridesSkipped: 2})
	assert.Equal(t, "Updated Localizable.xcstrings\n"+
		"  translations added:          1\n"+
		"  existing translations kept:  2\n"+
		"Total changes: 1\n", buf.String())

	buf.Reset()
	PrintSummary(&buf, "Localizable.xcstrings", Counts{})
	assert.Equal(t, "No changes needed for Localizable.xcstrings\nTotal changes: 0\n", buf.String())
}

func TestPrintMissing(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintMissing(&buf, "L.xcstrings", []MissingEntry{{Key: "Exporting", Languages: []string{"es", "fr"}}})
	assert.Equal(t, "1 keys in L.xcstrings are missing translations\n  \"Exporting\": [es fr]\n", buf.String())

	buf.Reset()
	PrintMissing(&buf, "L.xcstrings", nil)
	assert.Equal(t, "All keys in L.xcstrings are translated\n", buf.String())
}
