/*
Package updater fills in missing translations in a string catalog.

UpdateMissingTranslations walks every translatable key and makes sure each kept language has a
value, taking it from a table of maintainer-supplied translations when one exists and from the
source language otherwise. Human translations already in the catalog are never overwritten.
*/
package updater

import (
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/samber/lo"

	"github.com/petert82/xcstrings-tool/trans"
	"github.com/petert82/xcstrings-tool/xcstrings"
)

var log = logging.Logger("updater")

// Options control the parts of an update that are not always wanted.
type Options struct {
	// FillFromSource copies the source language value, marked for review, into languages that
	// have neither a translation nor a table entry. Table keys are always filled.
	FillFromSource bool
	// PruneLanguages removes localizations for languages outside the kept set.
	PruneLanguages bool
}

// DefaultOptions is what the command line tool uses without a config file.
var DefaultOptions = Options{FillFromSource: true}

// Counts tallies the changes made by an update.
type Counts struct {
	KeysAdded            int
	EnglishAdded         int
	TranslationsAdded    int
	TranslationsReplaced int
	FallbacksFilled      int
	StatesFixed          int
	LanguagesRemoved     int
	// OverridesSkipped counts table entries that differ from an existing translation and were
	// left alone. They are not changes.
	OverridesSkipped int
}

// Total is the number of changes made to the catalog.
func (c Counts) Total() int {
	return c.KeysAdded + c.EnglishAdded + c.TranslationsAdded + c.TranslationsReplaced +
		c.FallbacksFilled + c.StatesFixed + c.LanguagesRemoved
}

// Add sums two sets of counts.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		KeysAdded:            c.KeysAdded + o.KeysAdded,
		EnglishAdded:         c.EnglishAdded + o.EnglishAdded,
		TranslationsAdded:    c.TranslationsAdded + o.TranslationsAdded,
		TranslationsReplaced: c.TranslationsReplaced + o.TranslationsReplaced,
		FallbacksFilled:      c.FallbacksFilled + o.FallbacksFilled,
		StatesFixed:          c.StatesFixed + o.StatesFixed,
		LanguagesRemoved:     c.LanguagesRemoved + o.LanguagesRemoved,
		OverridesSkipped:     c.OverridesSkipped + o.OverridesSkipped,
	}
}

func (c Counts) String() string {
	return fmt.Sprintf("%d keys added, %d source localizations added, %d translations added, %d replaced, %d filled from source, %d states fixed, %d languages removed",
		c.KeysAdded, c.EnglishAdded, c.TranslationsAdded, c.TranslationsReplaced, c.FallbacksFilled, c.StatesFixed, c.LanguagesRemoved)
}

type updater struct {
	table  trans.Table
	source string
	langs  []string
	opts   Options
	counts Counts
}

// UpdateMissingTranslations brings every translatable key of c up to date with the kept
// languages, adding the keys of newStrings that the catalog does not have yet.
//
// For each kept language:
//   - a missing or empty value takes the table translation, or else the source value with
//     state needs_review;
//   - a value in state "new" is replaced by the table translation when there is one and is
//     marked translated otherwise;
//   - a needs_review value that is still a copy of the source text is replaced by the table
//     translation;
//   - any other value is kept as is.
//
// Localizations made of variations or substitutions are never touched, and neither are keys
// marked shouldTranslate=false or stale keys that are not in the table.
func UpdateMissingTranslations(c *xcstrings.Catalog, newStrings trans.Table, keep []string, opts Options) Counts {
	u := &updater{
		table:  newStrings,
		source: c.SourceLanguage,
		langs:  lo.Uniq(append([]string{c.SourceLanguage}, keep...)),
		opts:   opts,
	}

	for pair := c.Strings.Oldest(); pair != nil; pair = pair.Next() {
		key, e := pair.Key, pair.Value
		_, inTable := newStrings[key]
		if key == "" {
			continue
		}
		if !e.ShouldTranslate() {
			if inTable {
				log.Warnw("new string is marked shouldTranslate=false in the catalog, leaving it untouched", "key", key)
			}
			continue
		}
		if e.ExtractionState == xcstrings.ExtractionStale && !inTable {
			continue
		}
		u.updateEntry(key, e, inTable)
	}

	for _, key := range newStrings.Keys() {
		if _, ok := c.Entry(key); ok {
			continue
		}
		e := xcstrings.NewEntry(xcstrings.ExtractionManual)
		u.updateEntry(key, e, true)
		c.Add(key, e)
		u.counts.KeysAdded++
		log.Infow("added key", "key", key)
	}

	log.Debugw("update finished", "changes", u.counts.Total())
	return u.counts
}

func (u *updater) updateEntry(key string, e *xcstrings.Entry, inTable bool) {
	sourceValue := u.updateSource(key, e)

	for _, lang := range u.langs {
		if lang == u.source {
			continue
		}
		u.updateLanguage(key, lang, e, sourceValue, inTable)
	}

	if u.opts.PruneLanguages {
		for _, lang := range e.Languages() {
			if !lo.Contains(u.langs, lang) && e.DeleteLocalization(lang) {
				u.counts.LanguagesRemoved++
				log.Debugw("removed language", "key", key, "lang", lang)
			}
		}
	}
}

// updateSource makes sure the source language has a value and returns it.
func (u *updater) updateSource(key string, e *xcstrings.Entry) string {
	l, ok := e.Localization(u.source)
	if ok && l.HasVariations() {
		return key
	}
	if ok && l.Value() != "" {
		if l.State() == xcstrings.StateNew {
			l.StringUnit.State = xcstrings.StateTranslated
			u.counts.StatesFixed++
		}
		return l.Value()
	}

	value := key
	if text, ok := u.table.Lookup(key, u.source); ok {
		value = text
	}
	setUnit(e, u.source, l, xcstrings.StateTranslated, value)
	u.counts.EnglishAdded++

	return value
}

func (u *updater) updateLanguage(key, lang string, e *xcstrings.Entry, sourceValue string, inTable bool) {
	l, ok := e.Localization(lang)
	if ok && l.HasVariations() {
		return
	}
	override, hasOverride := u.table.Lookup(key, lang)

	if !ok || l.Value() == "" {
		switch {
		case hasOverride:
			setUnit(e, lang, l, xcstrings.StateTranslated, override)
			u.counts.TranslationsAdded++
			log.Debugw("added translation", "key", key, "lang", lang)
		case u.opts.FillFromSource || inTable:
			setUnit(e, lang, l, xcstrings.StateNeedsReview, sourceValue)
			u.counts.FallbacksFilled++
			log.Debugw("filled from source", "key", key, "lang", lang)
		}
		return
	}

	switch l.State() {
	case xcstrings.StateNew:
		if hasOverride && override != l.Value() {
			l.StringUnit.Value = override
			l.StringUnit.State = xcstrings.StateTranslated
			u.counts.TranslationsReplaced++
			return
		}
		l.StringUnit.State = xcstrings.StateTranslated
		u.counts.StatesFixed++
	case xcstrings.StateNeedsReview:
		if hasOverride && l.Value() == sourceValue && override != sourceValue {
			l.StringUnit.Value = override
			l.StringUnit.State = xcstrings.StateTranslated
			u.counts.TranslationsReplaced++
			return
		}
		u.skipOverride(key, lang, l, override, hasOverride)
	default:
		u.skipOverride(key, lang, l, override, hasOverride)
	}
}

func (u *updater) skipOverride(key, lang string, l *xcstrings.Localization, override string, hasOverride bool) {
	if hasOverride && override != l.Value() {
		u.counts.OverridesSkipped++
		log.Warnw("keeping existing translation", "key", key, "lang", lang, "existing", l.Value(), "table", override)
	}
}

func setUnit(e *xcstrings.Entry, lang string, l *xcstrings.Localization, state, value string) {
	switch {
	case l == nil:
		e.SetLocalization(lang, xcstrings.NewLocalization(state, value))
	case l.StringUnit == nil:
		l.StringUnit = &xcstrings.StringUnit{State: state, Value: value}
	default:
		l.StringUnit.State = state
		l.StringUnit.Value = value
	}
}
