/*
Package xcstrings reads and writes Xcode string catalogs (.xcstrings files).

The catalog is kept as ordered JSON objects so that keys and fields come back out in the order
they were read, and fields this package does not understand survive a load/save round trip.
*/
package xcstrings

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/xerrors"
)

// String unit states used by Xcode.
const (
	StateNew         = "new"
	StateTranslated  = "translated"
	StateNeedsReview = "needs_review"
	StateStale       = "stale"
)

// Extraction states used by Xcode.
const (
	ExtractionManual    = "manual"
	ExtractionStale     = "stale"
	ExtractionExtracted = "extracted_with_value"
)

const catalogVersion = "1.0"

type fieldMap = orderedmap.OrderedMap[string, json.RawMessage]

func newFieldMap() *fieldMap {
	return orderedmap.New[string, json.RawMessage]()
}

// Catalog is a whole .xcstrings document.
type Catalog struct {
	SourceLanguage string
	Version        string
	Strings        *orderedmap.OrderedMap[string, *Entry]

	fields          *fieldMap
	trailingNewline bool
}

// New creates an empty catalog.
func New(sourceLanguage string) *Catalog {
	return &Catalog{
		SourceLanguage: sourceLanguage,
		Version:        catalogVersion,
		Strings:        orderedmap.New[string, *Entry](),
	}
}

// Entry returns the entry for key.
func (c *Catalog) Entry(key string) (*Entry, bool) {
	return c.Strings.Get(key)
}

// Keys returns the catalog keys in document order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, c.Strings.Len())
	for pair := c.Strings.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Add inserts or replaces the entry for key. New keys go to their sorted position when the
// catalog is already sorted, and to the end otherwise.
func (c *Catalog) Add(key string, e *Entry) {
	insertSorted(c.Strings, key, e)
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	fields, err := decodeOrdered[json.RawMessage](data)
	if err != nil {
		return err
	}
	c.fields = fields

	if err := getField(fields, "sourceLanguage", &c.SourceLanguage); err != nil {
		return err
	}
	if err := getField(fields, "version", &c.Version); err != nil {
		return err
	}

	c.Strings = orderedmap.New[string, *Entry]()
	if raw, ok := fields.Get("strings"); ok {
		if c.Strings, err = decodeOrdered[*Entry](raw); err != nil {
			return xerrors.Errorf("strings: %w", err)
		}
	}
	for pair := c.Strings.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			pair.Value = &Entry{}
		}
	}

	return nil
}

func (c *Catalog) MarshalJSON() ([]byte, error) {
	if c.fields == nil {
		c.fields = newFieldMap()
	}
	if err := setField(c.fields, "sourceLanguage", c.SourceLanguage); err != nil {
		return nil, err
	}
	strs := c.Strings
	if strs == nil {
		strs = orderedmap.New[string, *Entry]()
	}
	if err := setOrderedField(c.fields, "strings", strs); err != nil {
		return nil, err
	}
	version := c.Version
	if version == "" {
		version = catalogVersion
	}
	if err := setField(c.fields, "version", version); err != nil {
		return nil, err
	}

	return encodeOrdered(c.fields)
}

// Entry is the translation unit for one catalog key.
type Entry struct {
	ExtractionState string
	Localizations   *orderedmap.OrderedMap[string, *Localization]

	comment         string
	shouldTranslate *bool
	fields          *fieldMap
}

// NewEntry creates an entry with the given extraction state and no localizations.
func NewEntry(extractionState string) *Entry {
	return &Entry{
		ExtractionState: extractionState,
		Localizations:   orderedmap.New[string, *Localization](),
	}
}

// Comment returns the developer comment attached to the key.
func (e *Entry) Comment() string {
	return e.comment
}

// ShouldTranslate reports whether the key is meant to be localized at all.
func (e *Entry) ShouldTranslate() bool {
	return e.shouldTranslate == nil || *e.shouldTranslate
}

// Localization returns the localization for lang.
func (e *Entry) Localization(lang string) (*Localization, bool) {
	if e.Localizations == nil {
		return nil, false
	}
	l, ok := e.Localizations.Get(lang)
	return l, ok && l != nil
}

// SetLocalization stores the localization for lang, keeping languages sorted.
func (e *Entry) SetLocalization(lang string, l *Localization) {
	if e.Localizations == nil {
		e.Localizations = orderedmap.New[string, *Localization]()
	}
	insertSorted(e.Localizations, lang, l)
}

// DeleteLocalization removes the localization for lang.
func (e *Entry) DeleteLocalization(lang string) bool {
	if e.Localizations == nil {
		return false
	}
	_, present := e.Localizations.Delete(lang)
	return present
}

// Languages returns the languages the entry has localizations for, in document order.
func (e *Entry) Languages() []string {
	if e.Localizations == nil {
		return nil
	}
	langs := make([]string, 0, e.Localizations.Len())
	for pair := e.Localizations.Oldest(); pair != nil; pair = pair.Next() {
		langs = append(langs, pair.Key)
	}
	return langs
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	fields, err := decodeOrdered[json.RawMessage](data)
	if err != nil {
		return err
	}
	e.fields = fields

	if err := getField(fields, "comment", &e.comment); err != nil {
		return err
	}
	if err := getField(fields, "extractionState", &e.ExtractionState); err != nil {
		return err
	}
	if raw, ok := fields.Get("shouldTranslate"); ok {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return xerrors.Errorf("shouldTranslate: %w", err)
		}
		e.shouldTranslate = &b
	}
	if raw, ok := fields.Get("localizations"); ok {
		if e.Localizations, err = decodeOrdered[*Localization](raw); err != nil {
			return xerrors.Errorf("localizations: %w", err)
		}
	}

	return nil
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	if e.fields == nil {
		e.fields = newFieldMap()
	}
	if e.ExtractionState != "" {
		if err := setField(e.fields, "extractionState", e.ExtractionState); err != nil {
			return nil, err
		}
	}
	if e.Localizations != nil {
		if err := setOrderedField(e.fields, "localizations", e.Localizations); err != nil {
			return nil, err
		}
	}

	return encodeOrdered(e.fields)
}

// Localization is the content of a key in one language.
type Localization struct {
	StringUnit *StringUnit

	fields *fieldMap
}

// NewLocalization creates a localization holding a single string unit.
func NewLocalization(state, value string) *Localization {
	return &Localization{StringUnit: &StringUnit{State: state, Value: value}}
}

// Value returns the string unit's value, or "" when there is none.
func (l *Localization) Value() string {
	if l == nil || l.StringUnit == nil {
		return ""
	}
	return l.StringUnit.Value
}

// State returns the string unit's state, or "" when there is none.
func (l *Localization) State() string {
	if l == nil || l.StringUnit == nil {
		return ""
	}
	return l.StringUnit.State
}

// HasVariations reports whether the localization holds plural/device variations or
// substitutions instead of a plain string unit.
func (l *Localization) HasVariations() bool {
	if l == nil || l.fields == nil {
		return false
	}
	_, variations := l.fields.Get("variations")
	_, substitutions := l.fields.Get("substitutions")
	return variations || substitutions
}

func (l *Localization) UnmarshalJSON(data []byte) error {
	fields, err := decodeOrdered[json.RawMessage](data)
	if err != nil {
		return err
	}
	l.fields = fields

	if _, ok := fields.Get("stringUnit"); ok {
		l.StringUnit = &StringUnit{}
		if err := getField(fields, "stringUnit", l.StringUnit); err != nil {
			return err
		}
	}

	return nil
}

func (l *Localization) MarshalJSON() ([]byte, error) {
	if l.fields == nil {
		l.fields = newFieldMap()
	}
	if l.StringUnit != nil {
		if err := setField(l.fields, "stringUnit", l.StringUnit); err != nil {
			return nil, err
		}
	}

	return encodeOrdered(l.fields)
}

// StringUnit is a plain translated string and its review state.
type StringUnit struct {
	State string
	Value string

	fields *fieldMap
}

func (u *StringUnit) UnmarshalJSON(data []byte) error {
	fields, err := decodeOrdered[json.RawMessage](data)
	if err != nil {
		return err
	}
	u.fields = fields

	if err := getField(fields, "state", &u.State); err != nil {
		return err
	}
	return getField(fields, "value", &u.Value)
}

func (u *StringUnit) MarshalJSON() ([]byte, error) {
	if u.fields == nil {
		u.fields = newFieldMap()
	}
	if err := setField(u.fields, "state", u.State); err != nil {
		return nil, err
	}
	if err := setField(u.fields, "value", u.Value); err != nil {
		return nil, err
	}

	return encodeOrdered(u.fields)
}

func getField(fields *fieldMap, name string, v interface{}) error {
	raw, ok := fields.Get(name)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return xerrors.Errorf("%s: %w", name, err)
	}
	return nil
}

func setField(fields *fieldMap, name string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return xerrors.Errorf("%s: %w", name, err)
	}
	fields.Set(name, raw)
	return nil
}

func setOrderedField[V any](fields *fieldMap, name string, om *orderedmap.OrderedMap[string, V]) error {
	raw, err := encodeOrdered(om)
	if err != nil {
		return xerrors.Errorf("%s: %w", name, err)
	}
	fields.Set(name, raw)
	return nil
}

// decodeOrdered reads a JSON object into an ordered map, keeping the document's key order.
func decodeOrdered[V any](data []byte) (*orderedmap.OrderedMap[string, V], error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, xerrors.Errorf("expected object, got %v", tok)
	}

	om := orderedmap.New[string, V]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, xerrors.Errorf("expected object key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return nil, xerrors.Errorf("%q: %w", key, err)
		}
		om.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return om, nil
}

func encodeOrdered[V any](om *orderedmap.OrderedMap[string, V]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair, first := om.Oldest(), true; pair != nil; pair, first = pair.Next(), false {
		if !first {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, xerrors.Errorf("%q: %w", pair.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func insertSorted[V any](om *orderedmap.OrderedMap[string, V], key string, v V) {
	if _, present := om.Get(key); present {
		om.Set(key, v)
		return
	}

	sorted := true
	prev := ""
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key < prev {
			sorted = false
			break
		}
		prev = pair.Key
	}

	om.Set(key, v)
	if !sorted {
		return
	}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key > key {
			_ = om.MoveBefore(key, pair.Key)
			return
		}
	}
}
