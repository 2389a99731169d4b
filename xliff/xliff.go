/*
Package xliff reads and writes XLIFF 1.2 files in the shape Xcode uses when exporting
localizations, one file per domain and target language named "<domain>.<lang>.xliff".
*/
package xliff

import (
	"encoding/xml"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"github.com/petert82/xcstrings-tool/trans"
	"github.com/petert82/xcstrings-tool/xcstrings"
)

const (
	namespace = "urn:oasis:names:tc:xliff:document:1.2"
	version   = "1.2"
	toolId    = "xcstrings-tool"
)

type Xliff struct {
	XMLName xml.Name    `xml:"xliff"`
	Xmlns   string      `xml:"xmlns,attr,omitempty"`
	Version string      `xml:"version,attr"`
	Files   []XliffFile `xml:"file"`

	name string
	lang string
}

// Name is the domain given by the file name, or the domain of the only file element when the
// file name carries no domain.
func (x *Xliff) Name() string {
	if x.name == "" && len(x.Files) == 1 {
		return x.Files[0].Name()
	}
	return x.name
}

// Language is the target language of every file element.
func (x *Xliff) Language() string {
	return x.lang
}

// File returns the file element holding domain.
func (x *Xliff) File(domain string) (*XliffFile, bool) {
	for i := range x.Files {
		if x.Files[i].Name() == domain {
			return &x.Files[i], true
		}
	}
	return nil, false
}

// Table returns the non-empty targets of the file elements holding domain.
func (x *Xliff) Table(domain string) trans.Table {
	t := make(trans.Table)
	for _, f := range x.Files {
		if f.Name() == domain {
			t.Merge(f.Table())
		}
	}
	return t
}

type XliffFile struct {
	XliffDomain
	DataType string      `xml:"datatype,attr"`
	Original string      `xml:"original,attr"`
	Header   XliffHeader `xml:"header"`
}

type XliffHeader struct {
	Tool XliffTool `xml:"tool"`
	Note string    `xml:"note,omitempty"`
}

type XliffTool struct {
	Id      string `xml:"tool-id,attr"`
	Name    string `xml:"tool-name,attr"`
	Version string `xml:"tool-version,attr,omitempty"`
}

type XliffDomain struct {
	name              string
	SourceLang        string             `xml:"source-language,attr"`
	TargetLang        string             `xml:"target-language,attr"`
	XliffTranslations []XliffTranslation `xml:"body>trans-unit"`
}

func (xd XliffDomain) Name() string {
	return xd.name
}
func (xd *XliffDomain) SetName(name string) {
	xd.name = name
}
func (xd XliffDomain) Language() string {
	return xd.TargetLang
}

// Table returns the non-empty targets of the domain keyed by trans-unit id.
func (xd XliffDomain) Table() trans.Table {
	t := make(trans.Table)
	for _, xt := range xd.XliffTranslations {
		if xt.Target == nil || xt.Target.Content == "" || xt.Id == "" {
			continue
		}
		t.Set(xt.Id, xd.TargetLang, xt.Target.Content)
	}

	return t
}

type XliffTranslation struct {
	Id     string       `xml:"id,attr"`
	Source string       `xml:"source"`
	Target *XliffTarget `xml:"target,omitempty"`
	Note   string       `xml:"note,omitempty"`
}

type XliffTarget struct {
	State   string `xml:"state,attr,omitempty"`
	Content string `xml:",chardata"`
}

// infoFromFilename accepts "<domain>.<lang>.xliff" and Xcode's own "<lang>.xliff".
func infoFromFilename(filename string) (name string, lang string, err error) {
	parts := strings.Split(filename, ".")
	switch {
	case len(parts) == 3 && parts[2] == "xliff":
		name, lang = parts[0], parts[1]
	case len(parts) == 2 && parts[1] == "xliff":
		lang = parts[0]
	default:
		return "", "", xerrors.Errorf("Language missing from filename '%v'", filename)
	}
	if err := trans.ValidateLanguages([]string{lang}); err != nil {
		return "", "", xerrors.Errorf("filename '%v': %w", filename, err)
	}

	return name, lang, nil
}

// domainFromOriginal is the base name without extension of a file element's original path.
func domainFromOriginal(original string) string {
	base := path.Base(filepath.ToSlash(original))
	return strings.TrimSuffix(base, path.Ext(base))
}

// FileName is the name of the XLIFF file holding domain in lang.
func FileName(domain, lang string) string {
	return domain + "." + lang + ".xliff"
}

// Creates a new Xliff from the file at the given path. Every file element must target the
// language named by the file name. File elements are named after their original path, falling
// back to the domain in the file name.
func NewFromFile(file string) (xliff *Xliff, err error) {
	name, expectLang, err := infoFromFilename(filepath.Base(file))
	if err != nil {
		return nil, err
	}

	xliffData, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	xliff = &Xliff{}
	err = xml.Unmarshal(xliffData, xliff)
	if err != nil {
		return nil, xerrors.Errorf("%v: %w", file, err)
	}

	for i := range xliff.Files {
		f := &xliff.Files[i]
		if f.Language() != expectLang {
			return nil, xerrors.Errorf(
				"Found language %v but expected %v based on filename '%v'",
				f.Language(),
				expectLang,
				file)
		}
		domain := name
		if f.Original != "" {
			domain = domainFromOriginal(f.Original)
		}
		f.SetName(domain)
	}
	xliff.name = name
	xliff.lang = expectLang

	return xliff, nil
}

// New creates an Xliff for the given domain and language pair.
func New(domain, original, sourceLang, targetLang string, units []XliffTranslation) *Xliff {
	f := XliffFile{
		XliffDomain: XliffDomain{
			SourceLang:        sourceLang,
			TargetLang:        targetLang,
			XliffTranslations: units,
		},
		DataType: "plaintext",
		Original: original,
		Header: XliffHeader{
			Tool: XliffTool{Id: toolId, Name: toolId},
		},
	}
	f.SetName(domain)

	return &Xliff{
		Xmlns:   namespace,
		Version: version,
		Files:   []XliffFile{f},
		name:    domain,
		lang:    targetLang,
	}
}

// WriteFile writes x into dir as "<domain>.<lang>.xliff" and returns the path written.
func (x *Xliff) WriteFile(dir string) (string, error) {
	if x.Name() == "" {
		return "", xerrors.New("xliff: domain name not set")
	}

	out, err := xml.MarshalIndent(x, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	file := filepath.Join(dir, FileName(x.Name(), x.Language()))
	data := append([]byte(xml.Header), out...)
	data = append(data, '\n')
	if err := os.WriteFile(file, data, 0644); err != nil {
		return "", err
	}

	return file, nil
}

// FromCatalog builds the XLIFF document translating the catalog into lang. Keys that are not
// translated, and localizations made of variations, are left out.
func FromCatalog(domain string, c *xcstrings.Catalog, lang string) *Xliff {
	var units []XliffTranslation
	for pair := c.Strings.Oldest(); pair != nil; pair = pair.Next() {
		key, e := pair.Key, pair.Value
		if key == "" || !e.ShouldTranslate() {
			continue
		}

		source := key
		if l, ok := e.Localization(c.SourceLanguage); ok && l.Value() != "" {
			source = l.Value()
		}
		unit := XliffTranslation{Id: key, Source: source, Note: e.Comment()}
		if l, ok := e.Localization(lang); ok {
			if l.HasVariations() {
				continue
			}
			if l.Value() != "" {
				unit.Target = &XliffTarget{State: l.State(), Content: l.Value()}
			}
		}
		units = append(units, unit)
	}

	return New(domain, domain+".xcstrings", c.SourceLanguage, lang, units)
}

// Export writes the translations of d into targetLang as an XLIFF file in dir.
func Export(d trans.Domain, sourceLang, targetLang string, dir string) (string, error) {
	strs := d.Strings()
	sort.Slice(strs, func(i, j int) bool { return strs[i].Name() < strs[j].Name() })

	units := make([]XliffTranslation, 0, len(strs))
	for _, s := range strs {
		unit := XliffTranslation{Id: s.Name(), Source: s.Name()}
		for l, t := range s.Translations() {
			switch l.Code {
			case sourceLang:
				if t.Content() != "" {
					unit.Source = t.Content()
				}
			case targetLang:
				if t.Content() != "" {
					unit.Target = &XliffTarget{State: t.State(), Content: t.Content()}
				}
			}
		}
		units = append(units, unit)
	}

	return New(d.Name(), d.Name()+".xcstrings", sourceLang, targetLang, units).WriteFile(dir)
}
