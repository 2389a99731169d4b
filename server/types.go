package server

import (
	"github.com/samber/lo"

	"github.com/petert82/xcstrings-tool/trans"
)

// domainView is a stored domain in string catalog terms: each key carries its localizations as
// state/value units, the way an .xcstrings stringUnit does.
type domainView struct {
	Name    string       `json:"name"`
	Strings []stringView `json:"strings"`
}

type stringView struct {
	Key           string              `json:"key"`
	Localizations map[string]unitView `json:"localizations"`
	// Known languages without a translation for the key
	Missing []string `json:"missing"`
}

type unitView struct {
	State string `json:"state"`
	Value string `json:"value"`
}

func newDomainView(d trans.Domain, langs []trans.Language) domainView {
	codes := lo.Map(langs, func(l trans.Language, _ int) string { return l.Code })

	v := domainView{Name: d.Name(), Strings: make([]stringView, 0, len(d.Strings()))}
	for _, s := range d.Strings() {
		sv := stringView{Key: s.Name(), Localizations: make(map[string]unitView)}
		for l, t := range s.Translations() {
			sv.Localizations[l.Code] = unitView{State: t.State(), Value: t.Content()}
		}
		sv.Missing = lo.Filter(codes, func(code string, _ int) bool {
			_, ok := sv.Localizations[code]
			return !ok
		})
		v.Strings = append(v.Strings, sv)
	}

	return v
}
