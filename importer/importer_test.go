package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petert82/xcstrings-tool/trans"
	"github.com/petert82/xcstrings-tool/updater"
	"github.com/petert82/xcstrings-tool/xcstrings"
	"github.com/petert82/xcstrings-tool/xliff"
)

var keep = []string{"en", "de", "es"}

func writeXliff(t *testing.T, dir, domain, lang string, units ...xliff.XliffTranslation) {
	t.Helper()
	_, err := xliff.New(domain, domain+".xcstrings", "en", lang, units).WriteFile(dir)
	require.NoError(t, err)
}

func unit(id, target string) xliff.XliffTranslation {
	return xliff.XliffTranslation{Id: id, Source: id, Target: &xliff.XliffTarget{State: "translated", Content: target}}
}

func TestDomainName(t *testing.T) {
	assert.Equal(t, "Localizable", DomainName(filepath.FromSlash("FlowDown/Resources/Localizable.xcstrings")))
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeXliff(t, dir, "Localizable", "de", unit("Cancel", "Abbrechen"), xliff.XliffTranslation{Id: "Zoom", Source: "Zoom"})
	writeXliff(t, dir, "Localizable", "es", unit("Cancel", "Cancelar"))
	writeXliff(t, dir, "Localizable", "it", unit("Cancel", "Annulla"))
	writeXliff(t, dir, "InfoPlist", "de", unit("CFBundleName", "FlowDown"))

	table, files, err := ReadDir(dir, "Localizable", keep)
	require.NoError(t, err)
	assert.Equal(t, []string{"Localizable.de.xliff", "Localizable.es.xliff"}, files)
	assert.Equal(t, trans.Table{"Cancel": {"de": "Abbrechen", "es": "Cancelar"}}, table)
}

func TestReadDirFailsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Localizable.de.xliff"), []byte("<xliff"), 0644))

	_, _, err := ReadDir(dir, "Localizable", keep)
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "Localizable.xcstrings")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`{"sourceLanguage": "en", "strings": {
		"Cancel": {"localizations": {
			"en": {"stringUnit": {"state": "translated", "value": "Cancel"}},
			"de": {"stringUnit": {"state": "translated", "value": "Abbrechen"}}
		}}
	}, "version": "1.0"}`), 0644))
	xliffDir := filepath.Join(dir, "in")
	writeXliff(t, xliffDir, "Localizable", "es", unit("Cancel", "Cancelar"))

	counts, err := Import(xliffDir, catalogPath, keep, updater.Options{})
	require.NoError(t, err)
	assert.Equal(t, updater.Counts{TranslationsAdded: 1}, counts)

	c, err := xcstrings.Load(catalogPath)
	require.NoError(t, err)
	e, _ := c.Entry("Cancel")
	es, ok := e.Localization("es")
	require.True(t, ok)
	assert.Equal(t, "Cancelar", es.Value())

	counts, err = Import(xliffDir, catalogPath, keep, updater.Options{})
	require.NoError(t, err)
	assert.Zero(t, counts.Total())
}

func TestImportWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := Import(dir, filepath.Join(dir, "Localizable.xcstrings"), keep, updater.Options{})
	assert.Error(t, err)
}

func TestImportReadsOnlyTheCatalogsFileElement(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "Localizable.xcstrings")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`{"sourceLanguage": "en", "strings": {
		"Exporting": {"localizations": {
			"en": {"stringUnit": {"state": "translated", "value": "Exporting"}}
		}}
	}, "version": "1.0"}`), 0644))

	xliffDir := filepath.Join(dir, "in")
	require.NoError(t, os.MkdirAll(xliffDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(xliffDir, "Localizable.ja.xliff"), []byte(`<?xml version="1.0" encoding="UTF-8"?>
<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" version="1.2">
  <file original="FlowDown/Resources/Localizable.xcstrings" source-language="en" target-language="ja" datatype="plaintext">
    <body>
      <trans-unit id="Exporting">
        <source>Exporting</source>
        <target state="translated">書き出し中</target>
      </trans-unit>
      <trans-unit id="Removed Since Export">
        <source>Removed Since Export</source>
        <target state="translated">削除済み</target>
      </trans-unit>
    </body>
  </file>
  <file original="FlowDown/Resources/InfoPlist.xcstrings" source-language="en" target-language="ja" datatype="plaintext">
    <body>
      <trans-unit id="CFBundleDisplayName">
        <source>FlowDown</source>
        <target state="translated">フローダウン</target>
      </trans-unit>
    </body>
  </file>
</xliff>
`), 0644))

	table, files, err := ReadDir(xliffDir, "Localizable", []string{"en", "ja"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Localizable.ja.xliff"}, files)
	assert.Equal(t, trans.Table{
		"Exporting":            {"ja": "書き出し中"},
		"Removed Since Export": {"ja": "削除済み"},
	}, table)

	counts, err := Import(xliffDir, catalogPath, []string{"en", "ja"}, updater.Options{})
	require.NoError(t, err)
	assert.Equal(t, updater.Counts{TranslationsAdded: 1}, counts)

	c, err := xcstrings.Load(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Exporting"}, c.Keys())
	e, _ := c.Entry("Exporting")
	ja, ok := e.Localization("ja")
	require.True(t, ok)
	assert.Equal(t, "書き出し中", ja.Value())
}
