package datastore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petert82/xcstrings-tool/config"
	"github.com/petert82/xcstrings-tool/xcstrings"
	"github.com/petert82/xcstrings-tool/xliff"
)

const catalog = `{"sourceLanguage": "en", "strings": {
	"": {},
	"Cancel": {"localizations": {
		"de": {"stringUnit": {"state": "translated", "value": "Abbrechen"}},
		"en": {"stringUnit": {"state": "translated", "value": "Cancel"}},
		"it": {"stringUnit": {"state": "translated", "value": "Annulla"}}
	}},
	"FlowDown": {"shouldTranslate": false, "localizations": {
		"en": {"stringUnit": {"state": "translated", "value": "FlowDown"}}
	}},
	"%lld items": {"localizations": {
		"de": {"variations": {"plural": {}}},
		"en": {"stringUnit": {"state": "new", "value": "%lld items"}}
	}}
}}`

func newTestStore(t *testing.T) (*DataStore, *sqlx.DB) {
	t.Helper()
	db, err := Connect(config.DbConfig{
		Driver: config.DbDriverSqlite3,
		File:   filepath.Join(t.TempDir(), "translations.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ds, err := New(db, config.DbDriverSqlite3)
	require.NoError(t, err)
	version, err := ds.MigrateUp()
	require.NoError(t, err)
	require.Equal(t, int64(2), version)

	return ds, db
}

func importTestCatalog(t *testing.T, ds *DataStore) {
	t.Helper()
	c, err := xcstrings.Parse([]byte(catalog))
	require.NoError(t, err)
	count, err := ds.ImportCatalog("Localizable", c)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(nil, "mysql")
	assert.Error(t, err)
}

func TestMigrations(t *testing.T) {
	ds, db := newTestStore(t)

	// Running again is a no-op
	version, err := ds.MigrateUp()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	version, err = ds.MigrateDown()
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	var tables int
	require.NoError(t, db.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='translation'`))
	assert.Zero(t, tables)

	version, err = ds.MigrateUp()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()

	// Hold two connections at once so the pool has to open a second one
	first, err := db.Connx(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := db.Connx(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sqlx.Conn{first, second} {
		var fk int
		require.NoError(t, conn.GetContext(ctx, &fk, "PRAGMA foreign_keys"))
		assert.Equal(t, 1, fk)

		_, err := conn.ExecContext(ctx, `INSERT INTO string (domain_id, name) VALUES (999, 'Orphan')`)
		assert.Error(t, err)
	}
}

func TestNewRejectsSqliteWithoutForeignKeys(t *testing.T) {
	db, err := sqlx.Connect(config.DbDriverSqlite3, filepath.Join(t.TempDir(), "translations.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, config.DbDriverSqlite3)
	assert.Error(t, err)
}

func TestGetLanguageList(t *testing.T) {
	ds, _ := newTestStore(t)

	ls, err := ds.GetLanguageList()
	require.NoError(t, err)

	var codes []string
	for _, l := range ls {
		codes = append(codes, l.Code)
	}
	assert.Equal(t, []string{"de", "en", "es", "fr", "ja", "ko", "zh-Hans"}, codes)
	assert.Equal(t, "German", ls[0].Name)
}

func TestCreateLanguage(t *testing.T) {
	ds, _ := newTestStore(t)

	l, err := ds.CreateLanguage("it", "Italian")
	require.NoError(t, err)
	assert.NotZero(t, l.Id)
	assert.Equal(t, "it", l.Code)

	_, err = ds.CreateLanguage("it", "Italiano")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = ds.CreateLanguage("de", "German")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestImportCatalog(t *testing.T) {
	ds, _ := newTestStore(t)
	importTestCatalog(t, ds)

	doms, err := ds.GetDomainList()
	require.NoError(t, err)
	require.Len(t, doms, 1)
	assert.Equal(t, "Localizable", doms[0].Name())

	d, err := ds.GetFullDomain("Localizable")
	require.NoError(t, err)
	require.Len(t, d.Strings(), 2)
	assert.Equal(t, "%lld items", d.Strings()[0].Name())
	assert.Len(t, d.Strings()[0].Translations(), 1)

	cancel := d.Strings()[1]
	assert.Equal(t, "Cancel", cancel.Name())
	got := make(map[string]string)
	for l, tr := range cancel.Translations() {
		got[l.Code] = tr.Content() + "/" + tr.State()
	}
	assert.Equal(t, map[string]string{"de": "Abbrechen/translated", "en": "Cancel/translated"}, got)

	// Unchanged catalog writes nothing
	c, err := xcstrings.Parse([]byte(catalog))
	require.NoError(t, err)
	count, err := ds.ImportCatalog("Localizable", c)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NotZero(t, ds.Stats.Count("translation", "insert"))
	assert.NotEmpty(t, ds.Stats.String())
}

func TestGetFullDomainUnknown(t *testing.T) {
	ds, _ := newTestStore(t)

	_, err := ds.GetFullDomain("Missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateOrUpdateTranslation(t *testing.T) {
	ds, _ := newTestStore(t)
	importTestCatalog(t, ds)

	err := ds.CreateOrUpdateTranslation("Localizable", "Cancel", "es", "Cancelar", "translated", false)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	err = ds.CreateOrUpdateTranslation("Localizable", "Done", "de", "Fertig", "translated", false)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	err = ds.CreateOrUpdateTranslation("Missing", "Cancel", "de", "Abbrechen", "translated", true)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, ds.CreateOrUpdateTranslation("Localizable", "Cancel", "es", "Cancelar", "translated", true))
	require.NoError(t, ds.CreateOrUpdateTranslation("Localizable", "Cancel", "de", "Abbruch", "needs_review", false))
	require.NoError(t, ds.CreateOrUpdateTranslation("Localizable", "Done", "de", "Fertig", "translated", true))

	d, err := ds.GetFullDomain("Localizable")
	require.NoError(t, err)
	got := make(map[string]string)
	for _, s := range d.Strings() {
		for l, tr := range s.Translations() {
			got[s.Name()+"/"+l.Code] = tr.Content() + "/" + tr.State()
		}
	}
	assert.Equal(t, "Cancelar/translated", got["Cancel/es"])
	assert.Equal(t, "Abbruch/needs_review", got["Cancel/de"])
	assert.Equal(t, "Fertig/translated", got["Done/de"])
}

func TestExportDomain(t *testing.T) {
	ds, _ := newTestStore(t)
	importTestCatalog(t, ds)
	require.NoError(t, ds.CreateOrUpdateTranslation("Localizable", "Cancel", "es", "Cancelar", "translated", true))
	dir := t.TempDir()

	paths, err := ds.ExportDomain("Localizable", dir, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Localizable.de.xliff"),
		filepath.Join(dir, "Localizable.es.xliff"),
	}, paths)

	x, err := xliff.NewFromFile(paths[1])
	require.NoError(t, err)
	require.Len(t, x.Files[0].XliffTranslations, 2)
	assert.Equal(t, "%lld items", x.Files[0].XliffTranslations[0].Source)
	assert.Nil(t, x.Files[0].XliffTranslations[0].Target)
	assert.Equal(t, "Cancel", x.Files[0].XliffTranslations[1].Source)
	assert.Equal(t, "Cancelar", x.Files[0].XliffTranslations[1].Target.Content)

	_, err = ds.ExportDomain("Missing", dir, "en")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
