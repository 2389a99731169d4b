package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/xerrors"

	"github.com/petert82/xcstrings-tool/config"
	"github.com/petert82/xcstrings-tool/trans"
	"github.com/petert82/xcstrings-tool/xcstrings"
	"github.com/petert82/xcstrings-tool/xliff"
)

var log = logging.Logger("datastore")

// ErrAlreadyExists is returned when creating something that is already in the database.
var ErrAlreadyExists = errors.New("already exists")

// Adapter provides database-driver-specific query strings, etc.
type Adapter interface {
	PostCreate(*sqlx.DB) error
	EnsureVersionTableExists(*sqlx.DB) error
	MigrateUp(*sqlx.DB) (int64, error)
	MigrateDown(*sqlx.DB) (int64, error)
	SupportsLastInsertId() bool
	CreateDomainQuery() string
	CreateLanguageQuery() string
	CreateStringQuery() string
	CreateTranslationQuery() string
	GetAllDomainsQuery() string
	GetAllLanguagesQuery() string
	GetSingleDomainQuery() string
	GetSingleDomainIdQuery() string
	GetSingleLanguageQuery() string
	GetSingleStringIdQuery() string
	GetSingleTranslationIdQuery() string
	UpdateTranslationQuery() string
}

type DataStore struct {
	adapter     Adapter
	db          *sqlx.DB
	domainCache map[string]int64
	stringCache map[StringKey]int64
	langCache   map[string]trans.Language
	Stats       Stats
}

type StringKey struct {
	DomainId int64
	Name     string
}

type Stats map[StatKey]StatItem

type StatKey struct {
	Name   string
	Action string
}

type StatItem struct {
	Duration time.Duration
	Count    int
}

func (s Stats) Log(name, action string, d time.Duration) {
	item := s[StatKey{Name: name, Action: action}]
	item.Count++
	item.Duration += d
	s[StatKey{Name: name, Action: action}] = item
}

func (s Stats) Count(name, action string) int {
	return s[StatKey{Name: name, Action: action}].Count
}

func (s Stats) String() (out string) {
	for k, v := range s {
		out += fmt.Sprintf("%v  %v '%v' actions took %v total, %v avg\n", v.Count, k.Name, k.Action, v.Duration, v.Duration/time.Duration(v.Count))
	}

	return out
}

// Connect opens the database described by c.
func Connect(c config.DbConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect(c.Driver, c.ConnectionString())
	if err != nil {
		return nil, xerrors.Errorf("connecting to %s database: %w", c.Driver, err)
	}
	return db, nil
}

// Creates a new datastore using the given database connection. The driver parameter is used to
// select the appropriate database adapter, and should be one of the config.DbDriver* constants.
func New(db *sqlx.DB, driver string) (ds *DataStore, err error) {
	adp, err := newAdapter(driver)
	if err != nil {
		return &DataStore{}, err
	}

	ds = &DataStore{
		adapter:     adp,
		db:          db,
		domainCache: make(map[string]int64),
		stringCache: make(map[StringKey]int64),
		langCache:   make(map[string]trans.Language),
		Stats:       make(map[StatKey]StatItem),
	}

	err = ds.adapter.PostCreate(ds.db)
	if err != nil {
		return ds, err
	}

	return ds, nil
}

func newAdapter(driver string) (adp Adapter, err error) {
	switch driver {
	case config.DbDriverSqlite3:
		adp = &Sqlite3Adapter{}
	case config.DbDriverPostgresql:
		adp = &PostgresAdapter{}
	}

	if adp == nil {
		return nil, xerrors.Errorf("no adapter available for database driver '%v'", driver)
	}

	return adp, nil
}

// MigrateUp applies all pending migrations and returns the resulting schema version.
func (ds *DataStore) MigrateUp() (version int64, err error) {
	if err = ds.adapter.EnsureVersionTableExists(ds.db); err != nil {
		return 0, err
	}
	return ds.adapter.MigrateUp(ds.db)
}

// MigrateDown reverts all migrations.
func (ds *DataStore) MigrateDown() (version int64, err error) {
	if err = ds.adapter.EnsureVersionTableExists(ds.db); err != nil {
		return 0, err
	}
	return ds.adapter.MigrateDown(ds.db)
}

type Domain struct {
	name    string
	strings []trans.String
}

func (d *Domain) Name() string {
	return d.name
}
func (d *Domain) SetName(name string) {
	d.name = name
}
func (d *Domain) Strings() []trans.String {
	return d.strings
}

type String struct {
	id           int64
	name         string
	translations map[trans.Language]trans.Translation
}

func (s String) Name() string {
	return s.name
}
func (s String) Translations() map[trans.Language]trans.Translation {
	return s.translations
}

type Translation struct {
	id      int64
	content string
	state   string
}

func (t Translation) Content() string {
	return t.content
}
func (t Translation) State() string {
	return t.state
}

// insert runs an INSERT query and returns the new row's id.
func (ds *DataStore) insert(query string, args ...interface{}) (id int64, err error) {
	if !ds.adapter.SupportsLastInsertId() {
		err = ds.db.QueryRow(query, args...).Scan(&id)
		return id, err
	}

	result, err := ds.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (ds *DataStore) getLanguage(code string) (l trans.Language, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("language", "get", time.Since(start)) }()

	if l, ok := ds.langCache[code]; ok {
		return l, nil
	}

	err = ds.db.Get(&l, ds.adapter.GetSingleLanguageQuery(), code)
	if err != nil {
		if err == sql.ErrNoRows {
			return l, xerrors.Errorf("Language '%v' does not exist in database: %w", code, err)
		}

		return l, err
	}
	ds.langCache[code] = l

	return l, nil
}

func (ds *DataStore) getDomainId(name string) (id int64, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("domain", "get", time.Since(start)) }()

	if id, ok := ds.domainCache[name]; ok {
		return id, nil
	}

	row := ds.db.QueryRow(ds.adapter.GetSingleDomainIdQuery(), name)
	err = row.Scan(&id)
	if err != nil {
		return 0, err
	}
	ds.domainCache[name] = id

	return id, nil
}

func (ds *DataStore) createDomain(name string) (id int64, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("domain", "insert", time.Since(start)) }()

	id, err = ds.insert(ds.adapter.CreateDomainQuery(), name)
	if err != nil {
		return 0, err
	}
	ds.domainCache[name] = id

	return id, nil
}

func (ds *DataStore) createOrGetDomain(name string) (id int64, err error) {
	id, err = ds.getDomainId(name)

	if err == sql.ErrNoRows {
		return ds.createDomain(name)
	}

	return id, err
}

func (ds *DataStore) getStringId(name string, domainId int64) (id int64, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("string", "get", time.Since(start)) }()

	if id, ok := ds.stringCache[StringKey{DomainId: domainId, Name: name}]; ok {
		return id, nil
	}

	row := ds.db.QueryRow(ds.adapter.GetSingleStringIdQuery(), name, domainId)
	err = row.Scan(&id)
	if err != nil {
		return 0, err
	}
	ds.stringCache[StringKey{DomainId: domainId, Name: name}] = id

	return id, nil
}

func (ds *DataStore) createString(name string, domainId int64) (id int64, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("string", "insert", time.Since(start)) }()

	id, err = ds.insert(ds.adapter.CreateStringQuery(), name, domainId)
	if err != nil {
		return 0, err
	}
	ds.stringCache[StringKey{DomainId: domainId, Name: name}] = id

	return id, nil
}

func (ds *DataStore) createOrGetString(name string, domainId int64) (id int64, err error) {
	id, err = ds.getStringId(name, domainId)

	if err == sql.ErrNoRows {
		id, err = ds.createString(name, domainId)
	}

	return id, err
}

func (ds *DataStore) getTranslation(langId int64, stringId int64) (t Translation, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("translation", "get", time.Since(start)) }()

	row := ds.db.QueryRow(ds.adapter.GetSingleTranslationIdQuery(), stringId, langId)
	err = row.Scan(&t.id, &t.content, &t.state)

	return t, err
}

func (ds *DataStore) insertTranslation(t Translation, langId int64, stringId int64) (err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("translation", "insert", time.Since(start)) }()

	_, err = ds.insert(ds.adapter.CreateTranslationQuery(), langId, t.content, t.state, stringId)

	return err
}

func (ds *DataStore) updateTranslation(t Translation, transId int64, langId int64, stringId int64) (err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("translation", "update", time.Since(start)) }()

	_, err = ds.db.Exec(ds.adapter.UpdateTranslationQuery(), langId, t.content, t.state, stringId, transId)

	return err
}

// Gets all available languages
func (ds *DataStore) GetLanguageList() (languages []trans.Language, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("language", "get", time.Since(start)) }()

	err = ds.db.Select(&languages, ds.adapter.GetAllLanguagesQuery())

	return languages, err
}

// Creates a new language. Returns ErrAlreadyExists when the code is already known.
func (ds *DataStore) CreateLanguage(code, name string) (l trans.Language, err error) {
	if _, err = ds.getLanguage(code); err == nil {
		return l, ErrAlreadyExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return l, err
	}

	start := time.Now()
	defer func() { ds.Stats.Log("language", "insert", time.Since(start)) }()

	id, err := ds.insert(ds.adapter.CreateLanguageQuery(), code, name)
	if err != nil {
		return l, err
	}

	return trans.Language{Id: id, Code: code, Name: name}, nil
}

// Gets all available domains. Only populates name of each returned domain
func (ds *DataStore) GetDomainList() (domains []trans.Domain, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("domain", "get", time.Since(start)) }()

	rows, err := ds.db.Query(ds.adapter.GetAllDomainsQuery())
	if err != nil {
		return domains, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return domains, err
		}
		domains = append(domains, &Domain{name: name})
	}

	return domains, rows.Err()
}

// Gets all data for the translation domain with the given name.
// Returns sql.ErrNoRows when the given name cannot be found.
func (ds *DataStore) GetFullDomain(name string) (d trans.Domain, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("domain", "get", time.Since(start)) }()

	var rows []struct {
		StringId      int64  `db:"string_id"`
		Name          string `db:"name"`
		LanguageId    int64  `db:"language_id"`
		Code          string `db:"code"`
		TranslationId int64  `db:"translation_id"`
		Content       string `db:"content"`
		State         string `db:"state"`
	}
	err = ds.db.Select(&rows, ds.adapter.GetSingleDomainQuery(), name)
	if err != nil {
		return d, err
	}

	if len(rows) == 0 {
		return d, sql.ErrNoRows
	}

	dom := Domain{name: name, strings: make([]trans.String, 0)}
	stringIndex := make(map[string]int)

	for _, r := range rows {
		l := trans.Language{Id: r.LanguageId, Code: r.Code}
		t := Translation{id: r.TranslationId, content: r.Content, state: r.State}

		if sIdx, ok := stringIndex[r.Name]; ok {
			dom.strings[sIdx].(*String).translations[l] = t
		} else {
			s := &String{id: r.StringId, name: r.Name, translations: make(map[trans.Language]trans.Translation)}
			s.translations[l] = t
			dom.strings = append(dom.strings, s)
			stringIndex[r.Name] = len(dom.strings) - 1
		}
	}

	return &dom, nil
}

// Updates the translation of the string with the given name to have the given content.
// When allowCreate is false, will return an error if the string does not exist or is not yet
// translated into the given language.
// If allowCreate is true, both the string and translation content for the given language will be
// created if either does not exist.
func (ds *DataStore) CreateOrUpdateTranslation(domainName, stringName, langCode, content, state string, allowCreate bool) (err error) {
	domId, err := ds.getDomainId(domainName)
	if err != nil {
		return err
	}

	var stringId int64
	if allowCreate {
		stringId, err = ds.createOrGetString(stringName, domId)
	} else {
		stringId, err = ds.getStringId(stringName, domId)
	}
	if err != nil {
		return err
	}

	lang, err := ds.getLanguage(langCode)
	if err != nil {
		return err
	}

	t := Translation{content: content, state: state}
	existing, err := ds.getTranslation(lang.Id, stringId)
	switch {
	case err == sql.ErrNoRows && allowCreate:
		err = ds.insertTranslation(t, lang.Id, stringId)
	case err == nil:
		err = ds.updateTranslation(t, existing.id, lang.Id, stringId)
	}

	return err
}

// ImportCatalog mirrors the plain string units of a catalog into the domain called name,
// creating the domain, strings and translations as needed. Languages the database does not
// know are skipped. Returns the number of translations written.
func (ds *DataStore) ImportCatalog(name string, c *xcstrings.Catalog) (count int, err error) {
	domId, err := ds.createOrGetDomain(name)
	if err != nil {
		return 0, err
	}

	skipped := make(map[string]bool)
	for pair := c.Strings.Oldest(); pair != nil; pair = pair.Next() {
		key, e := pair.Key, pair.Value
		if key == "" || !e.ShouldTranslate() {
			continue
		}

		stringId, err := ds.createOrGetString(key, domId)
		if err != nil {
			return count, err
		}

		for _, code := range e.Languages() {
			l, _ := e.Localization(code)
			if l.StringUnit == nil {
				continue
			}

			lang, err := ds.getLanguage(code)
			if errors.Is(err, sql.ErrNoRows) {
				if !skipped[code] {
					log.Warnw("skipping language unknown to the database", "lang", code)
					skipped[code] = true
				}
				continue
			} else if err != nil {
				return count, err
			}

			t := Translation{content: l.Value(), state: l.State()}
			existing, err := ds.getTranslation(lang.Id, stringId)
			switch {
			case err == sql.ErrNoRows:
				err = ds.insertTranslation(t, lang.Id, stringId)
			case err == nil && (existing.content != t.content || existing.state != t.state):
				err = ds.updateTranslation(t, existing.id, lang.Id, stringId)
			case err == nil:
				continue
			}
			if err != nil {
				return count, err
			}
			count++
		}
	}

	return count, nil
}

// ExportDomain writes one XLIFF file per language held by the domain, except sourceLang, to dir.
// Returns the paths written.
func (ds *DataStore) ExportDomain(name, dir, sourceLang string) (paths []string, err error) {
	d, err := ds.GetFullDomain(name)
	if err != nil {
		return nil, err
	}

	langs, err := ds.GetLanguageList()
	if err != nil {
		return nil, err
	}

	for _, l := range langs {
		if l.Code == sourceLang || !domainHasLanguage(d, l.Code) {
			continue
		}
		path, err := xliff.Export(d, sourceLang, l.Code, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func domainHasLanguage(d trans.Domain, code string) bool {
	for _, s := range d.Strings() {
		for l := range s.Translations() {
			if l.Code == code {
				return true
			}
		}
	}
	return false
}
