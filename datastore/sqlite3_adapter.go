package datastore

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/xerrors"
)

// Sqlite3Adapter provides support for SQLite3 databases.
type Sqlite3Adapter struct{}

func (s Sqlite3Adapter) EnsureVersionTableExists(db *sqlx.DB) error {
	return ensureVersionTable(db, `CREATE TABLE IF NOT EXISTS "schema_migrations" ("version" INTEGER PRIMARY KEY NOT NULL)`)
}

// PostCreate checks that the connection was opened with foreign keys enabled. They are set per
// connection, so config.DbConfig.ConnectionString puts them in the DSN.
func (s Sqlite3Adapter) PostCreate(db *sqlx.DB) error {
	var fk int
	if err := db.Get(&fk, "PRAGMA foreign_keys"); err != nil {
		return err
	}
	if fk != 1 {
		return xerrors.New("sqlite3 connection opened without _foreign_keys=on")
	}
	return nil
}

func (s Sqlite3Adapter) up() []string {
	return []string{
		// 1
		`
CREATE TABLE "domain" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "name" TEXT UNIQUE
);
CREATE TABLE "language" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "name" TEXT,
    "code" TEXT UNIQUE
);
CREATE TABLE "string" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "name" TEXT,
    "domain_id" INTEGER REFERENCES "domain"("id") ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE INDEX "domain_id" ON "string" ("domain_id");
CREATE UNIQUE INDEX "name_domain_id" ON "string" ("name", "domain_id");
CREATE TABLE "translation" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "language_id" INTEGER REFERENCES "language"("id") ON UPDATE CASCADE ON DELETE CASCADE,
    "content" TEXT NOT NULL DEFAULT '',
    "state" TEXT NOT NULL DEFAULT 'translated',
    "string_id" INTEGER REFERENCES "string"("id") ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE INDEX "string_id" ON "translation" ("string_id");
CREATE UNIQUE INDEX "string_id_language_id" ON "translation" ("language_id", "string_id");
`,
		// 2
		seedLanguagesUp(),
	}
}

func (s Sqlite3Adapter) down() []string {
	return []string{
		// 1
		`
DROP TABLE translation;
DROP TABLE string;
DROP TABLE language;
DROP TABLE domain;
`,
		// 2
		seedLanguagesDown(),
	}
}

func (s Sqlite3Adapter) MigrateUp(db *sqlx.DB) (int64, error) {
	return migrateUp(db, s.up())
}

func (s Sqlite3Adapter) MigrateDown(db *sqlx.DB) (int64, error) {
	return migrateDown(db, s.down())
}

func (s Sqlite3Adapter) SupportsLastInsertId() bool {
	return true
}

func (s Sqlite3Adapter) CreateDomainQuery() string {
	return "INSERT INTO domain (name) VALUES (?)"
}

func (s Sqlite3Adapter) CreateLanguageQuery() string {
	return "INSERT INTO language (code, name) VALUES (?, ?)"
}

func (s Sqlite3Adapter) CreateStringQuery() string {
	return "INSERT INTO string (name, domain_id) VALUES (?, ?)"
}

func (s Sqlite3Adapter) CreateTranslationQuery() string {
	return "INSERT INTO translation (language_id, content, state, string_id) VALUES (?, ?, ?, ?)"
}

func (s Sqlite3Adapter) GetAllDomainsQuery() string {
	return "SELECT name FROM domain ORDER BY name"
}

func (s Sqlite3Adapter) GetAllLanguagesQuery() string {
	return "SELECT id, code, name FROM language ORDER BY code"
}

func (s Sqlite3Adapter) GetSingleDomainQuery() string {
	return "SELECT string.id AS string_id, string.name, translation.language_id AS language_id, language.code, translation.id AS translation_id, translation.content, translation.state FROM string INNER JOIN translation ON string.id = translation.string_id INNER JOIN language ON translation.language_id = language.id WHERE string.domain_id = (SELECT id FROM domain WHERE domain.name = ?) ORDER BY string.name"
}

func (s Sqlite3Adapter) GetSingleDomainIdQuery() string {
	return "SELECT id FROM domain WHERE name=?"
}

func (s Sqlite3Adapter) GetSingleLanguageQuery() string {
	return "SELECT id, name, code FROM language WHERE code=?"
}

func (s Sqlite3Adapter) GetSingleStringIdQuery() string {
	return "SELECT id FROM string WHERE name = ? AND domain_id = ?"
}

func (s Sqlite3Adapter) GetSingleTranslationIdQuery() string {
	return "SELECT id, content, state FROM translation WHERE string_id=? AND language_id=?"
}

func (s Sqlite3Adapter) UpdateTranslationQuery() string {
	return "UPDATE translation SET language_id=?, content=?, state=?, string_id=? WHERE id=?"
}
