package datastore

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresAdapter provides support for PostgreSQL databases.
type PostgresAdapter struct{}

func (a PostgresAdapter) EnsureVersionTableExists(db *sqlx.DB) error {
	return ensureVersionTable(db, `CREATE TABLE IF NOT EXISTS schema_migrations (version integer PRIMARY KEY NOT NULL)`)
}

func (a PostgresAdapter) PostCreate(db *sqlx.DB) (err error) {
	return nil
}

func (a PostgresAdapter) up() []string {
	return []string{
		// 1
		`
CREATE TABLE domain (
    id SERIAL PRIMARY KEY,
    name varchar UNIQUE
);
CREATE TABLE language (
    id SERIAL PRIMARY KEY,
    name varchar,
    code varchar UNIQUE
);
CREATE TABLE string (
    id SERIAL PRIMARY KEY,
    name varchar,
    domain_id integer REFERENCES domain(id) ON DELETE CASCADE ON UPDATE CASCADE
);
CREATE INDEX domain_id_idx ON string (domain_id);
CREATE UNIQUE INDEX name_domain_idx ON string (name, domain_id);
CREATE TABLE translation (
    id SERIAL PRIMARY KEY,
    language_id integer REFERENCES language(id) ON DELETE CASCADE ON UPDATE CASCADE,
    content TEXT NOT NULL DEFAULT '',
    state varchar NOT NULL DEFAULT 'translated',
    string_id integer REFERENCES string(id) ON DELETE CASCADE ON UPDATE CASCADE
);
CREATE INDEX string_id_idx ON translation (string_id);
CREATE UNIQUE INDEX string_id_language_id_idx ON translation (language_id, string_id);`,
		// 2
		seedLanguagesUp(),
	}
}

func (a PostgresAdapter) down() []string {
	return []string{
		// 1
		`
DROP TABLE IF EXISTS translation;
DROP TABLE IF EXISTS string;
DROP TABLE IF EXISTS language;
DROP TABLE IF EXISTS domain;
`,
		// 2
		seedLanguagesDown(),
	}
}

func (a PostgresAdapter) MigrateUp(db *sqlx.DB) (int64, error) {
	return migrateUp(db, a.up())
}

func (a PostgresAdapter) MigrateDown(db *sqlx.DB) (int64, error) {
	return migrateDown(db, a.down())
}

func (a PostgresAdapter) SupportsLastInsertId() bool {
	return false
}

func (a PostgresAdapter) CreateDomainQuery() string {
	return `INSERT INTO domain (name) VALUES ($1) RETURNING id;`
}

func (a PostgresAdapter) CreateLanguageQuery() string {
	return `INSERT INTO language (code, name) VALUES ($1, $2) RETURNING id;`
}

func (a PostgresAdapter) CreateStringQuery() string {
	return `INSERT INTO string (name, domain_id) VALUES ($1, $2) RETURNING id;`
}

func (a PostgresAdapter) CreateTranslationQuery() string {
	return `INSERT INTO translation (language_id, content, state, string_id) VALUES ($1, $2, $3, $4) RETURNING id;`
}

func (a PostgresAdapter) GetAllDomainsQuery() string {
	return `SELECT name FROM domain ORDER BY name;`
}

func (a PostgresAdapter) GetAllLanguagesQuery() string {
	return `SELECT id, code, name FROM language ORDER BY code;`
}

func (a PostgresAdapter) GetSingleDomainQuery() string {
	return `SELECT string.id AS string_id, string.name, translation.language_id AS language_id, language.code, translation.id AS translation_id, translation.content, translation.state FROM string INNER JOIN translation ON string.id = translation.string_id INNER JOIN language ON translation.language_id = language.id WHERE string.domain_id = (SELECT id FROM domain WHERE domain.name = $1) ORDER BY string.name;`
}

func (a PostgresAdapter) GetSingleDomainIdQuery() string {
	return `SELECT id FROM domain WHERE name=$1;`
}

func (a PostgresAdapter) GetSingleLanguageQuery() string {
	return `SELECT id, name, code FROM language WHERE code=$1;`
}

func (a PostgresAdapter) GetSingleStringIdQuery() string {
	return `SELECT id FROM string WHERE name = $1 AND domain_id = $2;`
}

func (a PostgresAdapter) GetSingleTranslationIdQuery() string {
	return `SELECT id, content, state FROM translation WHERE string_id=$1 AND language_id=$2;`
}

func (a PostgresAdapter) UpdateTranslationQuery() string {
	return `UPDATE translation SET language_id=$1, content=$2, state=$3, string_id=$4 WHERE id=$5;`
}
