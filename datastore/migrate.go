package datastore

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"golang.org/x/xerrors"
)

// Languages seeded by the second migration, matching the languages the catalog keeps.
var seedLanguages = [][2]string{
	{"de", "German"},
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"zh-Hans", "Chinese (Simplified)"},
}

func seedLanguagesUp() string {
	q := "INSERT INTO language (code, name) VALUES"
	for i, l := range seedLanguages {
		if i > 0 {
			q += ","
		}
		q += "\n    ('" + l[0] + "', '" + l[1] + "')"
	}
	return q + ";"
}

func seedLanguagesDown() string {
	q := "DELETE FROM language WHERE code IN ("
	for i, l := range seedLanguages {
		if i > 0 {
			q += ", "
		}
		q += "'" + l[0] + "'"
	}
	return q + ");"
}

func ensureVersionTable(db *sqlx.DB, create string) (err error) {
	_, err = db.Exec(create)
	if err != nil {
		return err
	}

	var count int
	err = db.Get(&count, `SELECT COUNT(*) FROM schema_migrations`)
	if err != nil {
		return err
	}
	switch {
	case count == 0:
		_, err = db.Exec(`INSERT INTO schema_migrations (version) VALUES (0)`)
	case count > 1:
		err = xerrors.New("too many rows in schema_migrations table")
	}

	return err
}

func migrateUp(db *sqlx.DB, up []string) (version int64, err error) {
	startVer, err := schemaVersion(db)
	if err != nil {
		return version, err
	}

	for i, query := range up {
		migTo := int64(i + 1)
		if migTo <= startVer {
			version = migTo
			continue
		}

		log.Infow("applying migration", "version", migTo)
		_, err = db.Exec(query)
		if err != nil {
			return version, xerrors.Errorf("migration %d: %w", migTo, err)
		}

		err = setSchemaVersion(db, migTo)
		if err != nil {
			return version, err
		}

		version = migTo
	}

	return version, err
}

func migrateDown(db *sqlx.DB, down []string) (version int64, err error) {
	startVer, err := schemaVersion(db)
	if err != nil {
		return version, err
	}

	version = startVer
	for i := len(down) - 1; i >= 0; i-- {
		migVer := int64(i + 1) // The version of the Down migration we will apply
		migTo := int64(i)      // The version we will end up at

		// Skip migrations for newer versions
		if migVer > startVer {
			continue
		}

		log.Infow("reverting migration", "version", migVer)
		_, err = db.Exec(down[i])
		if err != nil {
			return version, xerrors.Errorf("migration %d: %w", migVer, err)
		}

		err = setSchemaVersion(db, migTo)
		if err != nil {
			return version, err
		}

		version = migTo
	}

	return version, err
}

func schemaVersion(db *sqlx.DB) (version int64, err error) {
	err = db.Get(&version, `SELECT version FROM schema_migrations`)
	switch {
	case err == sql.ErrNoRows:
		return 0, nil
	case err != nil:
		return 0, err
	default:
		return version, nil
	}
}

func setSchemaVersion(db *sqlx.DB, version int64) (err error) {
	_, err = db.Exec(db.Rebind(`UPDATE schema_migrations SET version = ?`), version)

	return err
}
