/*
Package config implements TOML config file handling for the catalog tool.

Normally it will be used by simply passing a config file name to the Load function to obtain a
Config struct. Every setting has a default, so the tool also runs without a config file.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/multierr"
	"golang.org/x/xerrors"

	"github.com/petert82/xcstrings-tool/xcstrings"
)

const (
	DbDriverSqlite3    = "sqlite3"
	DbDriverPostgresql = "postgres"
)

// DefaultFile is the config file looked for when none is given.
var DefaultFile = filepath.FromSlash("./xcstrings-tool.toml")

// Config represents the parsed configuration for the catalog tool.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Log     LogConfig     `toml:"log"`
	DB      DbConfig      `toml:"database"`
	Server  ServerConfig  `toml:"server"`
	XLIFF   XliffConfig   `toml:"xliff"`
}

// CatalogConfig controls which catalog is updated and how.
type CatalogConfig struct {
	// Catalog used when no file is given on the command line
	Path string `toml:"path"`
	// Copy source text, marked for review, into languages with no translation
	FillFromSource bool `toml:"fill_from_source"`
	// Drop localizations for languages that are not kept
	PruneLanguages bool `toml:"prune_languages"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level string `toml:"level"`
}

// DbConfig contains Database connection configuration.
type DbConfig struct {
	// One of the DbDriver* constants
	Driver string
	// When driver is sqlite3, this is the path to the database file
	File     string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port that the server should run on.
	Port int
}

// XliffConfig contains XLIFF import/export configuration.
type XliffConfig struct {
	// Path to import XLIFF files from
	ImportPath string `toml:"import_path"`
	// Path to export XLIFF files to
	ExportPath string `toml:"export_path"`
}

// valid checks if the Config is valid in its current state, reporting every problem found.
func (c *Config) valid() (err error) {
	if len(c.Catalog.Path) == 0 {
		err = multierr.Append(err, xerrors.New("config: missing catalog.path value"))
	}
	if _, lerr := logging.LevelFromString(c.Log.Level); lerr != nil {
		err = multierr.Append(err, xerrors.Errorf("config: invalid log.level value '%v'", c.Log.Level))
	}

	switch c.DB.Driver {
	case DbDriverSqlite3:
		if len(c.DB.File) == 0 {
			err = multierr.Append(err, xerrors.New("config: missing database.file value"))
		}
	case DbDriverPostgresql:
		if len(c.DB.Host) == 0 {
			err = multierr.Append(err, xerrors.New("config: missing database.host value"))
		}
		if len(c.DB.Name) == 0 {
			err = multierr.Append(err, xerrors.New("config: missing database.name value"))
		}
		if len(c.DB.User) == 0 {
			err = multierr.Append(err, xerrors.New("config: missing database.user value"))
		}
		if c.DB.Port < 0 {
			err = multierr.Append(err, xerrors.New("config: invalid database.port value"))
		}
	default:
		drivers := []string{DbDriverPostgresql, DbDriverSqlite3}
		err = multierr.Append(err, xerrors.Errorf("config: invalid database.driver value. (Must be one of: '%v')", strings.Join(drivers, ", ")))
	}

	if c.Server.Port < 0 {
		err = multierr.Append(err, xerrors.New("config: server.port is invalid"))
	}
	if len(c.XLIFF.ImportPath) == 0 {
		err = multierr.Append(err, xerrors.New("config: missing xliff.import_path value"))
	}
	if len(c.XLIFF.ExportPath) == 0 {
		err = multierr.Append(err, xerrors.New("config: missing xliff.export_path value"))
	}

	return err
}

// Gets a connection string for this config.
func (d *DbConfig) ConnectionString() string {
	cStr := ""
	switch d.Driver {
	case DbDriverPostgresql:
		cStr = fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
	case DbDriverSqlite3:
		// Pragmas go in the DSN so that every pooled connection gets them
		cStr = d.File + "?_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return cStr
}

// Default returns a Config holding the default values.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Path:           xcstrings.DefaultPath,
			FillFromSource: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		DB: DbConfig{
			Driver: DbDriverSqlite3,
			File:   filepath.FromSlash("./translations.db"),
			Port:   5432, // Postgres default port
		},
		Server: ServerConfig{
			Port: 8181,
		},
		XLIFF: XliffConfig{
			ImportPath: filepath.FromSlash("./xliff-in"),
			ExportPath: filepath.FromSlash("./xliff-out"),
		},
	}
}

// Loads config from a TOML file and checks its validity. When optional is true a missing file
// is not an error and the defaults are used.
func Load(file string, optional bool) (Config, error) {
	conf := Default()
	_, err := toml.DecodeFile(file, &conf)
	switch {
	case err != nil && optional && os.IsNotExist(err):
	case err != nil:
		return conf, xerrors.Errorf("config: %w", err)
	}

	if err = conf.valid(); err != nil {
		return conf, err
	}

	return conf, nil
}
