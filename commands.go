package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/petert82/xcstrings-tool/datastore"
	"github.com/petert82/xcstrings-tool/importer"
	"github.com/petert82/xcstrings-tool/server"
	"github.com/petert82/xcstrings-tool/trans"
	"github.com/petert82/xcstrings-tool/updater"
	"github.com/petert82/xcstrings-tool/xcstrings"
	"github.com/petert82/xcstrings-tool/xliff"
)

var updateCmd = &cli.Command{
	Name:      "update",
	Usage:     "Add new strings and fill in missing translations, then save the catalog",
	ArgsUsage: "[file_path]",
	Action:    updateAction,
}

func updateAction(cctx *cli.Context) error {
	conf := getConfig(cctx)
	path := catalogPath(cctx, conf)

	counts, err := runUpdate(path, newStrings, trans.DefaultKeepLanguages, updateOptions(conf))
	if err != nil {
		return err
	}

	updater.PrintSummary(cctx.App.Writer, path, counts)
	return nil
}

// runUpdate applies table to the catalog at path. The catalog is only written when something
// changed, and never when loading it failed.
func runUpdate(path string, table trans.Table, keep []string, opts updater.Options) (updater.Counts, error) {
	if err := table.Validate(keep); err != nil {
		return updater.Counts{}, xerrors.Errorf("new strings: %w", err)
	}

	c, err := xcstrings.Load(path)
	if err != nil {
		return updater.Counts{}, err
	}

	counts := updater.UpdateMissingTranslations(c, table, keep, opts)
	if counts.Total() == 0 {
		log.Infow("catalog already up to date", "path", path)
		return counts, nil
	}

	if err := xcstrings.Save(path, c); err != nil {
		return counts, err
	}
	log.Infow("saved catalog", "path", path, "changes", counts.Total())

	return counts, nil
}

var checkCmd = &cli.Command{
	Name:      "check",
	Usage:     "List keys that are missing translations for the kept languages",
	ArgsUsage: "[file_path]",
	Action: func(cctx *cli.Context) error {
		path := catalogPath(cctx, getConfig(cctx))

		c, err := xcstrings.Load(path)
		if err != nil {
			return err
		}

		missing := updater.Missing(c, trans.DefaultKeepLanguages)
		updater.PrintMissing(cctx.App.Writer, path, missing)
		if len(missing) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	},
}

var exportCmd = &cli.Command{
	Name:      "export",
	Usage:     "Write one XLIFF file per kept language to the xliff export_path",
	ArgsUsage: "[file_path]",
	Action: func(cctx *cli.Context) error {
		conf := getConfig(cctx)
		path := catalogPath(cctx, conf)

		c, err := xcstrings.Load(path)
		if err != nil {
			return err
		}

		domain := importer.DomainName(path)
		langs := lo.Without(trans.DefaultKeepLanguages, c.SourceLanguage)
		for _, lang := range langs {
			file, err := xliff.FromCatalog(domain, c, lang).WriteFile(conf.XLIFF.ExportPath)
			if err != nil {
				return xerrors.Errorf("exporting %s: %w", lang, err)
			}
			fmt.Fprintln(cctx.App.Writer, file)
		}

		return nil
	},
}

var importCmd = &cli.Command{
	Name:      "import",
	Usage:     "Merge translated XLIFF files from the xliff import_path into the catalog",
	ArgsUsage: "[file_path]",
	Action: func(cctx *cli.Context) error {
		conf := getConfig(cctx)
		path := catalogPath(cctx, conf)

		counts, err := importer.Import(conf.XLIFF.ImportPath, path, trans.DefaultKeepLanguages, updateOptions(conf))
		if err != nil {
			return err
		}

		updater.PrintSummary(cctx.App.Writer, path, counts)
		return nil
	},
}

var initDbCmd = &cli.Command{
	Name:  "init-db",
	Usage: "Create or migrate the translation database",
	Action: func(cctx *cli.Context) error {
		ds, closer, err := openDataStore(cctx)
		if err != nil {
			return err
		}
		defer closer()

		dbVersion, err := ds.MigrateUp()
		if err != nil {
			return xerrors.Errorf("could not complete database migration, last applied version was %v: %w", dbVersion, err)
		}

		fmt.Fprintln(cctx.App.Writer, "Successfully migrated the database to version", dbVersion)
		return nil
	},
}

var syncDbCmd = &cli.Command{
	Name:      "sync-db",
	Usage:     "Copy the catalog's translations into the translation database",
	ArgsUsage: "[file_path]",
	Action: func(cctx *cli.Context) error {
		path := catalogPath(cctx, getConfig(cctx))

		c, err := xcstrings.Load(path)
		if err != nil {
			return err
		}

		ds, closer, err := openDataStore(cctx)
		if err != nil {
			return err
		}
		defer closer()

		domain := importer.DomainName(path)
		count, err := ds.ImportCatalog(domain, c)
		if err != nil {
			return xerrors.Errorf("syncing %s: %w", domain, err)
		}
		log.Debugf("datastore stats:\n%v", ds.Stats)

		fmt.Fprintf(cctx.App.Writer, "Synced %d translations of %s\n", count, domain)
		return nil
	},
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Start the JSON API over the translation database",
	Action: func(cctx *cli.Context) error {
		ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx, getConfig(cctx))
	},
}

func openDataStore(cctx *cli.Context) (*datastore.DataStore, func(), error) {
	conf := getConfig(cctx)

	db, err := datastore.Connect(conf.DB)
	if err != nil {
		return nil, nil, err
	}

	ds, err := datastore.New(db, conf.DB.Driver)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return ds, func() { db.Close() }, nil
}
