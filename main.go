/*
A tool for keeping the translations of an Xcode string catalog (.xcstrings) complete.

Run without a command, or with 'update', it loads the catalog, adds the strings introduced since
the last localization pass together with their translations, fills in every missing translation
for the kept languages, saves the catalog and prints a summary:

	xcstrings-tool [file_path]

The file path defaults to FlowDown/Resources/Localizable.xcstrings. Other commands check a
catalog for missing translations, round-trip translations through XLIFF files and mirror the
catalog into a translation database served over a JSON API.

Settings are read from the TOML file given with --config, by default 'xcstrings-tool.toml' in
the working directory. A missing default file means built-in defaults are used.
*/
package main

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/petert82/xcstrings-tool/config"
	"github.com/petert82/xcstrings-tool/updater"
)

var log = logging.Logger("xcstrings-tool")

const configKey = "config"

func newApp() *cli.App {
	return &cli.App{
		Name:      "xcstrings-tool",
		Usage:     "Fill in missing translations in an Xcode string catalog",
		ArgsUsage: "[file_path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Full `path` and file name to the config file",
				Value: config.DefaultFile,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level, overrides the config file",
			},
		},
		Before: loadConfig,
		Action: updateAction,
		Commands: []*cli.Command{
			updateCmd,
			checkCmd,
			exportCmd,
			importCmd,
			initDbCmd,
			syncDbCmd,
			serveCmd,
		},
		Metadata: map[string]interface{}{},
	}
}

// loadConfig reads the config file into the app metadata and sets up logging.
func loadConfig(cctx *cli.Context) error {
	conf, err := config.Load(cctx.String("config"), !cctx.IsSet("config"))
	if err != nil {
		return err
	}

	level := conf.Log.Level
	if cctx.IsSet("log-level") {
		level = cctx.String("log-level")
	}
	if err := logging.SetLogLevel("*", level); err != nil {
		return xerrors.Errorf("setting log level %q: %w", level, err)
	}

	cctx.App.Metadata[configKey] = conf
	return nil
}

func getConfig(cctx *cli.Context) config.Config {
	if conf, ok := cctx.App.Metadata[configKey].(config.Config); ok {
		return conf
	}
	return config.Default()
}

// catalogPath is the first argument, or the configured catalog.
func catalogPath(cctx *cli.Context, conf config.Config) string {
	if cctx.Args().Present() {
		return cctx.Args().First()
	}
	return conf.Catalog.Path
}

func updateOptions(conf config.Config) updater.Options {
	return updater.Options{
		FillFromSource: conf.Catalog.FillFromSource,
		PruneLanguages: conf.Catalog.PruneLanguages,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Errorf("%+v", err)
		os.Exit(1)
	}
}
