/*
Package importer merges translated XLIFF files back into a string catalog.
*/
package importer

import (
	"path/filepath"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/petert82/xcstrings-tool/trans"
	"github.com/petert82/xcstrings-tool/updater"
	"github.com/petert82/xcstrings-tool/xcstrings"
	"github.com/petert82/xcstrings-tool/xliff"
)

var log = logging.Logger("importer")

// DomainName is the XLIFF domain of a catalog file: its base name without extension.
func DomainName(catalogPath string) string {
	base := filepath.Base(catalogPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadDir collects the translations for domain from the XLIFF files in dir, named either
// "<domain>.<lang>.xliff" or Xcode's "<lang>.xliff". Only file elements whose original path
// names domain are read, and only for kept languages. It returns the merged table and the files
// it read.
func ReadDir(dir, domain string, keep []string) (trans.Table, []string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.xliff"))
	if err != nil {
		return nil, nil, err
	}

	table := make(trans.Table)
	var read []string
	for _, file := range files {
		x, err := xliff.NewFromFile(file)
		if err != nil {
			return nil, read, err
		}
		f, ok := x.File(domain)
		if !ok {
			log.Debugw("skipping file without units for domain", "file", file, "domain", domain)
			continue
		}
		if !lo.Contains(keep, x.Language()) {
			log.Warnw("skipping file for language that is not kept", "file", file, "lang", x.Language())
			continue
		}

		table.Merge(x.Table(domain))
		read = append(read, filepath.Base(file))
		log.Infow("read translations", "file", filepath.Base(file), "original", f.Original, "units", len(f.XliffTranslations))
	}

	return table, read, nil
}

// Import merges the XLIFF files in dir into the catalog at catalogPath and saves it when
// anything changed. Units for keys the catalog does not have are ignored, so keys removed from
// the catalog are not brought back.
func Import(dir, catalogPath string, keep []string, opts updater.Options) (updater.Counts, error) {
	start := time.Now()

	table, files, err := ReadDir(dir, DomainName(catalogPath), keep)
	if err != nil {
		return updater.Counts{}, xerrors.Errorf("reading xliff files: %w", err)
	}
	if len(files) == 0 {
		return updater.Counts{}, xerrors.Errorf("no xliff files for %s found in %s", DomainName(catalogPath), dir)
	}

	c, err := xcstrings.Load(catalogPath)
	if err != nil {
		return updater.Counts{}, err
	}
	for _, key := range lo.Without(table.Keys(), c.Keys()...) {
		log.Warnw("ignoring unit for key that is not in the catalog", "key", key)
		delete(table, key)
	}

	counts := updater.UpdateMissingTranslations(c, table, keep, opts)
	if counts.Total() > 0 {
		if err := xcstrings.Save(catalogPath, c); err != nil {
			return counts, err
		}
	}

	log.Infow("imported xliff files", "files", len(files), "changes", counts.Total(), "took", time.Since(start))
	return counts, nil
}
