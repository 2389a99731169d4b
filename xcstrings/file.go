package xcstrings

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

var log = logging.Logger("xcstrings")

// DefaultPath is where the application's catalog lives, relative to the repository root.
var DefaultPath = filepath.FromSlash("FlowDown/Resources/Localizable.xcstrings")

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, xerrors.Errorf("parsing catalog: %w", err)
	}
	if c.SourceLanguage == "" {
		return nil, xerrors.New("parsing catalog: missing sourceLanguage")
	}
	c.trailingNewline = bytes.HasSuffix(data, []byte("\n"))

	return c, nil
}

// Marshal encodes a catalog in Xcode's layout.
func Marshal(c *Catalog) ([]byte, error) {
	compact, err := json.Marshal(c)
	if err != nil {
		return nil, xerrors.Errorf("encoding catalog: %w", err)
	}
	out, err := Indent(compact)
	if err != nil {
		return nil, xerrors.Errorf("formatting catalog: %w", err)
	}
	if c.trailingNewline {
		out = append(out, '\n')
	}

	return out, nil
}

// Load reads the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("loading catalog: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", path, err)
	}
	log.Debugw("loaded catalog", "path", path, "keys", c.Strings.Len())

	return c, nil
}

// Save writes the catalog to path. The data is written and synced to a temporary file in the
// same directory which then replaces path, so a failed save leaves the previous file intact. An
// existing file keeps its permissions.
func Save(path string, c *Catalog) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	if err := renameio.WriteFile(path, data, 0644, renameio.WithExistingPermissions()); err != nil {
		return xerrors.Errorf("saving catalog: %w", err)
	}
	log.Debugw("saved catalog", "path", path, "bytes", len(data))

	return nil
}
