package updater

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PrintSummary writes a human readable report of an update of the catalog at path.
func PrintSummary(w io.Writer, path string, counts Counts) {
	bold := color.New(color.Bold)
	if counts.Total() == 0 {
		bold.Fprintf(w, "No changes needed for %s\n", path)
	} else {
		bold.Fprintf(w, "Updated %s\n", path)
	}

	rows := []struct {
		label string
		n     int
	}{
		{"keys added", counts.KeysAdded},
		{"source localizations added", counts.EnglishAdded},
		{"translations added", counts.TranslationsAdded},
		{"translations replaced", counts.TranslationsReplaced},
		{"filled from source", counts.FallbacksFilled},
		{"states fixed", counts.StatesFixed},
		{"languages removed", counts.LanguagesRemoved},
	}
	for _, r := range rows {
		if r.n == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-28s %s\n", r.label+":", color.GreenString("%d", r.n))
	}

	if counts.OverridesSkipped > 0 {
		fmt.Fprintf(w, "  %-28s %s\n", "existing translations kept:", color.YellowString("%d", counts.OverridesSkipped))
	}
	fmt.Fprintf(w, "Total changes: %d\n", counts.Total())
}

// PrintMissing writes one line per key that still lacks kept languages.
func PrintMissing(w io.Writer, path string, missing []MissingEntry) {
	if len(missing) == 0 {
		color.New(color.Bold).Fprintf(w, "All keys in %s are translated\n", path)
		return
	}
	color.New(color.Bold).Fprintf(w, "%d keys in %s are missing translations\n", len(missing), path)
	for _, m := range missing {
		fmt.Fprintf(w, "  %q: %s\n", m.Key, color.RedString("%v", m.Languages))
	}
}
