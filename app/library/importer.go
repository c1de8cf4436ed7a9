// Package library catalogs compiled digests into a local Calibre library
// by shelling out to calibredb. Import is best-effort: the digest file on
// disk is the product, cataloging failures never fail a run.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

type Importer struct {
	calibredbPath string
	libraryPath   string
}

// NewImporter creates an importer. An empty library path disables imports.
func NewImporter(calibredbPath, libraryPath string) *Importer {
	return &Importer{
		calibredbPath: calibredbPath,
		libraryPath:   libraryPath,
	}
}

func (i *Importer) Enabled() bool {
	return i.libraryPath != ""
}

// Run adds the digest at path to the configured library. It is a no-op
// when no library is configured.
func (i *Importer) Run(ctx context.Context, path string) error {
	if !i.Enabled() {
		return nil
	}

	cmd := exec.CommandContext(ctx, i.calibredbPath, "add", "--with-library", i.libraryPath, path)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to import digest into library: %w: %s", err, strings.TrimSpace(string(output)))
	}

	slog.Debug("Imported digest into library", "path", path, "library", i.libraryPath)

	return nil
}
