package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStubCalibredb(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "calibredb")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestImporterRun(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	stub := writeStubCalibredb(t, fmt.Sprintf("#!/bin/sh\necho \"$@\" > %q\n", argsFile))

	importer := NewImporter(stub, "/books/library")
	require.True(t, importer.Enabled())
	require.NoError(t, importer.Run(context.Background(), "/output/digest.epub"))

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "add --with-library /books/library /output/digest.epub", strings.TrimSpace(string(args)))
}

func TestImporterRunFailure(t *testing.T) {
	stub := writeStubCalibredb(t, "#!/bin/sh\necho 'no such library' >&2\nexit 2\n")

	importer := NewImporter(stub, "/books/library")

	err := importer.Run(context.Background(), "/output/digest.epub")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such library")
}

func TestImporterDisabled(t *testing.T) {
	importer := NewImporter("calibredb", "")

	assert.False(t, importer.Enabled())
	require.NoError(t, importer.Run(context.Background(), "/output/digest.epub"))
}
