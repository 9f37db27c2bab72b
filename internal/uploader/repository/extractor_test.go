package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mholt/archiver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveExtractor_Extract(t *testing.T) {
	for _, name := range []string{"steamcmd.zip", "steamcmd_linux.tar.gz"} {
		t.Run(name, func(t *testing.T) {
			src := t.TempDir()
			exe := filepath.Join(src, "steamcmd.sh")
			require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))

			archivePath := filepath.Join(t.TempDir(), name)
			require.NoError(t, archiver.Archive([]string{exe}, archivePath))

			dest := t.TempDir()
			require.NoError(t, ArchiveExtractor{}.Extract(archivePath, dest))

			data, err := os.ReadFile(filepath.Join(dest, "steamcmd.sh"))
			require.NoError(t, err)
			assert.Equal(t, "#!/bin/sh\n", string(data))
		})
	}
}

func TestArchiveExtractor_ExtractCorrupt(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "steamcmd.zip")
	require.NoError(t, os.WriteFile(archivePath, []byte("not a zip"), 0644))

	err := ArchiveExtractor{}.Extract(archivePath, t.TempDir())
	assert.Error(t, err)
}
