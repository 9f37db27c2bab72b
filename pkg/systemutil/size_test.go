package systemutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSize(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "game.exe"), make([]byte, 100), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Data", "level0"), make([]byte, 28), 0644))

	size, files, err := DirSize(root)
	require.NoError(t, err)
	assert.Equal(t, uint64(128), size)
	assert.Equal(t, 2, files)

	_, _, err = DirSize(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in))
	}
}
