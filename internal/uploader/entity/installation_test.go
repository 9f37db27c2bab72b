package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolInstallation_IsInstalled(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		dirs  []string
		want  bool
	}{
		{name: "empty dir"},
		{name: "executable only", files: []string{"steamcmd.sh"}},
		{name: "executable and subdir only", files: []string{"steamcmd.sh"}, dirs: []string{"linux32"}},
		{name: "extracted", files: []string{"steamcmd.sh", "steam.dll"}, want: true},
		{name: "other files without executable", files: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0755))
			}
			for _, d := range tt.dirs {
				require.NoError(t, os.Mkdir(filepath.Join(dir, d), 0755))
			}

			inst := NewToolInstallation(dir, "steamcmd.sh")
			assert.Equal(t, tt.want, inst.IsInstalled())
		})
	}
}

func TestToolInstallation_MissingDir(t *testing.T) {
	inst := NewToolInstallation(filepath.Join(t.TempDir(), "missing"), "steamcmd.sh")
	assert.False(t, inst.IsInstalled())
	assert.False(t, ToolInstallation{}.IsInstalled())
}

func TestToolInstallation_Sibling(t *testing.T) {
	inst := NewToolInstallation("/opt/steamcmd", "steamcmd.sh")
	assert.Equal(t, "/opt/steamcmd/linux32/steamclient.so", inst.Sibling("linux32/steamclient.so"))
}

func TestGitHubRelease_AssetURL(t *testing.T) {
	release := GitHubRelease{Assets: []GitHubReleaseAsset{{Name: "depot-uploader", BrowserDownloadURL: "https://example.com/bin"}}}

	url, ok := release.AssetURL("depot-uploader")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/bin", url)

	_, ok = release.AssetURL("missing")
	assert.False(t, ok)
}
