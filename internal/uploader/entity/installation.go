package entity

import (
	"os"
	"path/filepath"
)

// ToolInstallation locates a SteamCMD install.
type ToolInstallation struct {
	ExecutablePath string `json:"executablePath"`
	InstallDir     string `json:"installDir"`
}

// NewToolInstallation places executableName inside installDir.
func NewToolInstallation(installDir, executableName string) ToolInstallation {
	return ToolInstallation{
		ExecutablePath: filepath.Join(installDir, executableName),
		InstallDir:     installDir,
	}
}

// IsInstalled reports whether the executable exists and the install directory
// holds more than one regular file. A lone executable means the archive was
// not fully extracted.
func (t ToolInstallation) IsInstalled() bool {
	if t.ExecutablePath == "" {
		return false
	}
	info, err := os.Stat(t.ExecutablePath)
	if err != nil || info.IsDir() {
		return false
	}

	dir := t.InstallDir
	if dir == "" {
		dir = filepath.Dir(t.ExecutablePath)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	files := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files++
		}
	}
	return files > 1
}

// Sibling returns the path of name next to the executable.
func (t ToolInstallation) Sibling(name string) string {
	return filepath.Join(filepath.Dir(t.ExecutablePath), filepath.FromSlash(name))
}
