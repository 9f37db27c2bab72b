package entity

import (
	"os"
	"path/filepath"
	"strings"
)

const DefaultBuildOutputPath = "Build"

// DepotConfig identifies the Steam app/depot pair and the local directory uploaded into it.
type DepotConfig struct {
	AppID           string `json:"appId"`
	DepotID         string `json:"depotId"`
	BuildOutputPath string `json:"buildOutputPath"`

	// ProjectRoot anchors a relative BuildOutputPath.
	ProjectRoot string `json:"-"`
}

// NewDepotConfig returns a config holding the default values.
func NewDepotConfig(projectRoot string) DepotConfig {
	return DepotConfig{
		BuildOutputPath: DefaultBuildOutputPath,
		ProjectRoot:     projectRoot,
	}
}

// IsValid reports whether every field required for an upload is set.
func (d DepotConfig) IsValid() bool {
	return d.AppID != "" && d.DepotID != "" && d.BuildOutputPath != ""
}

// Reset restores the default values, keeping the project root.
func (d *DepotConfig) Reset() {
	*d = NewDepotConfig(d.ProjectRoot)
}

// AbsoluteBuildPath resolves BuildOutputPath against the project root.
func (d DepotConfig) AbsoluteBuildPath() string {
	path := d.BuildOutputPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.ProjectRoot, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Relativize returns path relative to the build output directory using forward
// slashes. Paths outside the build output directory are returned unchanged.
func (d DepotConfig) Relativize(path string) string {
	root := strings.TrimSuffix(filepath.ToSlash(d.AbsoluteBuildPath()), "/")
	normalized := filepath.ToSlash(path)

	if normalized != root && !strings.HasPrefix(normalized, root+"/") {
		return path
	}
	return strings.TrimLeft(strings.TrimPrefix(normalized, root), "/")
}

// ProjectRelative converts a build output path entered by the user into the
// stored form. Absolute paths under ProjectRoot become root-relative with
// forward slashes; anything else is kept as given.
func (d DepotConfig) ProjectRelative(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || !filepath.IsAbs(path) || d.ProjectRoot == "" {
		return path
	}
	root, err := filepath.Abs(d.ProjectRoot)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// BuildOutputExists reports whether the resolved build output directory exists.
func (d DepotConfig) BuildOutputExists() bool {
	info, err := os.Stat(d.AbsoluteBuildPath())
	return err == nil && info.IsDir()
}

// EnsureBuildOutput creates the build output directory when missing.
func (d DepotConfig) EnsureBuildOutput() (created bool, err error) {
	if d.BuildOutputExists() {
		return false, nil
	}
	if err := os.MkdirAll(d.AbsoluteBuildPath(), 0755); err != nil {
		return false, err
	}
	return true, nil
}
