package usecase

import (
	"os"
	"path/filepath"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/vdf"
)

const (
	ManifestFileName = "steam_app_build.vdf"

	// buildOutputDir is where SteamCMD keeps its build cache and logs, relative to the script.
	buildOutputDir = "BuildOutput/"
)

// ManifestDocument lays out the app build script. Order matters: the file
// mapping must precede the exclusions inside the depot block.
func ManifestDocument(m entity.UploadManifest) *vdf.Node {
	depot := vdf.Block(m.DepotID,
		vdf.Block("FileMapping",
			vdf.Pair("LocalPath", "*"),
			vdf.Pair("DepotPath", "."),
			vdf.Pair("recursive", "1"),
		),
	)
	for _, exclusion := range m.FileExclusions {
		depot.Add(vdf.Pair("FileExclusion", exclusion))
	}

	return vdf.Block("AppBuild",
		vdf.Pair("AppID", m.AppID),
		vdf.Pair("Desc", m.Description),
		vdf.Pair("BuildOutput", buildOutputDir),
		vdf.Pair("ContentRoot", m.ContentRoot),
		vdf.Block("Depots", depot),
	)
}

// WriteManifest renders m into path, creating parent directories.
func WriteManifest(path string, m entity.UploadManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, vdf.Marshal(ManifestDocument(m)), 0644)
}
