package repository

import (
	"fmt"

	"github.com/mholt/archiver"
)

// ArchiveExtractor unpacks zip and tar.gz archives, picking the format from
// the file name.
type ArchiveExtractor struct{}

func (ArchiveExtractor) Extract(archivePath, destDir string) error {
	if err := archiver.Unarchive(archivePath, destDir); err != nil {
		return fmt.Errorf("failed to unarchive %s: %w", archivePath, err)
	}
	return nil
}
