package usecase

import (
	"context"
	"io"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/systemutil"
)

type ProgressFunc func(progress entity.Progress)

// SettingsStore is the flat key/value settings persistence.
type SettingsStore interface {
	Get(key, defaultValue string) string
	Set(key, value string) error
	Delete(key string) error
}

// OutputStream iterates over the merged output lines of a running process.
type OutputStream interface {
	Next() bool
	Line() systemutil.Line
	Wait() (exitCode int, err error)
}

type ProcessRunner interface {
	Start(ctx context.Context, executable, workDir string, args ...string) (OutputStream, error)
}

type Downloader interface {
	Download(ctx context.Context, url, dest string, onProgress func(current, total int64)) error
}

type Extractor interface {
	Extract(archivePath, destDir string) error
}

// PlayerBuilder produces the game build inside outputDir.
type PlayerBuilder interface {
	Build(ctx context.Context, outputDir string) error
}

type ToolLocator interface {
	Installation() entity.ToolInstallation
}

type UploadHistory interface {
	RecordUpload(result entity.UploadResult) error
	GetUpload(id string) (entity.UploadResult, error)
	GetRecentUploads(limit int) ([]entity.UploadResult, error)
}

type UploadNotifier interface {
	NotifyUpload(result entity.UploadResult)
}

// AuthCodePrompter asks the user for a fresh Steam Guard code.
type AuthCodePrompter interface {
	PromptAuthCode(reason string) (string, error)
}

type ReleaseFetcher interface {
	FetchLatest(ctx context.Context) (entity.GitHubRelease, error)
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

type UpdateApplier interface {
	Apply(reader io.Reader) error
}
