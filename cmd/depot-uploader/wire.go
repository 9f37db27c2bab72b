package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/galacticworkshop/steam-depot-uploader/internal/config"
	"github.com/galacticworkshop/steam-depot-uploader/internal/storage"
	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/repository"
	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/usecase"
)

// uploader holds the usecases for one project.
type uploader struct {
	cfg       config.UploaderConfig
	prefs     *repository.PrefsStore
	db        *storage.DB
	prompter  repository.TerminalPrompter
	installer *usecase.Installer
	account   *usecase.AccountUsecase
	upload    *usecase.UploadUsecase
	update    *usecase.UpdateUsecase
}

func newUploader(cfg config.UploaderConfig) (*uploader, error) {
	if err := os.MkdirAll(cfg.Workdir, 0755); err != nil {
		return nil, err
	}

	prefs, err := repository.OpenPrefsStore(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}

	db, err := storage.NewDB(cfg.History.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload history: %w", err)
	}

	u := &uploader{cfg: cfg, prefs: prefs, db: db}
	runner := repository.ProcessRunner{}

	u.installer = usecase.NewInstaller(prefs, runner,
		repository.NewHTTPDownloader(), repository.ArchiveExtractor{},
		cfg.SteamCMD, cfg.Workdir, cfg.Workdir)
	u.account = usecase.NewAccountUsecase(prefs, runner)

	var notifier usecase.UploadNotifier
	if cfg.Notification.WebhookURL != "" {
		notifier = repository.WebhookNotifier{WebhookURL: cfg.Notification.WebhookURL}
	}
	u.upload = usecase.NewUploadUsecase(prefs, u.installer, u.account, runner,
		repository.ShellBuilder{Command: cfg.Build.Command, LogPath: cfg.Build.LogPath},
		repository.NewUploadHistory(storage.NewUploadStore(db, cfg.History.MaxUploads)),
		notifier, u.prompter, cfg.ProjectRoot, cfg.Workdir)

	u.update = usecase.NewUpdateUsecase(repository.NewGitHubReleaseFetcher(""),
		repository.SelfUpdateApplier{}, releaseAssetName(), version)

	return u, nil
}

func (u *uploader) Close() {
	if u.db != nil {
		if err := u.db.Close(); err != nil {
			log.Printf("[Close] %v", err)
		}
	}
}

func releaseAssetName() string {
	name := fmt.Sprintf("depot-uploader-%s-%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

func (u *uploader) initLogPath() string {
	return filepath.Join(u.cfg.Workdir, "SteamCMD_log.txt")
}
