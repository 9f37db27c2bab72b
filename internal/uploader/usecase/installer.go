package usecase

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/galacticworkshop/steam-depot-uploader/internal/config"
	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

const initLogFileName = "SteamCMD_log.txt"

// InstallReport describes a finished install.
type InstallReport struct {
	Installation     entity.ToolInstallation
	AlreadyInstalled bool
	InitExitCode     int
	InitLogPath      string
}

// Installer downloads, unpacks and initializes SteamCMD.
type Installer struct {
	CustomInstallPath string
	SteamCmdPath      string

	store      SettingsStore
	runner     ProcessRunner
	downloader Downloader
	extractor  Extractor
	cfg        config.SteamCMDConfig
	tempDir    string
	logDir     string
	installing atomic.Bool
}

func NewInstaller(
	store SettingsStore,
	runner ProcessRunner,
	downloader Downloader,
	extractor Extractor,
	cfg config.SteamCMDConfig,
	tempDir string,
	logDir string,
) *Installer {
	i := &Installer{
		store:      store,
		runner:     runner,
		downloader: downloader,
		extractor:  extractor,
		cfg:        cfg,
		tempDir:    tempDir,
		logDir:     logDir,
	}
	i.LoadSettings()
	return i
}

func (i *Installer) LoadSettings() {
	i.CustomInstallPath = i.store.Get(KeyCustomInstallPath, "")
	i.SteamCmdPath = i.store.Get(KeySteamCmdPath, i.executablePath(i.InstallDir()))
}

func (i *Installer) SaveSettings() error {
	if err := i.store.Set(KeyCustomInstallPath, i.CustomInstallPath); err != nil {
		return err
	}
	return i.store.Set(KeySteamCmdPath, i.SteamCmdPath)
}

// SetCustomInstallPath changes the install target. The executable path
// follows it so the next Install or upload looks there.
func (i *Installer) SetCustomInstallPath(dir string) error {
	i.CustomInstallPath = dir
	i.SteamCmdPath = i.executablePath(i.InstallDir())
	return i.SaveSettings()
}

// InstallDir is the custom install path when set, the default folder otherwise.
func (i *Installer) InstallDir() string {
	if i.CustomInstallPath != "" {
		return i.CustomInstallPath
	}
	return i.cfg.DefaultInstallDir
}

// Installation is the SteamCMD install currently configured.
func (i *Installer) Installation() entity.ToolInstallation {
	return entity.ToolInstallation{
		ExecutablePath: i.SteamCmdPath,
		InstallDir:     filepath.Dir(i.SteamCmdPath),
	}
}

func (i *Installer) IsInstalled() bool {
	return i.Installation().IsInstalled()
}

func (i *Installer) IsInstalling() bool {
	return i.installing.Load()
}

func (i *Installer) executablePath(dir string) string {
	return filepath.Join(dir, i.cfg.ExecutableName)
}

// Install puts SteamCMD into InstallDir and runs it once so it can update
// itself. Progress is reported between 0 and 1.
func (i *Installer) Install(ctx context.Context, progress ProgressFunc) (report InstallReport, err error) {
	if !i.installing.CompareAndSwap(false, true) {
		return report, ErrBusy
	}
	defer i.installing.Store(false)

	if progress == nil {
		progress = func(entity.Progress) {}
	}

	installDir := i.InstallDir()
	target := entity.NewToolInstallation(installDir, i.cfg.ExecutableName)
	report.Installation = target

	if target.IsInstalled() {
		log.Println("[Install] steamcmd is already installed in " + installDir)
		i.SteamCmdPath = target.ExecutablePath
		report.AlreadyInstalled = true
		return report, i.SaveSettings()
	}

	defer func() {
		if err != nil {
			log.Printf("[Install] steamcmd installation/initialization error: %v", err)
			err = fmt.Errorf("failed to install or initialize steamcmd: %w", err)
		}
	}()

	archivePath, err := i.download(ctx, progress)
	if err != nil {
		return report, err
	}

	progress(entity.Progress{Stage: entity.StageExtract, Fraction: 0.4})
	if err = i.extract(archivePath, installDir); err != nil {
		return report, err
	}

	progress(entity.Progress{Stage: entity.StageExtract, Fraction: 0.5})
	if removeErr := os.Remove(archivePath); removeErr != nil {
		log.Printf("[Install] failed to delete archive %s: %v", archivePath, removeErr)
	}

	i.SteamCmdPath = target.ExecutablePath
	if err = i.SaveSettings(); err != nil {
		return report, err
	}

	progress(entity.Progress{Stage: entity.StageInitialize, Fraction: 0.6})
	report.InitExitCode, report.InitLogPath, err = i.initialize(ctx, target, progress)
	if err != nil {
		return report, err
	}

	progress(entity.Progress{Stage: entity.StageDone, Fraction: 1})
	log.Println("[Install] steamcmd has been successfully installed and initialized")
	return report, nil
}

func (i *Installer) download(ctx context.Context, progress ProgressFunc) (string, error) {
	archiveName := "steamcmd.zip"
	if u, err := url.Parse(i.cfg.DownloadURL); err == nil && path.Base(u.Path) != "." && path.Base(u.Path) != "/" {
		archiveName = path.Base(u.Path)
	}
	archivePath := filepath.Join(i.tempDir, archiveName)

	progress(entity.Progress{Stage: entity.StageDownload, Fraction: 0.1})
	log.Println("[Install] downloading " + i.cfg.DownloadURL)
	err := i.downloader.Download(ctx, i.cfg.DownloadURL, archivePath, func(current, total int64) {
		if total > 0 {
			progress(entity.Progress{
				Stage:    entity.StageDownload,
				Fraction: 0.1 + 0.3*float64(current)/float64(total),
			})
		}
	})
	if err != nil {
		return "", NewUsecaseError(ErrNetworkDownloadFailed, "Failed to download SteamCMD", err)
	}
	return archivePath, nil
}

// extract replaces installDir with the archive content. A half-extracted
// directory is removed again so the next attempt starts clean.
func (i *Installer) extract(archivePath, installDir string) error {
	if err := os.RemoveAll(installDir); err != nil {
		return NewUsecaseError(ErrArchiveExtractFailed, "Failed to remove previous SteamCMD directory", err)
	}
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return NewUsecaseError(ErrArchiveExtractFailed, "Failed to create SteamCMD directory", err)
	}

	log.Printf("[Install] extracting %s to %s", archivePath, installDir)
	if err := i.extractor.Extract(archivePath, installDir); err != nil {
		if cleanupErr := os.RemoveAll(installDir); cleanupErr != nil {
			log.Printf("[Install] failed to clean up %s: %v", installDir, cleanupErr)
		}
		return NewUsecaseError(ErrArchiveExtractFailed, "Failed to extract SteamCMD", err)
	}

	exe := i.executablePath(installDir)
	if _, err := os.Stat(exe); err != nil {
		return NewUsecaseError(ErrArchiveExtractFailed, "SteamCMD executable missing from archive", err)
	}
	if err := os.Chmod(exe, 0755); err != nil {
		log.Printf("[Install] failed to mark %s executable: %v", exe, err)
	}
	return nil
}

// initialize runs `+quit` once. SteamCMD updates itself on first start and
// exits with InitExitCode when it wants to be restarted, which is fine here.
func (i *Installer) initialize(ctx context.Context, target entity.ToolInstallation, progress ProgressFunc) (int, string, error) {
	stream, err := i.runner.Start(ctx, target.ExecutablePath, target.InstallDir, "+quit")
	if err != nil {
		return 0, "", NewUsecaseError(ErrSubprocessLaunchFailed, "Failed to start SteamCMD initialization", err)
	}

	var output, errOutput strings.Builder
	for stream.Next() {
		line := stream.Line()
		logSteamCmdLine(line.Text, line.Stderr)
		if line.Stderr {
			errOutput.WriteString(line.Text + "\n")
			continue
		}
		output.WriteString(line.Text + "\n")
		if fraction, ok := initProgress(line.Text); ok {
			progress(entity.Progress{Stage: entity.StageInitialize, Fraction: fraction})
		}
	}

	exitCode, err := stream.Wait()
	if err != nil {
		return exitCode, "", NewUsecaseError(ErrSubprocessLaunchFailed, "SteamCMD initialization did not complete", err)
	}

	switch {
	case exitCode == i.cfg.InitExitCode:
		log.Printf("[Install] steamcmd initialization completed with exit code %d", exitCode)
	case exitCode != 0:
		return exitCode, "", NewUsecaseError(ErrSubprocessNonZeroExit,
			fmt.Sprintf("SteamCMD initialization failed. Exit code: %d. Error: %s", exitCode, strings.TrimSpace(errOutput.String())), nil)
	}

	library := target.Sibling(i.cfg.DependencyLibrary)
	if _, err := os.Stat(library); err != nil {
		return exitCode, "", NewUsecaseError(ErrToolNotInstalled,
			fmt.Sprintf("SteamCMD initialization failed: %s not found after initialization", i.cfg.DependencyLibrary), nil)
	}

	logPath := ""
	if i.logDir != "" {
		logPath = filepath.Join(i.logDir, initLogFileName)
		writeErr := os.MkdirAll(i.logDir, 0755)
		if writeErr == nil {
			writeErr = os.WriteFile(logPath, []byte(output.String()), 0644)
		}
		if writeErr != nil {
			log.Printf("[Install] failed to write %s: %v", logPath, writeErr)
			logPath = ""
		}
	}

	return exitCode, logPath, nil
}
