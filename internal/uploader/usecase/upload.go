package usecase

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

const UploadLogFileName = "steamcmd_upload.log"

type UploadUsecase struct {
	Depot          entity.DepotConfig
	Description    string
	FileExclusions []string

	store     SettingsStore
	tool      ToolLocator
	account   *AccountUsecase
	runner    ProcessRunner
	builder   PlayerBuilder
	history   UploadHistory
	notifier  UploadNotifier
	prompter  AuthCodePrompter
	workdir   string
	uploading atomic.Bool

	now   func() time.Time
	newID func() string
}

// NewUploadUsecase wires the orchestrator. builder, history, notifier and
// prompter are optional.
func NewUploadUsecase(
	store SettingsStore,
	tool ToolLocator,
	account *AccountUsecase,
	runner ProcessRunner,
	builder PlayerBuilder,
	history UploadHistory,
	notifier UploadNotifier,
	prompter AuthCodePrompter,
	projectRoot string,
	workdir string,
) *UploadUsecase {
	u := &UploadUsecase{
		Depot:    entity.NewDepotConfig(projectRoot),
		store:    store,
		tool:     tool,
		account:  account,
		runner:   runner,
		builder:  builder,
		history:  history,
		notifier: notifier,
		prompter: prompter,
		workdir:  workdir,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	u.LoadSettings()
	return u
}

func (u *UploadUsecase) LoadSettings() {
	u.Depot = LoadDepotConfig(u.store, u.Depot.ProjectRoot)
	u.Description = u.store.Get(KeyUploadDescription, DefaultUploadDescription)
	u.FileExclusions = ParseExclusions(u.store.Get(KeyFileExclusions, DefaultFileExclusions))
}

func (u *UploadUsecase) SaveSettings() error {
	if err := SaveDepotConfig(u.store, u.Depot); err != nil {
		return err
	}
	if err := u.store.Set(KeyUploadDescription, u.Description); err != nil {
		return err
	}
	return u.store.Set(KeyFileExclusions, strings.Join(u.FileExclusions, ","))
}

// AddExclusion normalizes and appends a pattern unless already present.
func (u *UploadUsecase) AddExclusion(exclusion string) (string, bool, error) {
	normalized := NormalizeExclusion(exclusion)
	if normalized == "" {
		return "", false, nil
	}
	if strings.ContainsAny(normalized, `,"`) {
		return normalized, false, NewUsecaseError(ErrConfigInvalid,
			"Exclusion patterns cannot contain commas or double quotes.", nil)
	}
	for _, existing := range u.FileExclusions {
		if existing == normalized {
			return normalized, false, nil
		}
	}
	u.FileExclusions = append(u.FileExclusions, normalized)
	return normalized, true, u.SaveSettings()
}

// RemoveExclusion drops the normalized pattern.
func (u *UploadUsecase) RemoveExclusion(exclusion string) (string, bool, error) {
	normalized := NormalizeExclusion(exclusion)
	for idx, existing := range u.FileExclusions {
		if existing == normalized {
			u.FileExclusions = append(u.FileExclusions[:idx:idx], u.FileExclusions[idx+1:]...)
			return normalized, true, u.SaveSettings()
		}
	}
	return normalized, false, nil
}

func (u *UploadUsecase) IsUploading() bool {
	return u.uploading.Load()
}

func (u *UploadUsecase) ManifestPath() string {
	return filepath.Join(u.workdir, ManifestFileName)
}

func (u *UploadUsecase) UploadLogPath() string {
	return filepath.Join(u.workdir, UploadLogFileName)
}

// Manifest derives the app build description from the current settings.
func (u *UploadUsecase) Manifest() entity.UploadManifest {
	exclusions := make([]string, len(u.FileExclusions))
	copy(exclusions, u.FileExclusions)
	return entity.UploadManifest{
		AppID:          u.Depot.AppID,
		DepotID:        u.Depot.DepotID,
		Description:    u.Description,
		ContentRoot:    u.Depot.AbsoluteBuildPath(),
		FileExclusions: exclusions,
	}
}

// Validate checks the upload preconditions in order and returns the first failure.
func (u *UploadUsecase) Validate() error {
	if !u.tool.Installation().IsInstalled() {
		return NewUsecaseError(ErrToolNotInstalled, "SteamCMD path is invalid.", nil)
	}
	if !u.account.Credentials.CredentialsSet() {
		return NewUsecaseError(ErrCredentialsMissing, "Steam account credentials are not set.", nil)
	}
	if !u.Depot.IsValid() {
		return NewUsecaseError(ErrConfigInvalid, "Depot settings are invalid.", nil)
	}
	if !u.Depot.BuildOutputExists() {
		return NewUsecaseError(ErrDirectoryMissing, "Build output directory does not exist.", nil)
	}
	return nil
}

// BuildAndUpload runs the player build into the build output directory and
// uploads only when the build succeeded.
func (u *UploadUsecase) BuildAndUpload(ctx context.Context) (entity.UploadResult, error) {
	if u.builder == nil {
		return entity.UploadResult{}, NewUsecaseError(ErrBuildFailed, "No build step configured", nil)
	}

	outputDir := u.Depot.AbsoluteBuildPath()
	log.Println("[BuildAndUpload] building player into " + outputDir)
	if err := u.builder.Build(ctx, outputDir); err != nil {
		log.Printf("[BuildAndUpload] build failed: %v", err)
		return entity.UploadResult{}, NewUsecaseError(ErrBuildFailed, "The build has failed", err)
	}

	log.Println("[BuildAndUpload] build succeeded. Now uploading to Steam Depot...")
	return u.Upload(ctx)
}

// Upload validates the settings, writes the app build script and runs
// SteamCMD with it. A result is returned whenever SteamCMD ran, including
// failed runs; the error then tells why it failed.
func (u *UploadUsecase) Upload(ctx context.Context) (entity.UploadResult, error) {
	if !u.uploading.CompareAndSwap(false, true) {
		return entity.UploadResult{}, ErrBusy
	}
	defer u.uploading.Store(false)

	if err := u.Validate(); err != nil {
		return entity.UploadResult{}, err
	}

	vdfPath := u.ManifestPath()
	if err := WriteManifest(vdfPath, u.Manifest()); err != nil {
		return entity.UploadResult{}, NewUsecaseError(ErrConfigInvalid, "Failed to write app build script", err)
	}
	log.Println("[Upload] app build script written to " + vdfPath)

	result, err := u.run(ctx, vdfPath)
	if result.ID != "" {
		u.record(result)
	}
	return result, err
}

func (u *UploadUsecase) run(ctx context.Context, vdfPath string) (entity.UploadResult, error) {
	credentials := u.account.Credentials
	args := []string{"+login", credentials.Username, credentials.Password}
	if credentials.AuthCode != "" {
		args = append(args, credentials.AuthCode)
	}
	args = append(args, "+run_app_build", vdfPath, "+quit")

	var logFile io.Writer = io.Discard
	if f, err := os.Create(u.UploadLogPath()); err != nil {
		log.Printf("[Upload] failed to open upload log: %v", err)
	} else {
		defer f.Close()
		logFile = f
	}

	log.Println("[Upload] starting SteamCMD process for upload...")
	tool := u.tool.Installation()
	stream, err := u.runner.Start(ctx, tool.ExecutablePath, tool.InstallDir, args...)
	if err != nil {
		return entity.UploadResult{}, NewUsecaseError(ErrSubprocessLaunchFailed, "Failed to start SteamCMD", err)
	}

	var output strings.Builder
	scan := UploadScan{}
	for stream.Next() {
		line := stream.Line()
		msg := logSteamCmdLine(line.Text, line.Stderr)
		output.WriteString(msg + "\n")
		fmt.Fprintln(logFile, msg)
		if line.Stderr {
			continue
		}

		authFailed, buildID, uploadID := scan.AuthFailed, scan.BuildID, scan.UploadID
		scan.Observe(line.Text)
		if scan.AuthFailed && !authFailed {
			log.Println("[Upload] invalid or missing two-factor authentication code")
		}
		if scan.BuildID != buildID {
			log.Println("[Upload] extracted Build ID: " + scan.BuildID)
		}
		if scan.UploadID != uploadID {
			log.Println("[Upload] extracted Upload ID: " + scan.UploadID)
		}
	}

	exitCode, err := stream.Wait()
	if err != nil {
		return entity.UploadResult{}, NewUsecaseError(ErrSubprocessLaunchFailed, "SteamCMD did not complete", err)
	}
	log.Printf("[Upload] SteamCMD process exited with code %d", exitCode)

	result := entity.UploadResult{
		ID:        u.newID(),
		Success:   exitCode == 0 && !scan.AuthFailed,
		ExitCode:  exitCode,
		UploadID:  scan.UploadID,
		BuildID:   scan.BuildID,
		AppID:     u.Depot.AppID,
		DepotID:   u.Depot.DepotID,
		BuildPath: u.Depot.AbsoluteBuildPath(),
		Timestamp: u.now(),
		LogOutput: output.String(),
	}

	if scan.AuthFailed {
		result.ExitCode = entity.AuthFailureExitCode
		u.promptForAuthCode()
		return result, NewUsecaseError(ErrAuthCodeRejected,
			"Invalid or missing two-factor authentication code. Please request a new auth code.", nil)
	}
	if exitCode != 0 {
		return result, NewUsecaseError(ErrSubprocessNonZeroExit,
			fmt.Sprintf("SteamCMD exited with code %d", exitCode), nil)
	}
	return result, nil
}

// promptForAuthCode reopens credential entry after Steam rejected the code.
func (u *UploadUsecase) promptForAuthCode() {
	if u.prompter == nil {
		return
	}
	code, err := u.prompter.PromptAuthCode("Steam rejected the auth code. Request a new one and enter it here")
	if err != nil {
		log.Printf("[Upload] auth code prompt: %v", err)
		return
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}
	if err := u.account.SetAuthCode(code); err != nil {
		log.Printf("[Upload] failed to save auth code: %v", err)
	}
}

func (u *UploadUsecase) record(result entity.UploadResult) {
	if u.history != nil {
		if err := u.history.RecordUpload(result); err != nil {
			log.Printf("[Upload] failed to record upload history: %v", err)
		}
	}
	if u.notifier != nil {
		u.notifier.NotifyUpload(result)
	}
}

// RecentUploads lists the latest recorded uploads, newest first.
func (u *UploadUsecase) RecentUploads(limit int) ([]entity.UploadResult, error) {
	if u.history == nil {
		return nil, nil
	}
	return u.history.GetRecentUploads(limit)
}

// GetUpload returns a recorded upload. An empty id selects the latest one.
func (u *UploadUsecase) GetUpload(id string) (entity.UploadResult, error) {
	if u.history == nil {
		return entity.UploadResult{}, fmt.Errorf("upload history is not available")
	}
	if id != "" {
		return u.history.GetUpload(id)
	}
	recent, err := u.history.GetRecentUploads(1)
	if err != nil {
		return entity.UploadResult{}, err
	}
	if len(recent) == 0 {
		return entity.UploadResult{}, fmt.Errorf("no uploads recorded yet")
	}
	return recent[0], nil
}
