package usecase

import (
	"context"
	"log"
	"path/filepath"
	"sync/atomic"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

type AccountUsecase struct {
	Credentials entity.AccountCredentials

	store      SettingsStore
	runner     ProcessRunner
	requesting atomic.Bool
}

func NewAccountUsecase(store SettingsStore, runner ProcessRunner) *AccountUsecase {
	a := &AccountUsecase{
		store:  store,
		runner: runner,
	}
	a.LoadSettings()
	return a
}

func (a *AccountUsecase) LoadSettings() {
	a.Credentials = LoadCredentials(a.store)
}

func (a *AccountUsecase) SaveSettings() error {
	return SaveCredentials(a.store, a.Credentials)
}

// Clear wipes the stored credentials.
func (a *AccountUsecase) Clear() error {
	a.Credentials = entity.AccountCredentials{}
	return a.SaveSettings()
}

func (a *AccountUsecase) SetAuthCode(code string) error {
	a.Credentials.AuthCode = code
	return a.store.Set(KeyAuthCode, code)
}

func (a *AccountUsecase) IsRequestingAuthCode() bool {
	return a.requesting.Load()
}

// RequestAuthCode logs in without a code so Steam sends a fresh Steam Guard
// code, and reports where it was delivered. Only one request runs at a time.
func (a *AccountUsecase) RequestAuthCode(ctx context.Context, steamCmdPath string) (entity.AuthCodeOutcome, error) {
	if !a.Credentials.CredentialsSet() {
		return entity.AuthCodeUnknown, NewUsecaseError(ErrCredentialsMissing,
			"Username or password is empty. Cannot request auth code.", nil)
	}
	if !a.requesting.CompareAndSwap(false, true) {
		return entity.AuthCodeUnknown, ErrBusy
	}
	defer a.requesting.Store(false)

	log.Println("[RequestAuthCode] requesting auth code for " + a.Credentials.Username)
	stream, err := a.runner.Start(ctx, steamCmdPath, filepath.Dir(steamCmdPath),
		"+login", a.Credentials.Username, a.Credentials.Password, "+quit")
	if err != nil {
		log.Printf("[RequestAuthCode] %v", err)
		return entity.AuthCodeUnknown, NewUsecaseError(ErrSubprocessLaunchFailed,
			"An error occurred while requesting the auth code", err)
	}

	outcome := entity.AuthCodeUnknown
	for stream.Next() {
		line := stream.Line()
		logSteamCmdLine(line.Text, line.Stderr)
		if o, ok := classifyAuthCodeLine(line.Text); ok {
			outcome = o
		}
	}

	exitCode, err := stream.Wait()
	if err != nil {
		log.Printf("[RequestAuthCode] %v", err)
		return entity.AuthCodeUnknown, NewUsecaseError(ErrSubprocessLaunchFailed,
			"An error occurred while requesting the auth code", err)
	}
	log.Printf("[RequestAuthCode] auth code request process completed (exit code %d, outcome %s)", exitCode, outcome)

	return outcome, nil
}

func logSteamCmdLine(text string, stderr bool) string {
	msg := "SteamCMD: " + text
	if stderr {
		msg = "SteamCMD Error: " + text
	}
	log.Println(msg)
	return msg
}
