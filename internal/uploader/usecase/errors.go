package usecase

import "errors"

var (
	ErrConfigInvalid          = errors.New("depot settings are invalid")
	ErrCredentialsMissing     = errors.New("steam account credentials are not set")
	ErrToolNotInstalled       = errors.New("steamcmd is not installed")
	ErrDirectoryMissing       = errors.New("build output directory does not exist")
	ErrSubprocessLaunchFailed = errors.New("failed to launch steamcmd")
	ErrSubprocessNonZeroExit  = errors.New("steamcmd exited with a non-zero code")
	ErrAuthCodeRejected       = errors.New("steam guard auth code rejected")
	ErrNetworkDownloadFailed  = errors.New("failed to download steamcmd")
	ErrArchiveExtractFailed   = errors.New("failed to extract steamcmd archive")
	ErrBuildFailed            = errors.New("player build failed")
	ErrBusy                   = errors.New("operation already in progress")
)

// UsecaseError pairs an error kind with a user-facing message.
type UsecaseError struct {
	Kind    error
	Message string
	Err     error
}

func (e UsecaseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is matches the error kind, so errors.Is(err, ErrToolNotInstalled) works.
func (e UsecaseError) Is(target error) bool {
	return target == e.Kind
}

func (e UsecaseError) Unwrap() error {
	return e.Err
}

// NewUsecaseError creates a typed error of the given kind.
func NewUsecaseError(kind error, message string, err error) error {
	return UsecaseError{Kind: kind, Message: message, Err: err}
}
