package usecase

import (
	"regexp"
	"strings"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

// SteamCMD output markers
const (
	emailCodeMarker       = "Steam Guard code:"
	appCodeMarker         = "Two-factor code:"
	invalidAuthCodeMarker = "Invalid Login Auth Code"
	uploadIDMarker        = "Depot build ID:"

	loadingAPIMarker = "Loading Steam API..."
	loggedInMarker   = "Logged in OK"
	userInfoMarker   = "Waiting for user info...Done"
)

var buildIDPattern = regexp.MustCompile(`BuildID (\d+)`)

// classifyAuthCodeLine reports where Steam sent the auth code, if line says so.
func classifyAuthCodeLine(line string) (entity.AuthCodeOutcome, bool) {
	switch {
	case strings.Contains(line, emailCodeMarker):
		return entity.AuthCodeEmailSent, true
	case strings.Contains(line, appCodeMarker):
		return entity.AuthCodeAppSent, true
	}
	return entity.AuthCodeUnknown, false
}

// initProgress maps SteamCMD self-update output to install progress.
func initProgress(line string) (float64, bool) {
	switch {
	case strings.Contains(line, loadingAPIMarker), strings.Contains(line, loggedInMarker):
		return 0.7, true
	case strings.Contains(line, userInfoMarker):
		return 0.9, true
	}
	return 0, false
}

// UploadScan accumulates the signals found in run_app_build output.
type UploadScan struct {
	AuthFailed bool
	BuildID    string
	UploadID   string
}

// Observe applies the classification rules to one output line.
func (s *UploadScan) Observe(line string) {
	if strings.Contains(line, invalidAuthCodeMarker) {
		s.AuthFailed = true
	}

	if match := buildIDPattern.FindStringSubmatch(line); match != nil {
		s.BuildID = match[1]
	}

	if strings.Contains(line, uploadIDMarker) {
		s.UploadID = strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])
	}
}
