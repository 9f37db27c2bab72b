package entity

import "time"

// AuthFailureExitCode marks a result aborted because Steam rejected the auth code.
const AuthFailureExitCode = -1

// UploadResult is the outcome of one upload attempt.
type UploadResult struct {
	ID        string    `json:"id"`
	Success   bool      `json:"success"`
	ExitCode  int       `json:"exitCode"`
	UploadID  string    `json:"uploadId"`
	BuildID   string    `json:"buildId"`
	AppID     string    `json:"appId"`
	DepotID   string    `json:"depotId"`
	BuildPath string    `json:"buildPath"`
	Timestamp time.Time `json:"timestamp"`
	LogOutput string    `json:"logOutput"`
}
