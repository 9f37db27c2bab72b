package entity

// AccountCredentials are the Steam login used by SteamCMD. AuthCode is the
// short-lived Steam Guard code for the next login.
type AccountCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	AuthCode string `json:"authCode"`
}

// CredentialsSet reports whether both username and password are present.
func (a AccountCredentials) CredentialsSet() bool {
	return a.Username != "" && a.Password != ""
}

// AuthCodeOutcome tells where Steam delivered a requested auth code.
type AuthCodeOutcome string

const (
	AuthCodeEmailSent AuthCodeOutcome = "email"
	AuthCodeAppSent   AuthCodeOutcome = "mobile app"
	AuthCodeUnknown   AuthCodeOutcome = "unknown"
)
