package usecase

import (
	"strings"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

const (
	KeyAppID             = "SteamDepotUploader_appId"
	KeyDepotID           = "SteamDepotUploader_depotId"
	KeyBuildOutputPath   = "SteamDepotUploader_buildOutputPath"
	KeyUsername          = "SteamDepotUploader_username"
	KeyPassword          = "SteamDepotUploader_password"
	KeyAuthCode          = "SteamDepotUploader_authCode"
	KeyCustomInstallPath = "SteamDepotUploader_customInstallPath"
	KeySteamCmdPath      = "SteamDepotUploader_steamCmdPath"
	KeyUploadDescription = "SteamDepotUploader_uploadDescription"
	KeyFileExclusions    = "SteamDepotUploader_fileExclusions"

	DefaultUploadDescription = "Steam Depot Uploader"
	DefaultFileExclusions    = "*.pdb,*.zip,*BurstDebug*,*DontShipIt*"
)

func LoadDepotConfig(store SettingsStore, projectRoot string) entity.DepotConfig {
	return entity.DepotConfig{
		AppID:           store.Get(KeyAppID, ""),
		DepotID:         store.Get(KeyDepotID, ""),
		BuildOutputPath: store.Get(KeyBuildOutputPath, entity.DefaultBuildOutputPath),
		ProjectRoot:     projectRoot,
	}
}

func SaveDepotConfig(store SettingsStore, depot entity.DepotConfig) error {
	for _, kv := range [][2]string{
		{KeyAppID, depot.AppID},
		{KeyDepotID, depot.DepotID},
		{KeyBuildOutputPath, depot.BuildOutputPath},
	} {
		if err := store.Set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func LoadCredentials(store SettingsStore) entity.AccountCredentials {
	return entity.AccountCredentials{
		Username: store.Get(KeyUsername, ""),
		Password: store.Get(KeyPassword, ""),
		AuthCode: store.Get(KeyAuthCode, ""),
	}
}

func SaveCredentials(store SettingsStore, credentials entity.AccountCredentials) error {
	for _, kv := range [][2]string{
		{KeyUsername, credentials.Username},
		{KeyPassword, credentials.Password},
		{KeyAuthCode, credentials.AuthCode},
	} {
		if err := store.Set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// ParseExclusions splits the comma separated exclusion setting.
func ParseExclusions(value string) []string {
	exclusions := []string{}
	for _, exclusion := range strings.Split(value, ",") {
		exclusion = strings.TrimSpace(exclusion)
		if exclusion != "" {
			exclusions = append(exclusions, exclusion)
		}
	}
	return exclusions
}

// NormalizeExclusion trims the pattern and wraps it in wildcards unless it
// already starts or ends with one.
func NormalizeExclusion(exclusion string) string {
	exclusion = strings.TrimSpace(exclusion)
	if exclusion == "" {
		return ""
	}
	if !strings.HasPrefix(exclusion, "*") && !strings.HasSuffix(exclusion, "*") {
		exclusion = "*" + exclusion + "*"
	}
	return exclusion
}
