package config

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ghodss/yaml"
	validator "gopkg.in/go-playground/validator.v9"
)

const (
	// SettingsFileName is the flat key/value settings document kept next to the project settings.
	SettingsFileName = "SteamDepotUploaderPrefs.json"

	// SteamCMDFolder is the default install folder name.
	SteamCMDFolder = "SteamCMD_Unity"
)

type UploaderConfig struct {
	ProjectRoot  string             `json:"project_root" validate:"required"`
	SettingsFile string             `json:"settings_file" validate:"required"`
	Workdir      string             `json:"workdir" validate:"required"`
	SteamCMD     SteamCMDConfig     `json:"steamcmd"`
	Build        BuildConfig        `json:"build"`
	History      HistoryConfig      `json:"history"`
	Notification NotificationConfig `json:"notification"`
}

type SteamCMDConfig struct {
	DownloadURL       string `json:"download_url" validate:"required,url"`
	ExecutableName    string `json:"executable_name" validate:"required"`
	DependencyLibrary string `json:"dependency_library" validate:"required"` // steam.dll
	DefaultInstallDir string `json:"default_install_dir" validate:"required"`
	InitExitCode      int    `json:"init_exit_code"` // 7, SteamCMD asks to be restarted after self-update
}

type BuildConfig struct {
	// Command runs the player build. {output} is replaced with the quoted build output path.
	Command string `json:"command"`
	LogPath string `json:"log_path"`
}

type HistoryConfig struct {
	DBPath     string `json:"db_path" validate:"required"`
	MaxUploads int    `json:"max_uploads" validate:"gte=0"`
}

type NotificationConfig struct {
	WebhookURL string `json:"webhook_url" validate:"omitempty,url"`
}

// Platform describes the SteamCMD distributable for an operating system.
type Platform struct {
	DownloadURL       string
	ExecutableName    string
	DependencyLibrary string
}

// PlatformFor returns the SteamCMD distributable for goos.
func PlatformFor(goos string) Platform {
	switch goos {
	case "windows":
		return Platform{
			DownloadURL:       "https://steamcdn-a.akamaihd.net/client/installer/steamcmd.zip",
			ExecutableName:    "steamcmd.exe",
			DependencyLibrary: "steam.dll",
		}
	case "darwin":
		return Platform{
			DownloadURL:       "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_osx.tar.gz",
			ExecutableName:    "steamcmd.sh",
			DependencyLibrary: "steamclient.dylib",
		}
	default:
		return Platform{
			DownloadURL:       "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_linux.tar.gz",
			ExecutableName:    "steamcmd.sh",
			DependencyLibrary: "linux32/steamclient.so",
		}
	}
}

// DefaultConfig builds the configuration used when no config file is found.
func DefaultConfig(projectRoot, homeDir, goos string) UploaderConfig {
	platform := PlatformFor(goos)
	installRoot := homeDir
	if goos == "windows" {
		installRoot = filepath.VolumeName(homeDir) + string(filepath.Separator)
	}
	settingsFile, workdir := projectPaths(projectRoot)

	return UploaderConfig{
		ProjectRoot:  projectRoot,
		SettingsFile: settingsFile,
		Workdir:      workdir,
		SteamCMD: SteamCMDConfig{
			DownloadURL:       platform.DownloadURL,
			ExecutableName:    platform.ExecutableName,
			DependencyLibrary: platform.DependencyLibrary,
			DefaultInstallDir: filepath.Join(installRoot, SteamCMDFolder),
			InitExitCode:      7,
		},
		Build: BuildConfig{
			LogPath: filepath.Join(workdir, "build.log"),
		},
		History: HistoryConfig{
			DBPath:     filepath.Join(workdir, "history.db"),
			MaxUploads: 200,
		},
	}
}

// LoadConfig load uploader config from file
func LoadConfig() (config UploaderConfig, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}

	configPaths := []string{
		"./depot-uploader.yml",
		filepath.Join(homeDir, ".config", "depot-uploader", "config.yml"),
		"/etc/depot-uploader/config.yml",
	}
	configPath := os.Getenv("DEPOT_UPLOADER_CONFIG_PATH")
	if len(configPath) > 0 {
		configPaths = []string{configPath}
	}

	config = DefaultConfig(cwd, homeDir, runtime.GOOS)
	for _, path := range configPaths {
		yamlFile, readErr := ioutil.ReadFile(path)
		if readErr != nil {
			continue
		}
		log.Println("load config from : ", path)
		return ParseConfig(yamlFile, config)
	}
	if len(configPath) > 0 {
		return config, fmt.Errorf("config file %s: %w", configPath, os.ErrNotExist)
	}

	err = validator.New().Struct(config)
	return
}

// ParseConfig overlays the YAML document on defaults, resolves relative paths
// against the project root and validates the result.
func ParseConfig(yamlFile []byte, defaults UploaderConfig) (config UploaderConfig, err error) {
	config = defaults
	err = yaml.Unmarshal(yamlFile, &config)
	if err != nil {
		return
	}

	if config.ProjectRoot != defaults.ProjectRoot {
		// derived paths follow a relocated project root unless set explicitly
		if abs, absErr := filepath.Abs(config.ProjectRoot); absErr == nil {
			config.ProjectRoot = abs
		}
		settingsFile, workdir := projectPaths(config.ProjectRoot)
		if config.SettingsFile == defaults.SettingsFile {
			config.SettingsFile = settingsFile
		}
		if config.Workdir == defaults.Workdir {
			config.Workdir = workdir
		}
		if config.History.DBPath == defaults.History.DBPath {
			config.History.DBPath = filepath.Join(config.Workdir, "history.db")
		}
		if config.Build.LogPath == defaults.Build.LogPath {
			config.Build.LogPath = filepath.Join(config.Workdir, "build.log")
		}
	}

	config.SettingsFile = resolve(config.ProjectRoot, config.SettingsFile)
	config.Workdir = resolve(config.ProjectRoot, config.Workdir)
	config.History.DBPath = resolve(config.ProjectRoot, config.History.DBPath)
	config.Build.LogPath = resolve(config.ProjectRoot, config.Build.LogPath)
	validate := validator.New()
	err = validate.Struct(config)

	return
}

func projectPaths(projectRoot string) (settingsFile, workdir string) {
	settingsFile = filepath.Join(projectRoot, "ProjectSettings", SettingsFileName)
	workdir = filepath.Join(projectRoot, "Temp", "SteamDepotUploader")
	return
}

func resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
