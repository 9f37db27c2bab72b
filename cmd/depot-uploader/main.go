package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli"

	"github.com/galacticworkshop/steam-depot-uploader/internal/config"
	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/usecase"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/systemutil"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/vdf"
)

var (
	app     *cli.App
	version string

	uploaderConfig config.UploaderConfig
	depotUploader  *uploader

	appID           string
	depotID         string
	buildOutputPath string
	username        string
	password        string
	description     string
	installPath     string
	historyLimit    int
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	app = cli.NewApp()
	app.Name = "depot-uploader"
	app.Usage = "Upload game builds to Steam depots with SteamCMD"
	app.Author = "Galactic Workshop"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Show SteamCMD output and internal logs",
		},
	}

	app.Before = func(c *cli.Context) (err error) {
		if !c.Bool("verbose") {
			log.SetOutput(io.Discard)
		}
		uploaderConfig, err = config.LoadConfig()
		if err != nil {
			return
		}
		depotUploader, err = newUploader(uploaderConfig)
		return
	}
	app.After = func(c *cli.Context) error {
		if depotUploader != nil {
			depotUploader.Close()
		}
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:  "config",
			Usage: "Show or change depot and account settings",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "app-id", Destination: &appID, Usage: "Steam App ID"},
				cli.StringFlag{Name: "depot-id", Destination: &depotID, Usage: "Steam Depot ID"},
				cli.StringFlag{Name: "build-output", Destination: &buildOutputPath, Usage: "Build output directory, relative to the project root"},
				cli.StringFlag{Name: "username", Destination: &username, Usage: "Steam username"},
				cli.StringFlag{Name: "password", Destination: &password, Usage: "Steam password"},
				cli.StringFlag{Name: "description", Destination: &description, Usage: "Build description"},
				cli.StringFlag{Name: "install-path", Destination: &installPath, Usage: "Custom SteamCMD install directory"},
				cli.BoolFlag{Name: "interactive, i", Usage: "Prompt for every setting"},
				cli.BoolFlag{Name: "reset-depot", Usage: "Reset the depot settings to their defaults"},
				cli.BoolFlag{Name: "clear-account", Usage: "Remove the stored Steam credentials"},
			},
			Action: func(c *cli.Context) (err error) {
				if c.Bool("interactive") {
					err = promptSettings()
				} else {
					err = applySettingFlags(c)
				}
				if err != nil {
					return
				}
				printSettings()
				return
			},
		},
		{
			Name:  "install",
			Usage: "Download and initialize SteamCMD",
			Action: func(c *cli.Context) (err error) {
				fmt.Println("Installing SteamCMD into " + depotUploader.installer.InstallDir() + " ...")
				bar := progressbar.NewOptions64(100,
					progressbar.OptionSetDescription("Installing SteamCMD"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetPredictTime(false),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetRenderBlankState(true),
				)
				report, err := depotUploader.installer.Install(context.Background(), func(p entity.Progress) {
					bar.Describe(p.Stage)
					bar.Set64(int64(p.Fraction * 100))
				})
				bar.Finish()
				fmt.Println()
				if err != nil {
					return
				}
				if report.AlreadyInstalled {
					yellow.Println("SteamCMD is already installed.")
				} else {
					green.Println("SteamCMD installed and initialized successfully.")
				}
				printField("Executable", report.Installation.ExecutablePath)
				if report.InitLogPath != "" {
					printField("Init log", report.InitLogPath)
				}
				return
			},
		},
		{
			Name:      "auth-code",
			Usage:     "Request a Steam Guard code, or store the given one",
			ArgsUsage: "[code]",
			Action: func(c *cli.Context) (err error) {
				account := depotUploader.account
				if code := strings.TrimSpace(c.Args().First()); code != "" {
					err = account.SetAuthCode(code)
					if err == nil {
						green.Println("Auth code saved.")
					}
					return
				}

				if !depotUploader.installer.IsInstalled() {
					return errors.New("SteamCMD is not installed. Run `depot-uploader install` first.")
				}
				fmt.Println("Requesting auth code for " + account.Credentials.Username + " ...")
				outcome, err := account.RequestAuthCode(context.Background(), depotUploader.installer.SteamCmdPath)
				if err != nil {
					return
				}
				switch outcome {
				case entity.AuthCodeEmailSent:
					cyan.Println("Auth code sent to your email.")
				case entity.AuthCodeAppSent:
					cyan.Println("Please check your Steam mobile app for the auth code.")
				default:
					yellow.Println("No auth code was requested. The account may not need one on this machine.")
					return
				}

				code, err := depotUploader.prompter.PromptAuthCode("Auth code")
				if err != nil || code == "" {
					return
				}
				err = account.SetAuthCode(code)
				if err == nil {
					green.Println("Auth code saved.")
				}
				return
			},
		},
		{
			Name:  "upload",
			Usage: "Upload the build output directory to the Steam depot",
			Action: func(c *cli.Context) (err error) {
				fmt.Println("Uploading " + depotUploader.upload.Depot.AbsoluteBuildPath() + " ...")
				result, err := depotUploader.upload.Upload(context.Background())
				return reportUpload(result, err)
			},
		},
		{
			Name:  "build-upload",
			Usage: "Run the configured build command, then upload its output",
			Action: func(c *cli.Context) (err error) {
				fmt.Println("Building into " + depotUploader.upload.Depot.AbsoluteBuildPath() + " ...")
				result, err := depotUploader.upload.BuildAndUpload(context.Background())
				if errors.Is(err, usecase.ErrBuildFailed) {
					red.Println("The build has failed. Upload skipped.")
					return
				}
				return reportUpload(result, err)
			},
		},
		{
			Name:  "exclusions",
			Usage: "Manage file exclusion patterns",
			Subcommands: []cli.Command{
				{
					Name:  "list",
					Usage: "List the exclusion patterns",
					Action: func(c *cli.Context) error {
						for _, exclusion := range depotUploader.upload.FileExclusions {
							fmt.Println(exclusion)
						}
						return nil
					},
				},
				{
					Name:      "add",
					Usage:     "Add an exclusion pattern",
					ArgsUsage: "<pattern>",
					Action: func(c *cli.Context) (err error) {
						added, ok, err := depotUploader.upload.AddExclusion(c.Args().First())
						if err != nil {
							return
						}
						if !ok {
							yellow.Println("Nothing added.")
							return
						}
						green.Println("Added " + added)
						return
					},
				},
				{
					Name:      "remove",
					Usage:     "Remove an exclusion pattern",
					ArgsUsage: "<pattern>",
					Action: func(c *cli.Context) (err error) {
						removed, ok, err := depotUploader.upload.RemoveExclusion(c.Args().First())
						if err != nil {
							return
						}
						if !ok {
							yellow.Println(removed + " is not in the exclusion list.")
							return
						}
						green.Println("Removed " + removed)
						return
					},
				},
			},
		},
		{
			Name:  "status",
			Usage: "Check whether everything is ready for an upload",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "manifest", Usage: "Print the app build script"},
			},
			Action: func(c *cli.Context) error {
				printStatus()
				if c.Bool("manifest") {
					fmt.Println()
					fmt.Print(string(vdf.Marshal(usecase.ManifestDocument(depotUploader.upload.Manifest()))))
				}
				return nil
			},
		},
		{
			Name:      "history",
			Usage:     "List recent uploads, or show one",
			ArgsUsage: "[upload]",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "limit, n", Value: 10, Destination: &historyLimit, Usage: "Number of uploads to list"},
				cli.BoolFlag{Name: "output", Usage: "Include the SteamCMD output"},
			},
			Action: func(c *cli.Context) (err error) {
				if id := c.Args().First(); id != "" || c.Bool("output") {
					result, err := depotUploader.upload.GetUpload(id)
					if err != nil {
						return err
					}
					printResult(result)
					if c.Bool("output") {
						fmt.Println()
						fmt.Print(result.LogOutput)
					}
					return nil
				}

				results, err := depotUploader.upload.RecentUploads(historyLimit)
				if err != nil {
					return
				}
				if len(results) == 0 {
					fmt.Println("No uploads yet.")
				}
				for _, result := range results {
					printResultRow(result)
				}
				return
			},
		},
		{
			Name:  "log",
			Usage: "Read the SteamCMD output of the last upload",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "follow, f", Usage: "Keep reading as SteamCMD writes"},
				cli.BoolFlag{Name: "init", Usage: "Read the SteamCMD initialization log instead"},
			},
			Action: func(c *cli.Context) error {
				path := depotUploader.upload.UploadLogPath()
				if c.Bool("init") {
					path = depotUploader.initLogPath()
				}
				return systemutil.StreamLog(path, c.Bool("follow"))
			},
		},
		{
			Name:  "update",
			Usage: "Update depot-uploader to the latest release",
			Action: func(c *cli.Context) (err error) {
				fmt.Println("Self-updating...")
				tag, updated, err := depotUploader.update.SelfUpdate(context.Background())
				if err != nil {
					return
				}
				if !updated {
					fmt.Println("Already up to date (" + tag + ").")
					return
				}
				green.Println("Updated to " + tag)
				return
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		red.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func reportUpload(result entity.UploadResult, err error) error {
	if result.ID != "" {
		printResult(result)
	}
	if errors.Is(err, usecase.ErrAuthCodeRejected) {
		yellow.Println("Run `depot-uploader auth-code` if you need a new code.")
	}
	return err
}

func applySettingFlags(c *cli.Context) error {
	upload := depotUploader.upload
	account := depotUploader.account

	if c.Bool("reset-depot") {
		upload.Depot.Reset()
	}
	if c.IsSet("app-id") {
		upload.Depot.AppID = strings.TrimSpace(appID)
	}
	if c.IsSet("depot-id") {
		upload.Depot.DepotID = strings.TrimSpace(depotID)
	}
	if c.IsSet("build-output") {
		upload.Depot.BuildOutputPath = upload.Depot.ProjectRelative(buildOutputPath)
	}
	if c.IsSet("description") {
		upload.Description = description
	}
	if err := upload.SaveSettings(); err != nil {
		return err
	}

	if c.Bool("clear-account") {
		if err := account.Clear(); err != nil {
			return err
		}
	}
	if c.IsSet("username") {
		account.Credentials.Username = strings.TrimSpace(username)
	}
	if c.IsSet("password") {
		account.Credentials.Password = password
	}
	if err := account.SaveSettings(); err != nil {
		return err
	}

	if c.IsSet("install-path") {
		return depotUploader.installer.SetCustomInstallPath(strings.TrimSpace(installPath))
	}
	return nil
}

func promptSettings() (err error) {
	upload := depotUploader.upload
	account := depotUploader.account
	prompter := depotUploader.prompter

	fields := []struct {
		label  string
		target *string
		secret bool
	}{
		{"App ID", &upload.Depot.AppID, false},
		{"Depot ID", &upload.Depot.DepotID, false},
		{"Build output path", &upload.Depot.BuildOutputPath, false},
		{"Description", &upload.Description, false},
		{"Steam username", &account.Credentials.Username, false},
		{"Steam password", &account.Credentials.Password, true},
	}
	for _, field := range fields {
		*field.target, err = prompter.PromptValue(field.label, *field.target, field.secret)
		if err != nil {
			return
		}
	}
	upload.Depot.BuildOutputPath = upload.Depot.ProjectRelative(upload.Depot.BuildOutputPath)

	if !upload.Depot.BuildOutputExists() &&
		prompter.Confirm("Build output directory does not exist. Create it") {
		if _, err = upload.Depot.EnsureBuildOutput(); err != nil {
			return
		}
	}

	if err = upload.SaveSettings(); err != nil {
		return
	}
	return account.SaveSettings()
}

func printSettings() {
	upload := depotUploader.upload
	account := depotUploader.account

	cyan.Println("Depot")
	printField("App ID", upload.Depot.AppID)
	printField("Depot ID", upload.Depot.DepotID)
	printField("Build output", upload.Depot.BuildOutputPath)
	printField("Description", upload.Description)
	printField("Exclusions", strings.Join(upload.FileExclusions, ", "))
	cyan.Println("Account")
	printField("Username", account.Credentials.Username)
	printField("Password", mask(account.Credentials.Password))
	printField("Auth code", account.Credentials.AuthCode)
	cyan.Println("SteamCMD")
	printField("Install path", depotUploader.installer.InstallDir())
	printField("Executable", depotUploader.installer.SteamCmdPath)
	printField("Settings file", depotUploader.prefs.Path())
}

func printStatus() {
	upload := depotUploader.upload
	installer := depotUploader.installer

	printCheck(installer.IsInstalled(), "SteamCMD installed", installer.SteamCmdPath)
	printCheck(depotUploader.account.Credentials.CredentialsSet(), "Credentials set", depotUploader.account.Credentials.Username)
	printCheck(upload.Depot.IsValid(), "Depot settings valid", fmt.Sprintf("app %s depot %s", orDash(upload.Depot.AppID), orDash(upload.Depot.DepotID)))
	printCheck(upload.Depot.BuildOutputExists(), "Build output exists", upload.Depot.AbsoluteBuildPath())
	if size, files, err := systemutil.DirSize(upload.Depot.AbsoluteBuildPath()); err == nil {
		fmt.Printf("    %d files, %s\n", files, systemutil.FormatBytes(size))
	}

	if err := upload.Validate(); err != nil {
		fmt.Println()
		yellow.Println(err.Error())
		return
	}
	fmt.Println()
	green.Println("Ready to upload.")
}
