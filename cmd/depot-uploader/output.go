package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

var (
	green  = color.New(color.FgHiGreen)
	red    = color.New(color.FgHiRed)
	yellow = color.New(color.FgHiYellow)
	cyan   = color.New(color.FgHiCyan)
	white  = color.New(color.FgHiWhite)
)

func printResult(result entity.UploadResult) {
	if result.Success {
		green.Println("Upload successful!")
	} else {
		red.Printf("Upload failed with exit code %d\n", result.ExitCode)
	}

	printField("Upload", result.ID)
	printField("Time", result.Timestamp.Local().Format("2006-01-02 15:04:05"))
	printField("App ID", result.AppID)
	printField("Depot ID", result.DepotID)
	printField("Build ID", orDash(result.BuildID))
	printField("Depot build ID", orDash(result.UploadID))
	printField("Build path", result.BuildPath)
}

func printResultRow(result entity.UploadResult) {
	status := green.Sprint("OK  ")
	if !result.Success {
		status = red.Sprintf("%-4d", result.ExitCode)
	}
	fmt.Printf("%s  %s  %s  app %-8s depot %-8s build %s\n",
		status,
		result.Timestamp.Local().Format("2006-01-02 15:04"),
		result.ID,
		result.AppID,
		result.DepotID,
		orDash(result.BuildID),
	)
}

func printField(name, value string) {
	white.Printf("  %-16s", name+":")
	fmt.Println(value)
}

func printCheck(ok bool, label, detail string) {
	mark := green.Sprint("✓")
	if !ok {
		mark = red.Sprint("✗")
	}
	fmt.Printf("  %s %-22s %s\n", mark, label, detail)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat("*", len(s))
}
