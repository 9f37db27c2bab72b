package repository

import (
	"context"
	"log"
	"runtime"
	"strings"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/usecase"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/systemutil"
)

const outputPlaceholder = "{output}"

// ShellBuilder runs the configured player build command through bash, or
// through cmd.exe when GOOS is windows.
type ShellBuilder struct {
	Command string
	LogPath string
	// GOOS overrides runtime.GOOS when set.
	GOOS string
}

func (b ShellBuilder) Build(ctx context.Context, outputDir string) error {
	if strings.TrimSpace(b.Command) == "" {
		return usecase.NewUsecaseError(usecase.ErrConfigInvalid,
			"No build command configured. Set build.command in the config file.", nil)
	}

	cmdStr := b.commandLine(outputDir)
	log.Println("[Build] " + cmdStr)
	_, err := systemutil.ShellExecContext(ctx, b.goos(), cmdStr, "Player build into "+outputDir, b.LogPath)
	return err
}

func (b ShellBuilder) commandLine(outputDir string) string {
	return strings.ReplaceAll(b.Command, outputPlaceholder, systemutil.ShellQuoteFor(b.goos(), outputDir))
}

func (b ShellBuilder) goos() string {
	if b.GOOS != "" {
		return b.GOOS
	}
	return runtime.GOOS
}
