package repository

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/usecase"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/systemutil"
)

// ProcessRunner starts SteamCMD with its output captured line by line.
type ProcessRunner struct{}

func (runner ProcessRunner) Start(ctx context.Context, executable, workDir string, args ...string) (usecase.OutputStream, error) {
	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = workDir
	stream, err := systemutil.StartCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", executable, err)
	}
	return stream, nil
}
