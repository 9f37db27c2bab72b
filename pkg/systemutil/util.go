package systemutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hpcloud/tail"
)

// CmdExec run os command
func CmdExec(cmdStr string, cmdDesc string, logPath string) (out string, err error) {
	return CmdExecContext(context.Background(), cmdStr, cmdDesc, logPath)
}

// CmdExecContext runs cmdStr through bash, optionally teeing its output into logPath.
func CmdExecContext(ctx context.Context, cmdStr string, cmdDesc string, logPath string) (out string, err error) {
	if len(cmdStr) == 0 {
		return "", errors.New("No command string provided.")
	}

	if len(logPath) > 0 {
		if err := writeCmdLogHeader(logPath, cmdStr, cmdDesc); err != nil {
			return "", err
		}
		cmdStr += " 2>&1 | tee -a " + ShellQuote(logPath)
	}
	// `set -o pipefail` will forces to return the original exit code
	output, err := exec.CommandContext(ctx, "bash", "-c", "set -o pipefail && "+cmdStr).Output()
	out = string(output)

	return
}

// ShellExecContext runs cmdStr through the shell of goos: cmd.exe on Windows, bash elsewhere.
func ShellExecContext(ctx context.Context, goos string, cmdStr string, cmdDesc string, logPath string) (string, error) {
	if goos != "windows" {
		return CmdExecContext(ctx, cmdStr, cmdDesc, logPath)
	}
	if len(cmdStr) == 0 {
		return "", errors.New("No command string provided.")
	}

	var output bytes.Buffer
	cmd := WindowsShellCommand(ctx, cmdStr)
	cmd.Stdout = &output
	cmd.Stderr = &output
	if len(logPath) > 0 {
		if err := writeCmdLogHeader(logPath, cmdStr, cmdDesc); err != nil {
			return "", err
		}
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return "", err
		}
		defer f.Close()
		cmd.Stdout = io.MultiWriter(&output, f)
		cmd.Stderr = cmd.Stdout
	}
	err := cmd.Run()
	return output.String(), err
}

// WindowsShellCommand wraps cmdStr in `cmd /S /C "..."` so cmd.exe sees the
// command line exactly as written.
func WindowsShellCommand(ctx context.Context, cmdStr string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "cmd", "/S", "/C", cmdStr)
	setRawCmdLine(cmd, `cmd /S /C "`+cmdStr+`"`)
	return cmd
}

func writeCmdLogHeader(logPath string, cmdStr string, cmdDesc string) error {
	if err := os.MkdirAll(filepath.Dir(logPath), os.ModePerm); err != nil {
		return err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _ = f.WriteString("\n")
	if len(cmdDesc) > 0 {
		for _, desc := range strings.Split(cmdDesc, "\n") {
			_, _ = f.WriteString("##### " + desc + "\n")
		}
	}
	_, err = f.WriteString("##### RUN " + cmdStr + "\n")
	return err
}

// ShellQuote wraps s in single quotes for bash.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ShellQuoteFor quotes s for the shell ShellExecContext picks for goos.
// Windows paths cannot contain double quotes, so wrapping is enough there.
func ShellQuoteFor(goos string, s string) string {
	if goos == "windows" {
		return `"` + s + `"`
	}
	return ShellQuote(s)
}

// StreamLog tailing a file
func StreamLog(path string, follow bool) error {
	t, err := tail.TailFile(path, tail.Config{Follow: follow, MustExist: true, Logger: tail.DiscardingLogger})
	if err != nil {
		log.Printf("error: %v\n", err)
		return err
	}
	for line := range t.Lines {
		if line.Err != nil {
			return line.Err
		}
		fmt.Println(line.Text)
	}
	return t.Wait()
}
