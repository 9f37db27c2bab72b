//go:build !windows

package systemutil

import "os/exec"

// setRawCmdLine is only meaningful on Windows, where cmd.exe parses its own command line.
func setRawCmdLine(cmd *exec.Cmd, line string) {}
