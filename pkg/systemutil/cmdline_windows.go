//go:build windows

package systemutil

import (
	"os/exec"
	"syscall"
)

func setRawCmdLine(cmd *exec.Cmd, line string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: line}
}
