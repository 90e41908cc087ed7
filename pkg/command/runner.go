// Package command runs user configured shell commands.
package command

import (
	"bytes"
	"os/exec"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Runner runs a command string and waits for it to exit.
type Runner interface {
	Run(cmdline string) error
}

var _ Runner = &ShellRunner{}

// ShellRunner appends the command string to a shell argv, e.g.
// ["/bin/sh", "-c"].
type ShellRunner struct {
	shell []string
}

func NewShellRunner(shell []string) *ShellRunner {
	if len(shell) == 0 {
		shell = []string{"/bin/sh", "-c"}
	}
	return &ShellRunner{shell: shell}
}

// Run blocks until the command exits. An empty command does nothing.
func (s *ShellRunner) Run(cmdline string) error {
	if strings.TrimSpace(cmdline) == "" {
		return nil
	}

	args := append(append([]string{}, s.shell[1:]...), cmdline)
	cmd := exec.Command(s.shell[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logrus.WithField("command", cmdline).Debug("running command")
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return pkgerrors.Wrapf(err, "command %q failed: %s", cmdline, msg)
		}
		return pkgerrors.Wrapf(err, "command %q failed", cmdline)
	}

	return nil
}
