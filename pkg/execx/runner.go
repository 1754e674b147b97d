package execx

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Runner is the boundary for every external process this tool spawns,
// including the privileged ones. Implementations must capture the exit
// status, so the privilege boundary stays auditable in the logs.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	RunWithInput(ctx context.Context, input string, name string, args ...string) error
}

type ExecRunner struct {
	logger logrus.FieldLogger
}

func New(logger logrus.FieldLogger) *ExecRunner {
	return &ExecRunner{
		logger: logger,
	}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	err := cmd.Run()
	r.logResult(cmd, name, args, err)

	if err != nil {
		return errors.Wrapf(err, "command '%s' failed", commandLine(name, args))
	}

	return nil
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	out, err := cmd.Output()
	r.logResult(cmd, name, args, err)

	if err != nil {
		return nil, errors.Wrapf(err, "command '%s' failed", commandLine(name, args))
	}

	return out, nil
}

func (r *ExecRunner) RunWithInput(ctx context.Context, input string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)

	err := cmd.Run()
	r.logResult(cmd, name, args, err)

	if err != nil {
		return errors.Wrapf(err, "command '%s' failed", commandLine(name, args))
	}

	return nil
}

func (r *ExecRunner) logResult(cmd *exec.Cmd, name string, args []string, err error) {
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	logger := r.logger.WithFields(logrus.Fields{
		"command":   commandLine(name, args),
		"exit_code": exitCode,
	})

	if err != nil {
		logger.WithError(err).Debug("Command failed")
		return
	}

	logger.Debug("Command finished")
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
