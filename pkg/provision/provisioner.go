package provision

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/backuptools/resticsetup/pkg/appcontext"
)

const (
	StageInstall     = "install"
	StageEnvironment = "environment"
	StageScript      = "script"
	StageSchedule    = "schedule"
)

type installer interface {
	EnsureInstalled(ctx context.Context, version string) error
}

type environmentSetup interface {
	Apply(ctx context.Context) error
}

type scriptGenerator interface {
	Generate(ctx context.Context) (string, error)
}

type schedulerRegistrar interface {
	EnsureJob(ctx context.Context, scriptPath string) error
}

// RunRecorder persists the provisioning audit trail. Recording failures must
// never fail provisioning, so the Provisioner only warns about them.
type RunRecorder interface {
	Create(ctx context.Context, run Run) (Run, error)
	Update(ctx context.Context, run Run) error
	FindLatest(ctx context.Context) (Run, error)
}

// Provisioner runs the four stages strictly in order, aborting the whole run
// on the first fatal stage failure.
type Provisioner struct {
	logger logrus.FieldLogger

	version string

	installer   installer
	environment environmentSetup
	script      scriptGenerator
	scheduler   schedulerRegistrar

	recorder RunRecorder
}

func NewProvisioner(
	logger logrus.FieldLogger,
	version string,
	installer installer,
	environment environmentSetup,
	script scriptGenerator,
	scheduler schedulerRegistrar,
	recorder RunRecorder,
) *Provisioner {
	return &Provisioner{
		logger: logger,

		version: version,

		installer:   installer,
		environment: environment,
		script:      script,
		scheduler:   scheduler,

		recorder: recorder,
	}
}

func (p *Provisioner) Run(ctx context.Context) error {
	if last, err := p.recorder.FindLatest(ctx); err == nil {
		p.logger.WithFields(logrus.Fields{
			"started_at": last.StartedAt,
			"status":     last.Status,
		}).Debug("Previous provisioning run")
	}

	run := p.createRun(ctx)

	ctx = appcontext.WithRunId(ctx, run.Id)

	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StageInstall, func(ctx context.Context) error {
			return p.installer.EnsureInstalled(ctx, p.version)
		}},
		{StageEnvironment, p.environment.Apply},
		{StageScript, func(ctx context.Context) error {
			scriptPath, err := p.script.Generate(ctx)
			run.ScriptPath = scriptPath
			return err
		}},
		{StageSchedule, func(ctx context.Context) error {
			return p.scheduler.EnsureJob(ctx, run.ScriptPath)
		}},
	}

	for _, stage := range stages {
		if err := p.runStage(ctx, stage.name, stage.fn); err != nil {
			p.finishRun(ctx, run, RunStatusFailure, stage.name)
			return err
		}
	}

	p.finishRun(ctx, run, RunStatusSuccess, "")

	p.logger.Info("Setup complete")

	return nil
}

func (p *Provisioner) runStage(ctx context.Context, stage string, fn func(context.Context) error) error {
	ctx = appcontext.WithStage(ctx, stage)
	logger := appcontext.LoggerFromContext(p.logger, ctx)

	logger.Debug("Running stage")

	if err := fn(ctx); err != nil {
		logger.WithError(err).Error("Stage failed")
		return errors.Wrapf(err, "stage '%s' failed", stage)
	}

	return nil
}

func (p *Provisioner) createRun(ctx context.Context) Run {
	run := Run{
		ResticVersion: p.version,
		Status:        RunStatusStarted,
		StartedAt:     time.Now(),
	}

	run, err := p.recorder.Create(ctx, run)
	if err != nil {
		p.logger.WithError(err).Warn("Unable to record provisioning run")
	}

	return run
}

func (p *Provisioner) finishRun(ctx context.Context, run Run, status runStatus, failedStage string) {
	// a run that was never created has no row to update
	if run.Id == 0 {
		return
	}

	now := time.Now()

	run.Status = status
	run.FailedStage = failedStage
	run.FinishedAt = &now

	if err := p.recorder.Update(ctx, run); err != nil {
		appcontext.LoggerFromContext(p.logger, ctx).WithError(err).Warn("Unable to record provisioning run outcome")
	}
}
