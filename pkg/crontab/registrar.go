package crontab

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/backuptools/resticsetup/pkg/execx"
)

// Registrar ensures the user crontab invokes the backup script. Uniqueness
// is a plain substring check against the current table: first write wins,
// a changed schedule for the same script is never updated.
type Registrar struct {
	logger logrus.FieldLogger

	run      execx.Runner
	schedule string
}

func New(logger logrus.FieldLogger, run execx.Runner, schedule string) *Registrar {
	return &Registrar{
		logger: logger,

		run:      run,
		schedule: schedule,
	}
}

func (r *Registrar) EnsureJob(ctx context.Context, scriptPath string) error {
	r.previewSchedule()

	table := ""
	out, err := r.run.Output(ctx, "crontab", "-l")
	if err != nil {
		// no crontab for this user yet
		r.logger.WithError(err).Debug("Unable to read crontab, assuming empty table")
	} else {
		table = string(out)
	}

	if strings.Contains(table, scriptPath) {
		r.logger.Info("Cron job already exists")
		return nil
	}

	entry := fmt.Sprintf("%s %s\n", r.schedule, scriptPath)

	if err := r.run.RunWithInput(ctx, table+entry, "crontab", "-"); err != nil {
		return errors.Wrap(err, "unable to install crontab")
	}

	r.logger.WithField("schedule", r.schedule).Info("Cron job added")

	return nil
}

// previewSchedule logs when the job would fire next. The expression is
// installed verbatim whether or not it parses: cron implementations accept
// more than the standard five-field syntax.
func (r *Registrar) previewSchedule() {
	schedule, err := cron.ParseStandard(r.schedule)
	if err != nil {
		r.logger.WithError(err).Warn("Unrecognized schedule expression, installing verbatim")
		return
	}

	r.logger.WithField("next_run", schedule.Next(time.Now())).Debug("Next scheduled backup")
}
