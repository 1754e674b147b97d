package sqlfx

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"github.com/backuptools/resticsetup/pkg/provision"
	"github.com/backuptools/resticsetup/pkg/storage"
)

// RunsRecorder opens the audit database lazily and degrades to a no-op
// recorder when it cannot: the audit trail is an aid, never a precondition
// for provisioning.
func RunsRecorder(lc fx.Lifecycle, config *SqliteConfig, logger *logrus.Logger) provision.RunRecorder {
	db, err := OpenSqliteDatabase(config, logger)
	if err != nil {
		logger.WithError(err).Warn("Unable to open audit database, provisioning runs will not be recorded")
		return storage.NopRunRepository{}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return storage.NewRunRepository(db)
}
