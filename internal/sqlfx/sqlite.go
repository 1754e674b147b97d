package sqlfx

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/backuptools/resticsetup/pkg/config"
	"github.com/backuptools/resticsetup/pkg/provision"
)

//go:embed migrations/*.sql
var migrations embed.FS

type SqliteConfig struct {
	Path         string
	DatabaseName string
}

// SqliteConfigProvider depends on the validated configuration, which keeps
// the database from being touched before the required keys are checked.
func SqliteConfigProvider(cfg *config.Config, paths *provision.Paths) *SqliteConfig {
	path := cfg.DatabasePath
	if path == "" {
		path = paths.DatabaseFile
	}

	return &SqliteConfig{
		Path:         path,
		DatabaseName: "resticsetup",
	}
}

func OpenSqliteDatabase(config *SqliteConfig, logger *logrus.Logger) (*sqlx.DB, error) {
	logger.WithField("path", config.Path).Debug("Opening audit database")

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, errors.Wrap(err, "Unable to create audit database directory")
	}

	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", config.Path))
	if err != nil {
		return nil, errors.Wrap(err, "Unable to open audit database")
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Unable to load embedded migrations")
	}

	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Unable to create instance of migrate")
	}

	m, err := migrate.NewWithInstance("iofs", source, config.DatabaseName, driver)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Unable to create migrator")
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		db.Close()
		return nil, errors.Wrap(err, "Unable to migrate DB")
	}

	return db, nil
}
