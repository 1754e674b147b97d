package main

import (
	"time"

	"go.uber.org/fx"

	"github.com/backuptools/resticsetup/internal/configfx"
	"github.com/backuptools/resticsetup/internal/loggerfx"
	"github.com/backuptools/resticsetup/internal/provisionfx"
	"github.com/backuptools/resticsetup/internal/sqlfx"
)

func main() {
	logger := loggerfx.Logger()

	app := fx.New(
		fx.StartTimeout(15*time.Second),
		fx.StopTimeout(15*time.Second),

		fx.Logger(logger),

		loggerfx.Module,
		configfx.Module,
		sqlfx.Module,
		provisionfx.Module,
	)

	app.Run()
}
