package provisionfx

import (
	"context"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/backuptools/resticsetup/pkg/config"
	"github.com/backuptools/resticsetup/pkg/crontab"
	"github.com/backuptools/resticsetup/pkg/environment"
	"github.com/backuptools/resticsetup/pkg/execx"
	"github.com/backuptools/resticsetup/pkg/install"
	"github.com/backuptools/resticsetup/pkg/provision"
	"github.com/backuptools/resticsetup/pkg/script"
)

func LoadConfig(v *viper.Viper) (*config.Config, error) {
	var cfg config.Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "Unable to unmarshal configuration")
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func PathsProvider() (*provision.Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to determine home directory")
	}

	return provision.DefaultPaths(home), nil
}

func CommandRunner(logger *logrus.Logger) execx.Runner {
	return execx.New(logger)
}

func HttpClient() *http.Client {
	// no overall timeout: the download is bounded by the transport only
	return &http.Client{}
}

func ResticInstaller(
	logger *logrus.Logger,
	client *http.Client,
	run execx.Runner,
	paths *provision.Paths,
) *install.Installer {
	return install.New(logger, client, run, paths)
}

func EnvironmentSetup(
	logger *logrus.Logger,
	cfg *config.Config,
	paths *provision.Paths,
) *environment.Setup {
	return environment.New(logger, paths, cfg.BackupPassword, cfg.ExcludePaths)
}

func ScriptGenerator(
	logger *logrus.Logger,
	cfg *config.Config,
	paths *provision.Paths,
) (*script.Generator, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to determine hostname")
	}

	return script.New(logger, paths, script.Config{
		Repository:     cfg.Repository,
		HealthcheckURL: cfg.HealthcheckURL,
		Hostname:       hostname,
		Sources:        cfg.SourcePaths,
	}), nil
}

func CrontabRegistrar(
	logger *logrus.Logger,
	run execx.Runner,
	cfg *config.Config,
) *crontab.Registrar {
	return crontab.New(logger, run, cfg.CronSchedule)
}

func Provisioner(
	logger *logrus.Logger,
	cfg *config.Config,
	installer *install.Installer,
	environment *environment.Setup,
	generator *script.Generator,
	registrar *crontab.Registrar,
	recorder provision.RunRecorder,
) *provision.Provisioner {
	return provision.NewProvisioner(logger, cfg.ResticVersion, installer, environment, generator, registrar, recorder)
}

func RunProvisioner(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	logger *logrus.Logger,
	provisioner *provision.Provisioner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := provisioner.Run(context.Background()); err != nil {
					logger.WithError(err).Error("Provisioning failed")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}

				_ = shutdowner.Shutdown()
			}()

			return nil
		},
	})
}
