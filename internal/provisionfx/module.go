package provisionfx

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(LoadConfig),
	fx.Provide(PathsProvider),
	fx.Provide(CommandRunner),
	fx.Provide(HttpClient),
	fx.Provide(ResticInstaller),
	fx.Provide(EnvironmentSetup),
	fx.Provide(ScriptGenerator),
	fx.Provide(CrontabRegistrar),
	fx.Provide(Provisioner),
	fx.Invoke(RunProvisioner),
)
