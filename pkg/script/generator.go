package script

import (
	"bytes"
	"context"
	"os"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/backuptools/resticsetup/pkg/appcontext"
	"github.com/backuptools/resticsetup/pkg/provision"
)

// keepPolicy is the fixed retention rule set applied to every service:
// hourly/daily/weekly/monthly snapshot counts preserved before pruning.
var keepPolicy = []string{
	"--keep-hourly 2",
	"--keep-daily 6",
	"--keep-weekly 3",
	"--keep-monthly 1",
}

type Service struct {
	Name string
	Path string
}

type Config struct {
	Repository     string
	HealthcheckURL string
	Hostname       string
	Sources        map[string]string
}

// Generator renders the backup-and-retention shell script. Output is a pure
// function of the configuration: services are emitted in sorted name order,
// so identical configuration yields byte-identical scripts.
type Generator struct {
	logger logrus.FieldLogger

	paths *provision.Paths

	repository     string
	healthcheckURL string
	hostname       string
	services       []Service
}

func New(logger logrus.FieldLogger, paths *provision.Paths, config Config) *Generator {
	services := make([]Service, 0, len(config.Sources))
	for name, path := range config.Sources {
		services = append(services, Service{Name: name, Path: path})
	}

	sort.Slice(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})

	return &Generator{
		logger: logger,

		paths: paths,

		repository:     config.Repository,
		healthcheckURL: config.HealthcheckURL,
		hostname:       config.Hostname,
		services:       services,
	}
}

type templateData struct {
	ResticBinary   string
	PasswordFile   string
	ExcludeFile    string
	Repository     string
	Hostname       string
	HealthcheckURL string
	LogFile        string

	KeepFlags []string
	Services  []Service
}

// Render produces the full script content without touching the filesystem.
func (g *Generator) Render() (string, error) {
	data := templateData{
		ResticBinary:   g.paths.ResticBinary,
		PasswordFile:   g.paths.PasswordFile,
		ExcludeFile:    g.paths.ExcludeFile,
		Repository:     g.repository,
		Hostname:       g.hostname,
		HealthcheckURL: g.healthcheckURL,
		LogFile:        g.paths.LogFile,

		KeepFlags: keepPolicy,
		Services:  g.services,
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "unable to render backup script")
	}

	return buf.String(), nil
}

// Generate renders the script and writes it, owner-executable, to its fixed
// path. Returns the script's absolute path.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for _, service := range g.services {
		logger := appcontext.LoggerFromContext(g.logger, appcontext.WithService(ctx, service.Name))
		logger.WithField("path", service.Path).Debug("Emitting backup block")
	}

	content, err := g.Render()
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(g.paths.ScriptPath, []byte(content), 0755); err != nil {
		return "", errors.Wrap(err, "unable to write backup script")
	}

	// keep the script executable even when overwriting an older copy
	if err := os.Chmod(g.paths.ScriptPath, 0755); err != nil {
		return "", errors.Wrap(err, "unable to mark backup script executable")
	}

	g.logger.WithField("path", g.paths.ScriptPath).Info("Backup script written")

	return g.paths.ScriptPath, nil
}

var scriptTemplate = template.Must(
	template.New("backup-script").Funcs(sprig.TxtFuncMap()).Parse(scriptTemplateText),
)
