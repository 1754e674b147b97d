package provision

import (
	"os"
	"path/filepath"
)

// Paths collects every fixed filesystem location the stages touch. It is
// constructed once at startup and threaded through as a read-only value, so
// no stage reaches into the process environment on its own.
type Paths struct {
	// directory holding the password and exclude files
	ResticDir string

	// user-local binary directory holding the generated script
	BinDir string

	PasswordFile string
	ExcludeFile  string
	ScriptPath   string

	// system-wide install target for the restic binary
	ResticBinary string

	// scratch space for the downloaded release archive
	TempDir string

	Bashrc string

	// log file baked into the generated script
	LogFile string

	// audit trail database
	DatabaseFile string
}

func DefaultPaths(home string) *Paths {
	resticDir := filepath.Join(home, ".restic")
	binDir := filepath.Join(home, "bin")

	return &Paths{
		ResticDir: resticDir,
		BinDir:    binDir,

		PasswordFile: filepath.Join(resticDir, ".restic_passwd"),
		ExcludeFile:  filepath.Join(resticDir, ".restic_exclude"),
		ScriptPath:   filepath.Join(binDir, "restic-custom-backup"),

		ResticBinary: "/usr/local/bin/restic",

		TempDir: os.TempDir(),

		Bashrc: filepath.Join(home, ".bashrc"),

		LogFile: "/tmp/restic-backup.log",

		DatabaseFile: filepath.Join(resticDir, "setup.db"),
	}
}
