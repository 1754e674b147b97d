package provision

import "time"

type runStatus int

const (
	// Provisioning started, outcome not known yet
	RunStatusStarted runStatus = iota

	// Provisioning aborted due to a fatal stage failure
	RunStatusFailure

	// All stages completed
	RunStatusSuccess
)

// Run is a single provisioning invocation recorded in the audit trail.
type Run struct {
	Id int64 // identifier for DB

	ResticVersion string

	// absolute path of the generated backup script, empty if the run
	// aborted before the script stage
	ScriptPath string

	Status runStatus

	// name of the stage that aborted the run
	FailedStage string

	StartedAt  time.Time
	FinishedAt *time.Time
}
