// Package taskschd binds the tasks.Service interfaces to the Windows Task
// Scheduler 2.0 COM API.
package taskschd

import "errors"

const (
	programID = "Schedule.Service"

	// TASK_ENUM_HIDDEN
	taskEnumHidden int32 = 1
)

// ErrUnsupported is returned by Connect on hosts without a task scheduler
var ErrUnsupported = errors.New("task scheduler is only available on windows")
