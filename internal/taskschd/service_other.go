//go:build !windows

package taskschd

import (
	"fmt"
	"runtime"

	"github.com/ngenohkevin/taskdeck-agent/internal/tasks"
)

// Service is a task scheduler connector. Off Windows it never connects.
type Service struct{}

// New creates a new task scheduler connector
func New() *Service {
	return &Service{}
}

// Connect always fails on this platform
func (s *Service) Connect() (tasks.Session, error) {
	return nil, fmt.Errorf("%w (running on %s)", ErrUnsupported, runtime.GOOS)
}

// Message renders a task result code
func Message(code int32) string {
	return tasks.FallbackMessage(code)
}
