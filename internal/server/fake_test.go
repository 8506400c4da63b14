package server

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ngenohkevin/taskdeck-agent/config"
	"github.com/ngenohkevin/taskdeck-agent/internal/tasks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// stubService serves a single root folder holding the given tasks
type stubService struct {
	tasks []stubTask
	down  bool
}

type stubTask struct {
	name    string
	enabled bool
	state   int32
}

func (s *stubService) Connect() (tasks.Session, error) {
	if s.down {
		return nil, errors.New("service not running")
	}
	return stubSession{s}, nil
}

type stubSession struct{ svc *stubService }

func (s stubSession) Folder(path string) (tasks.Folder, error) {
	if path != tasks.RootFolder {
		return nil, errors.New("folder not found")
	}
	return stubFolder(s), nil
}

func (stubSession) Release() {}

type stubFolder struct{ svc *stubService }

func (f stubFolder) Tasks(bool) (tasks.TaskCollection, error) { return f, nil }
func (f stubFolder) Count() (int, error)                      { return len(f.svc.tasks), nil }
func (f stubFolder) Item(i int) (tasks.RegisteredTask, error) { return f.svc.tasks[i-1], nil }
func (stubFolder) Release()                                   {}

func (t stubTask) Name() (string, error)               { return t.name, nil }
func (t stubTask) Path() (string, error)               { return `\` + t.name, nil }
func (t stubTask) Enabled() (bool, error)              { return t.enabled, nil }
func (t stubTask) State() (int32, error)               { return t.state, nil }
func (stubTask) LastTaskResult() (int32, error)        { return 0, nil }
func (stubTask) LastRunTime() (float64, error)         { return 0, errors.New("never ran") }
func (stubTask) NextRunTime() (float64, error)         { return 0, errors.New("not scheduled") }
func (stubTask) Definition() (tasks.Definition, error) { return nil, errors.New("no definition") }
func (stubTask) Release()                              {}

func newTestCollector(svc tasks.Service) *tasks.Collector {
	logger := discardLogger()
	resolver := tasks.NewResolver(nil, logger)
	resolver.Getenv = func(string) (string, bool) { return "", false }
	return tasks.NewCollector(svc, resolver, tasks.Options{IncludeHidden: true, Host: "test-host"}, logger)
}

func newTestServer(svc tasks.Service) *Server {
	return New(config.LoadWithDefaults(), newTestCollector(svc), discardLogger())
}
