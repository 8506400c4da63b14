package tasks

import (
	"errors"
	"io"
	"log/slog"
)

var errFake = errors.New("fake accessor failure")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// tracker counts handle acquisitions and releases across a fake service
type tracker struct {
	acquired int
	released int
	doubles  int
}

func (t *tracker) open() int {
	return t.acquired - t.released
}

type handle struct {
	t    *tracker
	done bool
}

func newHandle(t *tracker) handle {
	t.acquired++
	return handle{t: t}
}

func (h *handle) Release() {
	if h.done {
		h.t.doubles++
		return
	}
	h.done = true
	h.t.released++
}

type fakeExec struct {
	workingDir, path, args          string
	workingDirErr, pathErr, argsErr error
}

type fakeActionFixture struct {
	exec *fakeExec // nil means a non-exec action kind
	err  error
}

type fakeTaskFixture struct {
	name       string
	path       string
	enabled    bool
	state      int32
	result     int32
	lastRun    float64
	nextRun    float64
	nameErr    error
	pathErr    error
	enabledErr error
	stateErr   error
	resultErr  error
	lastRunErr error
	nextRunErr error
	fetchErr   error
	defErr     error
	actionsErr error
	actions    []fakeActionFixture
}

type fakeFolderFixture struct {
	openErr  error
	tasksErr error
	countErr error
	count    *int // overrides len(tasks)
	tasks    []fakeTaskFixture
}

type fakeService struct {
	t          *tracker
	connectErr error
	folders    map[string]fakeFolderFixture
	opened     []string
	hiddenFlag []bool
}

func newFakeService(folders map[string]fakeFolderFixture) *fakeService {
	return &fakeService{t: &tracker{}, folders: folders}
}

func (s *fakeService) Connect() (Session, error) {
	if s.connectErr != nil {
		return nil, s.connectErr
	}
	return &fakeSession{handle: newHandle(s.t), svc: s}, nil
}

type fakeSession struct {
	handle
	svc *fakeService
}

func (s *fakeSession) Folder(path string) (Folder, error) {
	s.svc.opened = append(s.svc.opened, path)
	fixture, ok := s.svc.folders[path]
	if !ok {
		return nil, errors.New("folder not found")
	}
	if fixture.openErr != nil {
		return nil, fixture.openErr
	}
	return &fakeFolder{handle: newHandle(s.svc.t), svc: s.svc, fixture: fixture}, nil
}

type fakeFolder struct {
	handle
	svc     *fakeService
	fixture fakeFolderFixture
}

func (f *fakeFolder) Tasks(includeHidden bool) (TaskCollection, error) {
	f.svc.hiddenFlag = append(f.svc.hiddenFlag, includeHidden)
	if f.fixture.tasksErr != nil {
		return nil, f.fixture.tasksErr
	}
	return &fakeTaskCollection{handle: newHandle(f.t), fixture: f.fixture}, nil
}

type fakeTaskCollection struct {
	handle
	fixture fakeFolderFixture
}

func (c *fakeTaskCollection) Count() (int, error) {
	if c.fixture.countErr != nil {
		return 0, c.fixture.countErr
	}
	if c.fixture.count != nil {
		return *c.fixture.count, nil
	}
	return len(c.fixture.tasks), nil
}

func (c *fakeTaskCollection) Item(index int) (RegisteredTask, error) {
	if index < 1 || index > len(c.fixture.tasks) {
		return nil, errors.New("index out of range")
	}
	fixture := c.fixture.tasks[index-1]
	if fixture.fetchErr != nil {
		return nil, fixture.fetchErr
	}
	return &fakeTask{handle: newHandle(c.t), fixture: fixture}, nil
}

type fakeTask struct {
	handle
	fixture fakeTaskFixture
}

// Accessors return a non-zero value alongside errors so tests catch callers
// that use the value without checking the error.
func (t *fakeTask) Name() (string, error) {
	if t.fixture.nameErr != nil {
		return "garbage", t.fixture.nameErr
	}
	return t.fixture.name, nil
}

func (t *fakeTask) Path() (string, error) {
	if t.fixture.pathErr != nil {
		return "garbage", t.fixture.pathErr
	}
	return t.fixture.path, nil
}

func (t *fakeTask) Enabled() (bool, error) {
	if t.fixture.enabledErr != nil {
		return true, t.fixture.enabledErr
	}
	return t.fixture.enabled, nil
}

func (t *fakeTask) State() (int32, error) {
	if t.fixture.stateErr != nil {
		return int32(StateRunning), t.fixture.stateErr
	}
	return t.fixture.state, nil
}

func (t *fakeTask) LastTaskResult() (int32, error) {
	if t.fixture.resultErr != nil {
		return 42, t.fixture.resultErr
	}
	return t.fixture.result, nil
}

func (t *fakeTask) LastRunTime() (float64, error) {
	if t.fixture.lastRunErr != nil {
		return 45000, t.fixture.lastRunErr
	}
	return t.fixture.lastRun, nil
}

func (t *fakeTask) NextRunTime() (float64, error) {
	if t.fixture.nextRunErr != nil {
		return 45000, t.fixture.nextRunErr
	}
	return t.fixture.nextRun, nil
}

func (t *fakeTask) Definition() (Definition, error) {
	if t.fixture.defErr != nil {
		return nil, t.fixture.defErr
	}
	return &fakeDefinition{handle: newHandle(t.t), fixture: t.fixture}, nil
}

type fakeDefinition struct {
	handle
	fixture fakeTaskFixture
}

func (d *fakeDefinition) Actions() (ActionCollection, error) {
	if d.fixture.actionsErr != nil {
		return nil, d.fixture.actionsErr
	}
	return &fakeActionCollection{handle: newHandle(d.t), actions: d.fixture.actions}, nil
}

type fakeActionCollection struct {
	handle
	actions []fakeActionFixture
}

func (c *fakeActionCollection) Count() (int, error) {
	return len(c.actions), nil
}

func (c *fakeActionCollection) Item(index int) (Action, error) {
	if index < 1 || index > len(c.actions) {
		return nil, errors.New("index out of range")
	}
	fixture := c.actions[index-1]
	if fixture.err != nil {
		return nil, fixture.err
	}
	return &fakeAction{handle: newHandle(c.t), fixture: fixture}, nil
}

type fakeAction struct {
	handle
	fixture fakeActionFixture
}

func (a *fakeAction) Exec() (ExecAction, bool) {
	if a.fixture.exec == nil {
		return nil, false
	}
	return &fakeExecAction{handle: newHandle(a.t), fixture: *a.fixture.exec}, true
}

type fakeExecAction struct {
	handle
	fixture fakeExec
}

func (e *fakeExecAction) WorkingDirectory() (string, error) {
	if e.fixture.workingDirErr != nil {
		return "garbage", e.fixture.workingDirErr
	}
	return e.fixture.workingDir, nil
}

func (e *fakeExecAction) Path() (string, error) {
	if e.fixture.pathErr != nil {
		return "garbage", e.fixture.pathErr
	}
	return e.fixture.path, nil
}

func (e *fakeExecAction) Arguments() (string, error) {
	if e.fixture.argsErr != nil {
		return "garbage", e.fixture.argsErr
	}
	return e.fixture.args, nil
}

// fakeLister returns a fixed directory listing
type fakeLister struct {
	dirs  []string
	err   error
	roots []string
}

func (l *fakeLister) ListSubdirectories(root string, recursive bool) ([]string, error) {
	l.roots = append(l.roots, root)
	return l.dirs, l.err
}

func envWith(vars map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}
