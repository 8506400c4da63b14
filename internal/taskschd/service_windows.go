//go:build windows

package taskschd

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/ngenohkevin/taskdeck-agent/internal/tasks"
)

const (
	sFalse          = 0x00000001
	rpcEChangedMode = 0x80010106
)

var iidExecAction = ole.NewGUID("{4C3D624D-FD6B-49A3-B9B7-09CB3CD3F047}")

// Service connects to the local Task Scheduler service
type Service struct{}

// New creates a new task scheduler connector
func New() *Service {
	return &Service{}
}

// Connect initializes COM on the calling goroutine's OS thread and opens a
// Schedule.Service session. The goroutine stays locked to that thread until
// the session is released, so every handle obtained from the session must be
// used and released on the same goroutine.
func (s *Service) Connect() (tasks.Session, error) {
	runtime.LockOSThread()

	uninit, err := initCOM()
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	sess := &session{uninit: uninit}

	unknown, err := oleutil.CreateObject(programID)
	if err != nil {
		sess.Release()
		return nil, fmt.Errorf("failed to create %s: %w", programID, err)
	}
	defer unknown.Release()

	sess.svc, err = unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		sess.Release()
		return nil, fmt.Errorf("failed to get task service dispatch: %w", err)
	}

	result, err := oleutil.CallMethod(sess.svc, "Connect")
	if err != nil {
		sess.Release()
		return nil, fmt.Errorf("failed to connect to task service: %w", err)
	}
	result.Clear()

	return sess, nil
}

// initCOM reports whether CoUninitialize must be called to balance it
func initCOM() (bool, error) {
	err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED)
	if err == nil {
		return true, nil
	}

	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		switch oleErr.Code() {
		case sFalse:
			// Already initialized on this thread; still needs balancing.
			return true, nil
		case rpcEChangedMode:
			// Initialized in another apartment by someone else; usable as is.
			return false, nil
		}
	}

	return false, fmt.Errorf("failed to initialize COM: %w", err)
}

type session struct {
	svc    *ole.IDispatch
	uninit bool
}

func (s *session) Folder(path string) (tasks.Folder, error) {
	disp, err := getDispatch(s.svc, oleutil.CallMethod, "GetFolder", path)
	if err != nil {
		return nil, err
	}
	return &folder{disp: disp}, nil
}

func (s *session) Release() {
	if s.svc != nil {
		s.svc.Release()
		s.svc = nil
	}
	if s.uninit {
		ole.CoUninitialize()
		s.uninit = false
	}
	runtime.UnlockOSThread()
}

type folder struct {
	disp *ole.IDispatch
}

func (f *folder) Tasks(includeHidden bool) (tasks.TaskCollection, error) {
	var flags int32
	if includeHidden {
		flags = taskEnumHidden
	}

	disp, err := getDispatch(f.disp, oleutil.CallMethod, "GetTasks", flags)
	if err != nil {
		return nil, err
	}
	return &taskCollection{disp: disp}, nil
}

func (f *folder) Release() { f.disp.Release() }

type taskCollection struct {
	disp *ole.IDispatch
}

func (c *taskCollection) Count() (int, error) {
	n, err := getInt32(c.disp, "Count")
	return int(n), err
}

func (c *taskCollection) Item(index int) (tasks.RegisteredTask, error) {
	disp, err := getDispatch(c.disp, oleutil.GetProperty, "Item", int32(index))
	if err != nil {
		return nil, err
	}
	return &registeredTask{disp: disp}, nil
}

func (c *taskCollection) Release() { c.disp.Release() }

type registeredTask struct {
	disp *ole.IDispatch
}

func (t *registeredTask) Name() (string, error)          { return getString(t.disp, "Name") }
func (t *registeredTask) Path() (string, error)          { return getString(t.disp, "Path") }
func (t *registeredTask) Enabled() (bool, error)         { return getBool(t.disp, "Enabled") }
func (t *registeredTask) State() (int32, error)          { return getInt32(t.disp, "State") }
func (t *registeredTask) LastTaskResult() (int32, error) { return getInt32(t.disp, "LastTaskResult") }
func (t *registeredTask) LastRunTime() (float64, error)  { return getDate(t.disp, "LastRunTime") }
func (t *registeredTask) NextRunTime() (float64, error)  { return getDate(t.disp, "NextRunTime") }

func (t *registeredTask) Definition() (tasks.Definition, error) {
	disp, err := getDispatch(t.disp, oleutil.GetProperty, "Definition")
	if err != nil {
		return nil, err
	}
	return &definition{disp: disp}, nil
}

func (t *registeredTask) Release() { t.disp.Release() }

type definition struct {
	disp *ole.IDispatch
}

func (d *definition) Actions() (tasks.ActionCollection, error) {
	disp, err := getDispatch(d.disp, oleutil.GetProperty, "Actions")
	if err != nil {
		return nil, err
	}
	return &actionCollection{disp: disp}, nil
}

func (d *definition) Release() { d.disp.Release() }

type actionCollection struct {
	disp *ole.IDispatch
}

func (c *actionCollection) Count() (int, error) {
	n, err := getInt32(c.disp, "Count")
	return int(n), err
}

func (c *actionCollection) Item(index int) (tasks.Action, error) {
	disp, err := getDispatch(c.disp, oleutil.GetProperty, "Item", int32(index))
	if err != nil {
		return nil, err
	}
	return &action{disp: disp}, nil
}

func (c *actionCollection) Release() { c.disp.Release() }

type action struct {
	disp *ole.IDispatch
}

// Exec narrows the action with QueryInterface(IID_IExecAction). Com, e-mail
// and message actions do not implement it.
func (a *action) Exec() (tasks.ExecAction, bool) {
	disp, err := a.disp.QueryInterface(iidExecAction)
	if err != nil || disp == nil {
		return nil, false
	}
	return &execAction{disp: disp}, true
}

func (a *action) Release() { a.disp.Release() }

type execAction struct {
	disp *ole.IDispatch
}

func (e *execAction) WorkingDirectory() (string, error) { return getString(e.disp, "WorkingDirectory") }
func (e *execAction) Path() (string, error)             { return getString(e.disp, "Path") }
func (e *execAction) Arguments() (string, error)        { return getString(e.disp, "Arguments") }
func (e *execAction) Release()                          { e.disp.Release() }

type invokeFunc func(disp *ole.IDispatch, name string, params ...interface{}) (*ole.VARIANT, error)

// getDispatch returns the object held by the result of a call. The caller
// owns the returned reference.
func getDispatch(disp *ole.IDispatch, invoke invokeFunc, name string, params ...interface{}) (*ole.IDispatch, error) {
	v, err := invoke(disp, name, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", name, err)
	}
	if v.VT != ole.VT_DISPATCH {
		v.Clear()
		return nil, fmt.Errorf("failed to get %s: unexpected variant type %d", name, v.VT)
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("failed to get %s: nil object", name)
	}
	return d, nil
}

func getProperty(disp *ole.IDispatch, name string) (*ole.VARIANT, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", name, err)
	}
	return v, nil
}

func getString(disp *ole.IDispatch, name string) (string, error) {
	v, err := getProperty(disp, name)
	if err != nil {
		return "", err
	}
	defer v.Clear()
	return v.ToString(), nil
}

func getBool(disp *ole.IDispatch, name string) (bool, error) {
	v, err := getProperty(disp, name)
	if err != nil {
		return false, err
	}
	defer v.Clear()
	return v.Val != 0, nil
}

func getInt32(disp *ole.IDispatch, name string) (int32, error) {
	v, err := getProperty(disp, name)
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	return int32(v.Val), nil
}

// getDate returns the raw OLE automation date, without go-ole's conversion
// to time.Time, so the caller controls the local time adjustment.
func getDate(disp *ole.IDispatch, name string) (float64, error) {
	v, err := getProperty(disp, name)
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	if v.VT != ole.VT_DATE {
		return 0, fmt.Errorf("failed to get %s: unexpected variant type %d", name, v.VT)
	}
	return math.Float64frombits(uint64(v.Val)), nil
}
