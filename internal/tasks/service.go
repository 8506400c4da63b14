package tasks

// The interfaces below describe the task scheduling service the way the
// collector consumes it. Every handle is owned by the scope that acquired it
// and must be released exactly once, on every exit path.

// Service opens sessions with the host task scheduler
type Service interface {
	Connect() (Session, error)
}

// Session is a connected scheduler session
type Session interface {
	// Folder resolves a backslash-delimited namespace path such as `\Microsoft\Windows`.
	Folder(path string) (Folder, error)
	Release()
}

// Folder is an open task folder
type Folder interface {
	Tasks(includeHidden bool) (TaskCollection, error)
	Release()
}

// TaskCollection is a 1-indexed sequence of registered tasks
type TaskCollection interface {
	Count() (int, error)
	Item(index int) (RegisteredTask, error)
	Release()
}

// RegisteredTask exposes the per-task accessors. Each may fail independently.
type RegisteredTask interface {
	Name() (string, error)
	Path() (string, error)
	Enabled() (bool, error)
	State() (int32, error)
	LastTaskResult() (int32, error)
	// LastRunTime and NextRunTime return OLE automation dates in local time.
	LastRunTime() (float64, error)
	NextRunTime() (float64, error)
	Definition() (Definition, error)
	Release()
}

// Definition is the stored definition behind a registered task
type Definition interface {
	Actions() (ActionCollection, error)
	Release()
}

// ActionCollection is a 1-indexed sequence of task actions
type ActionCollection interface {
	Count() (int, error)
	Item(index int) (Action, error)
	Release()
}

// Action is any task action. Only exec actions are of interest.
type Action interface {
	// Exec narrows the action to an exec action. ok is false for other kinds.
	Exec() (exec ExecAction, ok bool)
	Release()
}

// ExecAction runs an executable with arguments in a working directory
type ExecAction interface {
	WorkingDirectory() (string, error)
	Path() (string, error)
	Arguments() (string, error)
	Release()
}

// DirectoryLister returns every directory nested under root
type DirectoryLister interface {
	ListSubdirectories(root string, recursive bool) ([]string, error)
}

// EnvLookup reads an environment variable, like os.LookupEnv
type EnvLookup func(key string) (string, bool)

// MessageLookup maps a native result code to a human readable message
type MessageLookup func(code int32) string
