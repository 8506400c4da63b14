package tasks

import (
	"log/slog"
	"os"
	"strings"
)

// RootFolder is the namespace path of the scheduler's root folder
const RootFolder = `\`

// Resolver derives the folder paths a collection visits. The scheduler
// mirrors its folder tree on disk under <SystemRoot>\System32\Tasks, so the
// subdirectories found there name the namespace folders.
type Resolver struct {
	Lister DirectoryLister
	Getenv EnvLookup
	// Separator is the filesystem path separator used by Lister paths.
	Separator string
	Logger    *slog.Logger
}

// NewResolver creates a resolver using the process environment and the
// host path separator
func NewResolver(lister DirectoryLister, logger *slog.Logger) *Resolver {
	return &Resolver{
		Lister:    lister,
		Getenv:    os.LookupEnv,
		Separator: string(os.PathSeparator),
		Logger:    logger,
	}
}

// StorageRoot returns the on-disk task storage directory. ok is false when
// SystemRoot is not set.
func (r *Resolver) StorageRoot() (string, bool) {
	sysRoot, ok := r.Getenv("SystemRoot")
	if !ok || sysRoot == "" {
		return "", false
	}
	sep := r.separator()
	return strings.TrimSuffix(sysRoot, sep) + sep + "System32" + sep + "Tasks", true
}

// Folders returns the root folder followed by every discovered subfolder,
// in the order the lister returned them.
func (r *Resolver) Folders() []string {
	folders := []string{RootFolder}

	storageRoot, ok := r.StorageRoot()
	if !ok {
		r.Logger.Debug("SystemRoot not set, only visiting root task folder")
		return folders
	}

	if r.Lister == nil {
		return folders
	}

	dirs, err := r.Lister.ListSubdirectories(storageRoot, true)
	if err != nil {
		r.Logger.Warn("failed to list task folders", "root", storageRoot, "error", err)
		return folders
	}

	for _, dir := range dirs {
		path, ok := r.NamespacePath(storageRoot, dir)
		if !ok {
			r.Logger.Debug("invalid task path", "path", dir)
			continue
		}
		folders = append(folders, path)
	}

	return folders
}

// NamespacePath translates a filesystem directory under storageRoot into a
// scheduler namespace path. Paths that are not longer than storageRoot are
// rejected.
func (r *Resolver) NamespacePath(storageRoot, dir string) (string, bool) {
	if len(dir) <= len(storageRoot) {
		return "", false
	}

	var parts []string
	for _, part := range strings.Split(dir[len(storageRoot):], r.separator()) {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return RootFolder + strings.Join(parts, RootFolder), true
}

func (r *Resolver) separator() string {
	if r.Separator == "" {
		return string(os.PathSeparator)
	}
	return r.Separator
}
