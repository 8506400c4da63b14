package tasks

import (
	"fmt"
	"log/slog"
)

// ActionSeparator joins the descriptors of one task in Row.Action
const ActionSeparator = ","

// ActionBuilder renders a task's exec actions as descriptor strings
type ActionBuilder struct {
	logger *slog.Logger
}

// NewActionBuilder creates an action builder
func NewActionBuilder(logger *slog.Logger) *ActionBuilder {
	return &ActionBuilder{logger: logger}
}

// Build returns one "<workingDir> <path> <args>" descriptor per exec action
// of task, in collection order. Actions of other kinds are skipped.
func (b *ActionBuilder) Build(task RegisteredTask, stats *Stats) []string {
	def, err := task.Definition()
	if err != nil {
		b.logger.Debug("failed to get task definition", "error", fmt.Errorf("%w: definition: %w", ErrField, err))
		return nil
	}
	defer def.Release()

	collection, err := def.Actions()
	if err != nil {
		b.logger.Debug("failed to get task actions", "error", fmt.Errorf("%w: actions: %w", ErrField, err))
		return nil
	}
	defer collection.Release()

	count, err := collection.Count()
	if err != nil {
		b.logger.Debug("failed to count task actions", "error", fmt.Errorf("%w: count: %w", ErrField, err))
		return nil
	}

	var actions []string
	for i := 1; i <= count; i++ {
		descriptor, ok := b.describe(collection, i, stats)
		if ok {
			actions = append(actions, descriptor)
		}
	}

	return actions
}

func (b *ActionBuilder) describe(collection ActionCollection, index int, stats *Stats) (string, bool) {
	action, err := collection.Item(index)
	if err != nil {
		stats.ActionsSkipped++
		b.logger.Debug("failed to get task action", "index", index, "error", fmt.Errorf("%w: %w", ErrAction, err))
		return "", false
	}
	defer action.Release()

	exec, ok := action.Exec()
	if !ok {
		return "", false
	}
	defer exec.Release()

	workingDir := readField(b.logger, stats, "working_directory", exec.WorkingDirectory)
	path := readField(b.logger, stats, "exec_path", exec.Path)
	args := readField(b.logger, stats, "arguments", exec.Arguments)

	return workingDir + " " + path + " " + args, true
}
