package tasks

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// resultUnavailable is reported as last_run_code when the task's result
// cannot be read (E_FAIL).
const resultUnavailable int32 = -2147467259

// Extractor turns the registered tasks of one folder into rows
type Extractor struct {
	actions       *ActionBuilder
	message       MessageLookup
	localOffset   time.Duration
	includeHidden bool
	logger        *slog.Logger
}

// NewExtractor creates an extractor. localOffset is used to convert the
// scheduler's local run times to UTC.
func NewExtractor(message MessageLookup, localOffset time.Duration, includeHidden bool, logger *slog.Logger) *Extractor {
	if message == nil {
		message = FallbackMessage
	}
	return &Extractor{
		actions:       NewActionBuilder(logger),
		message:       message,
		localOffset:   localOffset,
		includeHidden: includeHidden,
		logger:        logger,
	}
}

// Extract returns one row per task in folder, in collection order. Tasks
// that cannot be fetched are skipped. An error is returned only when the
// folder's task collection itself is unavailable.
func (e *Extractor) Extract(folder Folder, path string, stats *Stats) ([]Row, error) {
	collection, err := folder.Tasks(e.includeHidden)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get tasks for %s: %w", ErrFolder, path, err)
	}
	defer collection.Release()

	count, err := collection.Count()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count tasks in %s: %w", ErrFolder, path, err)
	}

	if count < 0 {
		return nil, fmt.Errorf("%w: invalid task count %d in %s", ErrFolder, count, path)
	}

	rows := make([]Row, 0, count)
	for i := 1; i <= count; i++ {
		row, err := e.extractAt(collection, i, stats)
		if err != nil {
			stats.TasksSkipped++
			e.logger.Debug("failed to process task", "folder", path, "index", i, "error", err)
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (e *Extractor) extractAt(collection TaskCollection, index int, stats *Stats) (Row, error) {
	task, err := collection.Item(index)
	if err != nil {
		return Row{}, fmt.Errorf("%w: %w", ErrTaskFetch, err)
	}
	defer task.Release()

	return e.ExtractTask(task, stats), nil
}

// ExtractTask copies every attribute of task into a row, substituting a
// default for each accessor that fails.
func (e *Extractor) ExtractTask(task RegisteredTask, stats *Stats) Row {
	enabled := readField(e.logger, stats, "enabled", task.Enabled)
	// hidden mirrors the enabled accessor; the registered task interface has
	// no hidden getter of its own (it lives on the definition settings).
	hidden := readField(e.logger, stats, "hidden", task.Enabled)

	code, err := task.LastTaskResult()
	if err != nil {
		stats.FieldsDefaulted++
		e.logger.Debug("failed to read task field", "field", "last_run_code", "error", fmt.Errorf("%w: %w", ErrField, err))
		code = resultUnavailable
	}


	return Row{
		Name:           readField(e.logger, stats, "name", task.Name),
		Path:           readField(e.logger, stats, "path", task.Path),
		Enabled:        boolToInt(enabled),
		Hidden:         boolToInt(hidden),
		State:          State(readField(e.logger, stats, "state", task.State)).String(),
		LastRunCode:    int64(code),
		LastRunMessage: e.message(code),
		LastRunTime:    e.runTime(stats, "last_run_time", task.LastRunTime),
		NextRunTime:    e.runTime(stats, "next_run_time", task.NextRunTime),
		Action:         strings.Join(e.actions.Build(task, stats), ActionSeparator),
	}
}

// runTime reads a run time and converts it to epoch seconds. A date that
// cannot be read is 0; a date that was read goes through EpochFromOLEDate
// unchanged, including the 1899-12-30 origin.
func (e *Extractor) runTime(stats *Stats, name string, get func() (float64, error)) int64 {
	date, err := get()
	if err != nil {
		stats.FieldsDefaulted++
		e.logger.Debug("failed to read task field", "field", name, "error", fmt.Errorf("%w: %w", ErrField, err))
		return 0
	}
	return EpochFromOLEDate(date, e.localOffset)
}

// readField calls get and returns its value, or the zero value of T when
// the accessor fails.
func readField[T any](logger *slog.Logger, stats *Stats, name string, get func() (T, error)) T {
	v, err := get()
	if err != nil {
		stats.FieldsDefaulted++
		logger.Debug("failed to read task field", "field", name, "error", fmt.Errorf("%w: %w", ErrField, err))
		var zero T
		return zero
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
