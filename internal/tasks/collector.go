package tasks

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Options tune a Collector
type Options struct {
	// IncludeHidden also enumerates tasks marked hidden.
	IncludeHidden bool
	// Message maps last-run result codes to text. Defaults to FallbackMessage.
	Message MessageLookup
	// Host is recorded on snapshots.
	Host string
}

// Collector walks the scheduler folder tree and flattens every registered
// task into a row. A Collector is not safe for concurrent use.
type Collector struct {
	service  Service
	resolver *Resolver
	opts     Options
	now      func() time.Time
	logger   *slog.Logger
}

// NewCollector creates a new collector
func NewCollector(service Service, resolver *Resolver, opts Options, logger *slog.Logger) *Collector {
	if opts.Message == nil {
		opts.Message = FallbackMessage
	}
	return &Collector{
		service:  service,
		resolver: resolver,
		opts:     opts,
		now:      time.Now,
		logger:   logger,
	}
}

// Collect returns every task row, root folder first, then subfolders in
// discovery order. It never fails; an unreachable scheduler yields no rows.
func (c *Collector) Collect() []Row {
	return c.Snapshot().Rows
}

// Snapshot runs one collection pass and records what was skipped
func (c *Collector) Snapshot() *Snapshot {
	now := c.now()
	snap := &Snapshot{
		ID:          uuid.NewString(),
		Host:        c.opts.Host,
		CollectedAt: now.UTC(),
	}

	var result Aggregator
	defer func() {
		snap.Rows = result.Rows()
		snap.Total = result.Len()
	}()

	session, err := c.service.Connect()
	if err != nil {
		c.logger.Warn("failed to connect to task scheduler", "error", fmt.Errorf("%w: %w", ErrConnection, err))
		return snap
	}
	defer session.Release()
	snap.Connected = true

	extractor := NewExtractor(c.opts.Message, LocalOffset(now), c.opts.IncludeHidden, c.logger)

	for _, path := range c.resolver.Folders() {
		rows, err := c.collectFolder(session, extractor, path, &snap.Stats)
		if err != nil {
			snap.Stats.FoldersSkipped++
			c.logger.Warn("skipping task folder", "folder", path, "error", err)
			continue
		}
		snap.Stats.FoldersVisited++
		result.Append(rows...)
	}

	c.logger.Debug("collected scheduled tasks",
		"rows", result.Len(),
		"folders", snap.Stats.FoldersVisited,
		"skipped_folders", snap.Stats.FoldersSkipped,
		"skipped_tasks", snap.Stats.TasksSkipped)

	return snap
}

func (c *Collector) collectFolder(session Session, extractor *Extractor, path string, stats *Stats) ([]Row, error) {
	folder, err := openFolder(session, path)
	if err != nil {
		return nil, err
	}
	defer folder.Release()

	return extractor.Extract(folder, path, stats)
}

func openFolder(session Session, path string) (Folder, error) {
	folder, err := session.Folder(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get folder %s: %w", ErrFolder, path, err)
	}
	return folder, nil
}
