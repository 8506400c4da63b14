package server

import (
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/taskdeck-agent/config"
	"github.com/ngenohkevin/taskdeck-agent/internal/system"
	"github.com/ngenohkevin/taskdeck-agent/internal/tasks"
)

// Version is reported by /health and /api/info. Overridden at build time.
var Version = "dev"

const agentName = "taskdeck-agent"

// Handlers holds all HTTP handlers
type Handlers struct {
	cfg       *config.Config
	collector *tasks.Collector
	hostInfo  func() (*system.HostInfo, error)
	logger    *slog.Logger

	// mu serializes collection passes; the scheduler session is bound to
	// the goroutine that opened it.
	mu sync.Mutex
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config, collector *tasks.Collector, logger *slog.Logger) *Handlers {
	return &Handlers{
		cfg:       cfg,
		collector: collector,
		hostInfo:  system.GetHostInfo,
		logger:    logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

// GetInfo handles GET /api/info
func (h *Handlers) GetInfo(c *gin.Context) {
	hostInfo, err := h.hostInfo()
	if err != nil {
		h.logger.Error("failed to read host info", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hostname":             hostInfo.Hostname,
		"os":                   hostInfo.OS,
		"platform":             hostInfo.Platform,
		"platform_version":     hostInfo.PlatformVersion,
		"arch":                 hostInfo.KernelArch,
		"uptime":               hostInfo.UptimeHuman,
		"agent":                agentName,
		"version":              Version,
		"scheduler_supported":  runtime.GOOS == "windows",
		"include_hidden_tasks": h.cfg.IncludeHiddenTasks,
	})
}

// ListScheduledTasks handles GET /api/scheduled-tasks. The response is
// always 200; an unreachable scheduler yields a snapshot with no rows and
// connected set to false.
func (h *Handlers) ListScheduledTasks(c *gin.Context) {
	h.mu.Lock()
	snap := h.collector.Snapshot()
	h.mu.Unlock()

	if !snap.Connected {
		h.logger.Warn("task scheduler unavailable", "snapshot", snap.ID)
	}

	c.JSON(http.StatusOK, snap)
}

// ListColumns handles GET /api/scheduled-tasks/columns
func (h *Handlers) ListColumns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"columns": tasks.Columns,
		"count":   len(tasks.Columns),
	})
}
