package handler

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milkroute/backend/internal/infrastructure/scheduler"
)

var startTime = time.Now()

// SystemHandler handles system and operations endpoints
type SystemHandler struct {
	BaseHandler
	version string
	cron    *scheduler.CronScheduler
}

// NewSystemHandler creates a new SystemHandler. The scheduler is optional;
// when nil the scheduler endpoints report it as disabled.
func NewSystemHandler(version string, cron *scheduler.CronScheduler) *SystemHandler {
	return &SystemHandler{version: version, cron: cron}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(r *gin.RouterGroup) {
	system := r.Group("/system")
	{
		system.GET("/info", h.Info)
		system.GET("/ping", h.Ping)
		system.GET("/scheduler", h.SchedulerStatus)
		system.POST("/scheduler/jobs/:name/run", h.TriggerJob)
	}
}

// SystemInfoResponse describes the running service
type SystemInfoResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Info returns service build and uptime information
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	})
}

// Ping is a trivial liveness check
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// SchedulerStatus reports the state of every registered cron job
func (h *SystemHandler) SchedulerStatus(c *gin.Context) {
	if h.cron == nil {
		h.Success(c, gin.H{"enabled": false})
		return
	}
	h.Success(c, h.cron.GetStatus())
}

// TriggerJob runs a named cron job immediately
func (h *SystemHandler) TriggerJob(c *gin.Context) {
	if h.cron == nil {
		h.Error(c, http.StatusServiceUnavailable, "SCHEDULER_DISABLED", "Scheduler is not running")
		return
	}

	name := c.Param("name")
	if err := h.cron.TriggerManualRun(name); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrJobNotFound):
			h.NotFound(c, "Unknown job: "+name)
		case errors.Is(err, scheduler.ErrSchedulerNotRunning):
			h.Error(c, http.StatusServiceUnavailable, "SCHEDULER_DISABLED", "Scheduler is not running")
		default:
			h.InternalError(c, err.Error())
		}
		return
	}

	h.Success(c, gin.H{"triggered": name})
}
