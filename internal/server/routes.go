package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kolscribe/kolscribe/internal/config"
	"github.com/kolscribe/kolscribe/internal/domains/job"
	"github.com/kolscribe/kolscribe/internal/handlers"
	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/media"
)

type Dependencies struct {
	JobService job.JobService
	Toolbox    *media.Toolbox
	Logger     *Logger.Logger
	Configs    *config.Settings
}

func NewServerDependencies(
	jobService job.JobService,
	toolbox *media.Toolbox,
	logger *Logger.Logger,
	cfg *config.Settings,
) Dependencies {
	return Dependencies{
		JobService: jobService,
		Toolbox:    toolbox,
		Logger:     logger,
		Configs:    cfg,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // dev-only
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	jobHandler := handlers.NewJobHandler(dep.JobService, cfg.Storage.UploadsDir, cfg.ASR.Language, dep.Toolbox, dep.Logger)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/jobs", jobHandler.SubmitJob)
		v1.GET("/jobs", jobHandler.ListJobs)
		v1.GET("/jobs/:id", jobHandler.GetJob)
		v1.GET("/jobs/:id/progress", func(c *gin.Context) {
			handleProgressSocket(c, dep)
		})
		v1.PUT("/conversations/:id/mode", jobHandler.SelectMode)
	}
}

// handleProgressSocket streams job progress events over a websocket
// until the job reaches a terminal status or the client goes away.
func handleProgressSocket(c *gin.Context, dep Dependencies) {
	jobID := c.Param("id")
	if _, err := dep.JobService.GetJob(c.Request.Context(), jobID); err != nil {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "Job not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		dep.Logger.Errorf("progress ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := dep.JobService.WatchProgress(jobID)
	defer cancel()

	// Drain the client so we notice a disconnect.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// A job already past its busy stretch may emit nothing more; poll
	// its stored state so the socket still terminates.
	poll := time.NewTicker(2 * time.Second)
	defer poll.Stop()

	for {
		select {
		case <-clientGone:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				dep.Logger.Errorf("progress ws write failed: %v", err)
				return
			}
			if ev.Status.IsTerminal() {
				return
			}
		case <-poll.C:
			j, err := dep.JobService.GetJob(c.Request.Context(), jobID)
			if err != nil {
				return
			}
			if j.Status.IsTerminal() {
				final := job.ProgressEvent{
					JobID:   jobID,
					Stage:   "done",
					Status:  j.Status,
					Message: j.Error,
					At:      time.Now(),
				}
				if j.Status == job.StatusFailed {
					final.Stage = "failed"
				}
				_ = conn.WriteJSON(final)
				return
			}
		}
	}
}
