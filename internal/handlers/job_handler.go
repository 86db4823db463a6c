package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kolscribe/kolscribe/internal/domains/job"
	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/media"
)

// JobHandler handles recording submission and job lookups
type JobHandler struct {
	jobService  job.JobService
	uploadsDir  string
	defaultLang string
	toolbox     *media.Toolbox
	logger      *Logger.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService job.JobService, uploadsDir, defaultLang string, toolbox *media.Toolbox, logger *Logger.Logger) *JobHandler {
	return &JobHandler{
		jobService:  jobService,
		uploadsDir:  uploadsDir,
		defaultLang: defaultLang,
		toolbox:     toolbox,
		logger:      logger,
	}
}

// SubmitJob accepts a multipart recording upload and queues it for
// processing. A voice note recorded in several parts can be sent as
// multiple "audio" files; they are merged into one recording first.
// The response carries the queued job; results arrive via polling or
// the progress socket.
func (h *JobHandler) SubmitJob(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid multipart form",
			Details: err.Error(),
		})
		return
	}
	files := form.File["audio"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing audio file"})
		return
	}

	dst, sourceName, err := h.storeUpload(c, files)
	if err != nil {
		h.logger.Errorf("saving upload: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store upload"})
		return
	}

	language := c.PostForm("language")
	if language == "" {
		language = h.defaultLang
	}

	req := job.CreateJobRequest{
		ConversationID: c.PostForm("conversationId"),
		Mode:           job.Mode(c.PostForm("mode")),
		Language:       language,
		SourcePath:     dst,
		SourceName:     sourceName,
	}

	jobResponse, err := h.jobService.Submit(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, job.ErrInvalidJobData) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid job data", Details: err.Error()})
			return
		}
		h.logger.Errorf("submit job error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusAccepted, SubmitJobResponse{
		Message: "Recording accepted",
		Job:     *jobResponse,
	})
}

// storeUpload persists the uploaded part(s) and returns the path of the
// recording to process. Multiple parts are merged into a single file.
func (h *JobHandler) storeUpload(c *gin.Context, files []*multipart.FileHeader) (string, string, error) {
	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		return "", "", err
	}
	stamp := time.Now().Format("20060102_150405")

	if len(files) == 1 {
		file := files[0]
		dst := filepath.Join(h.uploadsDir, fmt.Sprintf("%s_%s", stamp, filepath.Base(file.Filename)))
		if err := c.SaveUploadedFile(file, dst); err != nil {
			return "", "", err
		}
		return dst, filepath.Base(file.Filename), nil
	}

	parts := make([]string, 0, len(files))
	for i, file := range files {
		part := filepath.Join(h.uploadsDir, fmt.Sprintf("%s_part%03d_%s", stamp, i+1, filepath.Base(file.Filename)))
		if err := c.SaveUploadedFile(file, part); err != nil {
			return "", "", err
		}
		parts = append(parts, part)
	}

	merged := filepath.Join(h.uploadsDir, fmt.Sprintf("%s_merged.opus", stamp))
	if err := h.toolbox.Merge(c.Request.Context(), parts, merged); err != nil {
		return "", "", err
	}
	for _, part := range parts {
		os.Remove(part)
	}
	return merged, filepath.Base(files[0].Filename), nil
}

// GetJob handles getting a specific job
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("id")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Job ID is required"})
		return
	}

	jobResponse, err := h.jobService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Job not found"})
			return
		}
		h.logger.Errorf("get job error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, JobByIDResponse{Job: *jobResponse})
}

// ListJobs handles listing jobs with optional filters
func (h *JobHandler) ListJobs(c *gin.Context) {
	filters := job.ListJobsRequest{
		ConversationID: c.Query("conversationId"),
	}
	if status := c.Query("status"); status != "" {
		s := job.Status(status)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status filter"})
			return
		}
		filters.Status = &s
	}
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	jobs, total, err := h.jobService.ListJobs(c.Request.Context(), filters)
	if err != nil {
		h.logger.Errorf("list jobs error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ListJobsResponse{
		Jobs: jobs,
		Pagination: PaginationInfo{
			Total:  total,
			Offset: filters.Offset,
			Limit:  filters.Limit,
		},
	})
}

// SelectMode handles switching the processing mode for a conversation
func (h *JobHandler) SelectMode(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Conversation ID is required"})
		return
	}

	var req SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	mode, err := h.jobService.SelectMode(c.Request.Context(), conversationID, req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid mode", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SelectModeResponse{
		Message: "Mode updated successfully",
		Mode:    mode,
	})
}
