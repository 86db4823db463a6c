package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kolscribe/kolscribe/internal/domains/job"
	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/media"
)

type captureJobService struct {
	lastSubmit job.CreateJobRequest
}

func (c *captureJobService) Submit(ctx context.Context, req job.CreateJobRequest) (*job.JobResponse, error) {
	c.lastSubmit = req
	j := job.NewJob(req)
	resp := j.ToResponse()
	return &resp, nil
}

func (c *captureJobService) GetJob(ctx context.Context, jobID string) (*job.JobResponse, error) {
	return nil, job.ErrJobNotFound
}

func (c *captureJobService) ListJobs(ctx context.Context, filters job.ListJobsRequest) ([]job.JobResponse, int64, error) {
	return nil, 0, nil
}

func (c *captureJobService) SelectMode(ctx context.Context, conversationID string, mode job.Mode) (job.Mode, error) {
	return mode, nil
}

func (c *captureJobService) WatchProgress(jobID string) (<-chan job.ProgressEvent, func()) {
	ch := make(chan job.ProgressEvent)
	return ch, func() { close(ch) }
}

func submitRecording(t *testing.T, handler *JobHandler, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", "note.ogg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("audio")); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/jobs", handler.SubmitJob)

	req := httptest.NewRequest(http.MethodPost, "/jobs", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitJobDefaultsLanguageFromConfig(t *testing.T) {
	svc := &captureJobService{}
	handler := NewJobHandler(svc, t.TempDir(), "he", media.NewToolbox(), Logger.New(true))

	rec := submitRecording(t, handler, map[string]string{"mode": "transcribe"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastSubmit.Language != "he" {
		t.Errorf("expected the configured default language, got %q", svc.lastSubmit.Language)
	}
}

func TestSubmitJobFormLanguageWins(t *testing.T) {
	svc := &captureJobService{}
	handler := NewJobHandler(svc, t.TempDir(), "he", media.NewToolbox(), Logger.New(true))

	rec := submitRecording(t, handler, map[string]string{"mode": "transcribe", "language": "en"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastSubmit.Language != "en" {
		t.Errorf("expected the form language to win, got %q", svc.lastSubmit.Language)
	}
}

func TestSubmitJobMissingAudio(t *testing.T) {
	svc := &captureJobService{}
	handler := NewJobHandler(svc, t.TempDir(), "he", media.NewToolbox(), Logger.New(true))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("mode", "both"); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/jobs", handler.SubmitJob)

	req := httptest.NewRequest(http.MethodPost, "/jobs", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a missing audio file, got %d", rec.Code)
	}
	if svc.lastSubmit.SourcePath != "" {
		t.Error("nothing should be submitted without an audio file")
	}
}
