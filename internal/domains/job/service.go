package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/summarize"
	"github.com/kolscribe/kolscribe/pkg/transcriber"
)

// Common errors
var (
	ErrJobNotFound    = errors.New("job not found")
	ErrInvalidJobData = errors.New("invalid job data")
)

// Transcriber produces a transcript for one recording.
type Transcriber interface {
	Transcribe(ctx context.Context, path, language string, opts transcriber.Options) (transcriber.Result, error)
}

// JobService defines the interface for pipeline business logic
type JobService interface {
	Submit(ctx context.Context, req CreateJobRequest) (*JobResponse, error)
	GetJob(ctx context.Context, jobID string) (*JobResponse, error)
	ListJobs(ctx context.Context, filters ListJobsRequest) ([]JobResponse, int64, error)
	SelectMode(ctx context.Context, conversationID string, mode Mode) (Mode, error)
	WatchProgress(jobID string) (<-chan ProgressEvent, func())
}

// PipelineConfig carries the tunables the async pipeline needs.
type PipelineConfig struct {
	ChunkSeconds   float64
	OverlapSeconds float64
	TempDir        string
	TranscriptsDir string
	SummariesDir   string
	// HeartbeatEvery spaces keepalive events while a long stage runs.
	HeartbeatEvery time.Duration
}

type jobService struct {
	repository  JobRepository
	transcriber Transcriber
	summarizer  summarize.Summarizer
	cache       SummaryCache
	sessions    *SessionManager
	progress    *ProgressHub
	cfg         PipelineConfig
	logger      *Logger.Logger
}

// NewJobService wires the pipeline together
func NewJobService(
	repository JobRepository,
	tr Transcriber,
	summarizer summarize.Summarizer,
	cache SummaryCache,
	cfg PipelineConfig,
	logger *Logger.Logger,
) JobService {
	if cache == nil {
		cache = NopSummaryCache{}
	}
	if cfg.HeartbeatEvery <= 0 {
		cfg.HeartbeatEvery = 15 * time.Second
	}
	return &jobService{
		repository:  repository,
		transcriber: tr,
		summarizer:  summarizer,
		cache:       cache,
		sessions:    NewSessionManager(),
		progress:    NewProgressHub(),
		cfg:         cfg,
		logger:      logger,
	}
}

// Submit implements JobService. The job is persisted as queued and the
// pipeline runs on its own goroutine; callers poll or watch progress.
func (s *jobService) Submit(ctx context.Context, req CreateJobRequest) (*JobResponse, error) {
	if req.SourcePath == "" {
		return nil, fmt.Errorf("%w: missing source recording", ErrInvalidJobData)
	}
	if req.Mode == "" {
		req.Mode = s.sessions.Get(req.ConversationID).Mode()
	}
	if !req.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidJobData, req.Mode)
	}

	j := NewJob(req)
	if err := s.repository.Create(j); err != nil {
		s.logger.Errorf("error creating job: %v", err)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Infof("job %s queued: %s (%s)", j.ID, j.SourceName, j.Mode)
	go s.run(*j)

	response := j.ToResponse()
	return &response, nil
}

// GetJob implements JobService
func (s *jobService) GetJob(ctx context.Context, jobID string) (*JobResponse, error) {
	j, err := s.repository.GetByID(jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Errorf("error getting job: %v", err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	response := j.ToResponse()
	return &response, nil
}

// ListJobs implements JobService
func (s *jobService) ListJobs(ctx context.Context, filters ListJobsRequest) ([]JobResponse, int64, error) {
	jobs, total, err := s.repository.List(filters)
	if err != nil {
		s.logger.Errorf("error listing jobs: %v", err)
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	responses := make([]JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = jobs[i].ToResponse()
	}
	return responses, total, nil
}

// SelectMode implements JobService
func (s *jobService) SelectMode(ctx context.Context, conversationID string, mode Mode) (Mode, error) {
	session := s.sessions.Get(conversationID)
	if err := session.Select(ctx, mode); err != nil {
		return session.Mode(), err
	}
	s.logger.Infof("conversation %s switched to mode %s", conversationID, mode)
	return session.Mode(), nil
}

// WatchProgress implements JobService
func (s *jobService) WatchProgress(jobID string) (<-chan ProgressEvent, func()) {
	return s.progress.Subscribe(jobID)
}

// run executes the pipeline for one job. It owns the job value and
// persists every state change.
func (s *jobService) run(j Job) {
	ctx := context.Background()
	started := time.Now()

	j.Status = StatusRunning
	s.persist(&j)
	s.publish(&j, "started", 0, 0, "")

	stopHeartbeat := s.startHeartbeat(&j)
	defer stopHeartbeat()

	res, err := s.transcribe(ctx, &j)
	if err != nil {
		s.fail(&j, started, fmt.Errorf("transcription: %w", err))
		return
	}
	transcript := res.Text
	j.DurationSecs = res.SourceSeconds
	j.ElapsedMS = res.Elapsed.Milliseconds()
	if j.Mode.WantsTranscript() {
		j.Transcript = transcript
		if path, err := s.saveArtifact(s.cfg.TranscriptsDir, &j, "transcript", transcript); err != nil {
			s.logger.Errorf("job %s: saving transcript artifact: %v", j.ID, err)
		} else {
			j.TranscriptPath = path
		}
	}

	if j.Mode.WantsSummary() {
		s.publish(&j, "summarizing", 0, 0, "")
		summary, err := s.summarize(ctx, transcript)
		if err != nil {
			s.fail(&j, started, fmt.Errorf("summarization: %w", err))
			return
		}
		j.Summary = summary
		if path, err := s.saveArtifact(s.cfg.SummariesDir, &j, "summary", summary); err != nil {
			s.logger.Errorf("job %s: saving summary artifact: %v", j.ID, err)
		} else {
			j.SummaryPath = path
		}
	}

	j.Status = StatusDone
	s.persist(&j)
	s.publish(&j, "done", 0, 0, "")
	s.logger.Infof("job %s done in %s", j.ID, time.Since(started).Round(time.Millisecond))
}

func (s *jobService) transcribe(ctx context.Context, j *Job) (transcriber.Result, error) {
	opts := transcriber.Options{
		ChunkSeconds:   s.cfg.ChunkSeconds,
		OverlapSeconds: s.cfg.OverlapSeconds,
		TempDir:        s.cfg.TempDir,
		Progress: func(done, total int) {
			s.publish(j, "transcribing", done, total, "")
		},
	}

	return s.transcriber.Transcribe(ctx, j.SourcePath, j.Language, opts)
}

func (s *jobService) summarize(ctx context.Context, transcript string) (string, error) {
	if cached, ok := s.cache.Get(transcript); ok {
		return cached, nil
	}

	summary, err := s.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return "", err
	}
	s.cache.Set(transcript, summary)
	return summary, nil
}

// saveArtifact writes one result to disk under a timestamped name so
// repeated runs of the same recording never clobber each other.
func (s *jobService) saveArtifact(dir string, j *Job, kind, content string) (string, error) {
	if dir == "" || content == "" {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(j.SourceName, filepath.Ext(j.SourceName))
	if base == "" {
		base = j.ID.String()
	}
	name := fmt.Sprintf("%s_%s_%s.txt", time.Now().Format("20060102_150405"), base, kind)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// startHeartbeat keeps watchers alive through long silent stretches.
func (s *jobService) startHeartbeat(j *Job) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.cfg.HeartbeatEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.publish(j, "working", 0, 0, "")
			}
		}
	}()
	return func() { close(done) }
}

func (s *jobService) fail(j *Job, started time.Time, err error) {
	s.logger.Errorf("job %s failed: %v", j.ID, err)
	j.Status = StatusFailed
	j.Error = err.Error()
	j.ElapsedMS = time.Since(started).Milliseconds()
	s.persist(j)
	s.publish(j, "failed", 0, 0, err.Error())
}

func (s *jobService) persist(j *Job) {
	j.UpdatedAt = time.Now()
	if err := s.repository.Update(j); err != nil {
		s.logger.Errorf("job %s: persisting state %s: %v", j.ID, j.Status, err)
	}
}

func (s *jobService) publish(j *Job, stage string, done, total int, msg string) {
	s.progress.Publish(ProgressEvent{
		JobID:      j.ID.String(),
		Stage:      stage,
		ChunksDone: done,
		ChunkTotal: total,
		Status:     j.Status,
		Message:    msg,
	})
}
