package job

import (
	"time"

	"github.com/google/uuid"
)

// Mode selects what the pipeline produces for a submission.
type Mode string

const (
	ModeTranscribeOnly Mode = "transcribe"
	ModeSummarizeOnly  Mode = "summarize"
	ModeBoth           Mode = "both"
)

// IsValid checks if the mode is valid
func (m Mode) IsValid() bool {
	switch m {
	case ModeTranscribeOnly, ModeSummarizeOnly, ModeBoth:
		return true
	default:
		return false
	}
}

// WantsTranscript reports whether the caller gets the raw transcript back.
func (m Mode) WantsTranscript() bool {
	return m == ModeTranscribeOnly || m == ModeBoth
}

// WantsSummary reports whether the pipeline runs the summarizer.
func (m Mode) WantsSummary() bool {
	return m == ModeSummarizeOnly || m == ModeBoth
}

// Status represents the lifecycle stage of a job
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// IsValid checks if the job status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusDone, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the job will not change again.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Job represents one submitted recording moving through the pipeline
type Job struct {
	ID             uuid.UUID      `json:"id"`
	ConversationID string         `json:"conversationId"`
	Mode           Mode           `json:"mode"`
	Status         Status         `json:"status"`
	Language       string         `json:"language"`
	SourcePath     string         `json:"sourcePath"`
	SourceName     string         `json:"sourceName"`
	DurationSecs   float64        `json:"durationSecs"`
	Transcript     string         `json:"transcript,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	TranscriptPath string         `json:"transcriptPath,omitempty"`
	SummaryPath    string         `json:"summaryPath,omitempty"`
	Error          string         `json:"error,omitempty"`
	ElapsedMS      int64          `json:"elapsedMs"`
	Metadata       map[string]any `json:"metadata"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NewJob creates a queued job for an uploaded recording
func NewJob(req CreateJobRequest) *Job {
	now := time.Now()
	return &Job{
		ID:             uuid.New(),
		ConversationID: req.ConversationID,
		Mode:           req.Mode,
		Status:         StatusQueued,
		Language:       req.Language,
		SourcePath:     req.SourcePath,
		SourceName:     req.SourceName,
		Metadata:       req.Metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ToResponse converts Job to JobResponse
func (j *Job) ToResponse() JobResponse {
	return JobResponse{
		ID:             j.ID,
		ConversationID: j.ConversationID,
		Mode:           j.Mode,
		Status:         j.Status,
		Language:       j.Language,
		SourceName:     j.SourceName,
		DurationSecs:   j.DurationSecs,
		Transcript:     j.Transcript,
		Summary:        j.Summary,
		Error:          j.Error,
		ElapsedMS:      j.ElapsedMS,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

// CreateJobRequest represents a request to process an uploaded recording
type CreateJobRequest struct {
	ConversationID string         `json:"conversationId"`
	Mode           Mode           `json:"mode"`
	Language       string         `json:"language"`
	SourcePath     string         `json:"-"`
	SourceName     string         `json:"-"`
	Metadata       map[string]any `json:"metadata"`
}

// ListJobsRequest represents filtering and pagination options for listing jobs
type ListJobsRequest struct {
	ConversationID string  `form:"conversationId"`
	Status         *Status `form:"status"`
	Offset         int     `form:"offset"`
	Limit          int     `form:"limit"`
}

// JobResponse represents the response format for a job
type JobResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID string    `json:"conversationId"`
	Mode           Mode      `json:"mode"`
	Status         Status    `json:"status"`
	Language       string    `json:"language"`
	SourceName     string    `json:"sourceName"`
	DurationSecs   float64   `json:"durationSecs"`
	Transcript     string    `json:"transcript,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	Error          string    `json:"error,omitempty"`
	ElapsedMS      int64     `json:"elapsedMs"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// JobRepository defines the interface for job persistence
type JobRepository interface {
	Create(job *Job) error
	GetByID(id string) (*Job, error)
	Update(job *Job) error
	List(filters ListJobsRequest) ([]Job, int64, error)
}
