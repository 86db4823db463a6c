package job

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kolscribe/kolscribe/internal/domains/job"
	"gorm.io/gorm"
)

// MetadataMap is a custom type for handling JSON serialization of metadata
type MetadataMap map[string]any

// Value implements driver.Valuer interface for GORM
func (m MetadataMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for GORM
func (m *MetadataMap) Scan(value interface{}) error {
	if value == nil {
		*m = MetadataMap{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		*m = MetadataMap{}
		return nil
	}
}

// JobEntity represents the database entity for Job with GORM tags
type JobEntity struct {
	ID             uuid.UUID       `gorm:"primaryKey;type:char(36);not null"`
	ConversationID string          `gorm:"column:conversation_id;type:varchar(64);index"`
	Mode           string          `gorm:"column:mode;type:varchar(20);not null"`
	Status         string          `gorm:"column:status;type:varchar(20);not null;index;default:queued"`
	Language       string          `gorm:"column:language;type:varchar(10)"`
	SourcePath     string          `gorm:"column:source_path;type:varchar(512)"`
	SourceName     string          `gorm:"column:source_name;type:varchar(255)"`
	DurationSecs   float64         `gorm:"column:duration_secs"`
	Transcript     string          `gorm:"column:transcript;type:longtext"`
	Summary        string          `gorm:"column:summary;type:text"`
	TranscriptPath string          `gorm:"column:transcript_path;type:varchar(512)"`
	SummaryPath    string          `gorm:"column:summary_path;type:varchar(512)"`
	Error          string          `gorm:"column:error;type:text"`
	ElapsedMS      int64           `gorm:"column:elapsed_ms"`
	Metadata       MetadataMap     `gorm:"type:json;column:metadata"`
	CreatedAt      time.Time       `gorm:"autoCreateTime(3)"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime(3)"`
	DeletedAt      *gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (JobEntity) TableName() string {
	return "jobs"
}

// BeforeCreate is a GORM hook to ensure UUID is set
func (j *JobEntity) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// ToDomain converts JobEntity to domain Job
func (j *JobEntity) ToDomain() *job.Job {
	metadata := map[string]any(j.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &job.Job{
		ID:             j.ID,
		ConversationID: j.ConversationID,
		Mode:           job.Mode(j.Mode),
		Status:         job.Status(j.Status),
		Language:       j.Language,
		SourcePath:     j.SourcePath,
		SourceName:     j.SourceName,
		DurationSecs:   j.DurationSecs,
		Transcript:     j.Transcript,
		Summary:        j.Summary,
		TranscriptPath: j.TranscriptPath,
		SummaryPath:    j.SummaryPath,
		Error:          j.Error,
		ElapsedMS:      j.ElapsedMS,
		Metadata:       metadata,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

// FromDomain converts domain Job to JobEntity
func (j *JobEntity) FromDomain(domainJob *job.Job) {
	j.ID = domainJob.ID
	j.ConversationID = domainJob.ConversationID
	j.Mode = string(domainJob.Mode)
	j.Status = string(domainJob.Status)
	j.Language = domainJob.Language
	j.SourcePath = domainJob.SourcePath
	j.SourceName = domainJob.SourceName
	j.DurationSecs = domainJob.DurationSecs
	j.Transcript = domainJob.Transcript
	j.Summary = domainJob.Summary
	j.TranscriptPath = domainJob.TranscriptPath
	j.SummaryPath = domainJob.SummaryPath
	j.Error = domainJob.Error
	j.ElapsedMS = domainJob.ElapsedMS
	j.Metadata = MetadataMap(domainJob.Metadata)
	j.CreatedAt = domainJob.CreatedAt
	j.UpdatedAt = domainJob.UpdatedAt
}

// NewJobEntityFromDomain creates a new JobEntity from domain Job
func NewJobEntityFromDomain(domainJob *job.Job) *JobEntity {
	entity := &JobEntity{}
	entity.FromDomain(domainJob)
	return entity
}
