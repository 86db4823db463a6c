package job

import (
	"errors"
	"fmt"

	"github.com/kolscribe/kolscribe/internal/domains/job"
	"gorm.io/gorm"
)

type GormJobRepo struct {
	db *gorm.DB
}

// Create implements job.JobRepository
func (g *GormJobRepo) Create(j *job.Job) error {
	entity := NewJobEntityFromDomain(j)
	if err := g.db.Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	// Update domain object with any changes from database
	*j = *entity.ToDomain()
	return nil
}

// GetByID implements job.JobRepository
func (g *GormJobRepo) GetByID(id string) (*job.Job, error) {
	var entity JobEntity
	if err := g.db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, job.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return entity.ToDomain(), nil
}

// Update implements job.JobRepository
func (g *GormJobRepo) Update(j *job.Job) error {
	entity := NewJobEntityFromDomain(j)
	result := g.db.Model(&JobEntity{}).Where("id = ?", j.ID).Updates(entity)
	if result.Error != nil {
		return fmt.Errorf("failed to update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return job.ErrJobNotFound
	}
	return nil
}

// List implements job.JobRepository
func (g *GormJobRepo) List(filters job.ListJobsRequest) ([]job.Job, int64, error) {
	var entities []JobEntity
	var total int64

	query := g.db.Model(&JobEntity{})
	if filters.ConversationID != "" {
		query = query.Where("conversation_id = ?", filters.ConversationID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]job.Job, len(entities))
	for i, entity := range entities {
		jobs[i] = *entity.ToDomain()
	}

	return jobs, total, nil
}

// NewGormJobRepo creates a new GORM-based job repository
func NewGormJobRepo(db *gorm.DB) job.JobRepository {
	return &GormJobRepo{db: db}
}
