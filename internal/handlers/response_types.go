package handlers

import (
	"github.com/kolscribe/kolscribe/internal/domains/job"
)

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Total  int64 `json:"total" example:"150"`
	Offset int   `json:"offset" example:"0"`
	Limit  int   `json:"limit" example:"20"`
}

// SubmitJobResponse represents the response for a submitted recording
type SubmitJobResponse struct {
	Message string          `json:"message" example:"Recording accepted"`
	Job     job.JobResponse `json:"job"`
}

// JobByIDResponse represents the response for getting a single job
type JobByIDResponse struct {
	Job job.JobResponse `json:"job"`
}

// ListJobsResponse represents the response for listing jobs
type ListJobsResponse struct {
	Jobs       []job.JobResponse `json:"jobs"`
	Pagination PaginationInfo    `json:"pagination"`
}

// SelectModeRequest represents the request for switching a conversation mode
type SelectModeRequest struct {
	Mode job.Mode `json:"mode" binding:"required" example:"both"`
}

// SelectModeResponse represents the response for switching a conversation mode
type SelectModeResponse struct {
	Message string   `json:"message" example:"Mode updated successfully"`
	Mode    job.Mode `json:"mode"`
}
