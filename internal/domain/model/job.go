// Package model defines the core data types for the inkwell content backend.
package model

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
)

// JobKind represents the kind of content work delegated to the ML service.
type JobKind string

// JobStatus represents the current status of a tracked job.
type JobStatus string

const (
	// JobKindAnalyze represents a content analysis job.
	JobKindAnalyze JobKind = "analyze"
	// JobKindGenerate represents a content generation job.
	JobKindGenerate JobKind = "generate"

	// JobStatusProcessing indicates the upstream call is still in flight.
	JobStatusProcessing JobStatus = "processing"
	// JobStatusCompleted indicates the upstream call succeeded and a result is available.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the upstream call failed, timed out, or panicked.
	JobStatusFailed JobStatus = "failed"
)

// Valid returns true if the JobKind is valid.
func (k JobKind) Valid() bool {
	return k == JobKindAnalyze || k == JobKindGenerate
}

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	return s == JobStatusProcessing || s == JobStatusCompleted || s == JobStatusFailed
}

// Terminal returns true once the status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job represents one tracked unit of outsourced analysis/generation work.
//
// Exactly one of Result/Error is populated once the job reaches a terminal
// status; both are empty while the job is processing.
type Job struct {
	ID            string          `json:"id"`
	Kind          JobKind         `json:"kind"`
	Status        JobStatus       `json:"status"`
	Result        json.RawMessage `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	LastUpdatedAt time.Time       `json:"last_updated_at"`
}

// AnalyzeRequest represents a request to analyze a piece of content.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// Validate validates the AnalyzeRequest fields.
func (r *AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return apperrors.ValidationField("text", "text is required")
	}
	return nil
}

// GenerateRequest represents a request to generate content.
// Tone is optional; at least one of Title or Keywords must be provided.
type GenerateRequest struct {
	Title    string `json:"title,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Tone     string `json:"tone,omitempty"`
}

// Validate validates the GenerateRequest fields.
func (r *GenerateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Keywords) == "" {
		return apperrors.Validation("title or keywords are required")
	}
	return nil
}

// SubmitResponse is returned to the client immediately after a job is accepted.
type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// JobStatusResponse represents the poller-visible view of a job.
type JobStatusResponse struct {
	Status JobStatus       `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusView projects a Job into its poller-visible form.
func (j Job) StatusView() JobStatusResponse {
	return JobStatusResponse{
		Status: j.Status,
		Result: j.Result,
		Error:  j.Error,
	}
}
