package dto

import (
	"encoding/json"
	"time"

	"ai-author-api/internal/domain/entity"
)

// JobResponse 任务响应
type JobResponse struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	JobType      string          `json:"job_type"`
	Status       string          `json:"status"`
	Progress     int             `json:"progress"`
	OutputResult json.RawMessage `json:"output_result,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	RetryCount   int             `json:"retry_count"`
	CreatedAt    time.Time       `json:"created_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// JobListResponse 任务列表响应
type JobListResponse struct {
	Jobs []*JobResponse `json:"jobs"`
}

// ToJobResponse 将领域实体转换为响应 DTO
func ToJobResponse(j *entity.GenerationJob) *JobResponse {
	if j == nil {
		return nil
	}
	return &JobResponse{
		ID:           j.ID,
		OwnerID:      j.OwnerID,
		JobType:      string(j.JobType),
		Status:       string(j.Status),
		Progress:     j.Progress,
		OutputResult: j.OutputResult,
		ErrorMessage: j.ErrorMessage,
		RetryCount:   j.RetryCount,
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
	}
}

// ToJobListResponse 批量转换任务列表
func ToJobListResponse(jobs []*entity.GenerationJob) *JobListResponse {
	out := make([]*JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, ToJobResponse(j))
	}
	return &JobListResponse{Jobs: out}
}
