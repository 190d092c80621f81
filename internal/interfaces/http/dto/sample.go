package dto

import (
	"time"

	"ai-author-api/internal/domain/entity"
)

// AddSampleRequest 登记样本请求
type AddSampleRequest struct {
	Text string `json:"text" binding:"required"`
}

// SampleResponse 样本响应
type SampleResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
	// Text 仅在单条查询时返回，列表场景省流量
	Text string `json:"text,omitempty"`
}

// SampleListResponse 样本列表响应
type SampleListResponse struct {
	Samples []*SampleResponse `json:"samples"`
}

// ToSampleResponse 将领域实体转换为响应 DTO
func ToSampleResponse(s *entity.Sample, includeText bool) *SampleResponse {
	if s == nil {
		return nil
	}
	resp := &SampleResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		WordCount: s.WordCount,
		CreatedAt: s.CreatedAt,
	}
	if includeText {
		resp.Text = s.RawText
	}
	return resp
}

// ToSampleListResponse 批量转换样本列表
func ToSampleListResponse(samples []*entity.Sample) *SampleListResponse {
	out := make([]*SampleResponse, 0, len(samples))
	for _, s := range samples {
		out = append(out, ToSampleResponse(s, false))
	}
	return &SampleListResponse{Samples: out}
}
