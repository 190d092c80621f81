package dto

import (
	"time"

	"ai-author-api/internal/domain/entity"
)

// WordFrequencyResponse 高频词响应
type WordFrequencyResponse struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ProfileResponse 风格画像响应
type ProfileResponse struct {
	ID                string                   `json:"id"`
	OwnerID           string                   `json:"owner_id"`
	SummaryText       string                   `json:"summary_text"`
	AvgLengthWords    float64                  `json:"avg_length_words"`
	MedianLengthWords float64                  `json:"median_length_words"`
	FrequentWords     []*WordFrequencyResponse `json:"frequent_words,omitempty"`
	CommonOpenings    []string                 `json:"common_openings,omitempty"`
	SampleCount       int                      `json:"sample_count"`
	DerivedAt         time.Time                `json:"derived_at"`
}

// ToProfileResponse 将领域实体转换为响应 DTO
func ToProfileResponse(p *entity.StyleProfile) *ProfileResponse {
	if p == nil {
		return nil
	}

	words := make([]*WordFrequencyResponse, 0, len(p.FrequentWords))
	for _, wf := range p.FrequentWords {
		words = append(words, &WordFrequencyResponse{Word: wf.Word, Count: wf.Count})
	}

	return &ProfileResponse{
		ID:                p.ID,
		OwnerID:           p.OwnerID,
		SummaryText:       p.SummaryText,
		AvgLengthWords:    p.AvgLengthWords,
		MedianLengthWords: p.MedianLengthWords,
		FrequentWords:     words,
		CommonOpenings:    p.CommonOpenings,
		SampleCount:       p.SampleCount,
		DerivedAt:         p.DerivedAt,
	}
}
