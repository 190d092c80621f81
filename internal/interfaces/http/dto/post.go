package dto

import (
	"time"

	"ai-author-api/internal/application/generation"
	"ai-author-api/internal/domain/entity"
)

// GenerateRequest 内容生成请求
type GenerateRequest struct {
	OwnerID         string   `json:"owner_id" binding:"required"`
	Brief           string   `json:"brief" binding:"required"`
	Kind            string   `json:"kind,omitempty"`
	Format          string   `json:"format,omitempty"`
	TopK            int      `json:"top_k,omitempty" binding:"omitempty,gte=1,lte=20"`
	TargetWordCount int      `json:"target_word_count,omitempty" binding:"omitempty,gte=50,lte=5000"`
	Provider        string   `json:"provider,omitempty"`
	Model           string   `json:"model,omitempty"`
	Temperature     *float32 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
	MaxTokens       *int     `json:"max_tokens,omitempty" binding:"omitempty,gte=1"`
}

// ToGenerationInput 转换为应用层输入
func (r *GenerateRequest) ToGenerationInput() *generation.Input {
	return &generation.Input{
		OwnerID:         r.OwnerID,
		Brief:           r.Brief,
		Kind:            entity.PostKind(r.Kind),
		Format:          entity.ExportFormat(r.Format),
		TopK:            r.TopK,
		TargetWordCount: r.TargetWordCount,
		Provider:        r.Provider,
		Model:           r.Model,
		Temperature:     r.Temperature,
		MaxTokens:       r.MaxTokens,
	}
}

// GenerationMetadataResponse 生成元数据响应
type GenerationMetadataResponse struct {
	Provider         string  `json:"provider,omitempty"`
	Model            string  `json:"model,omitempty"`
	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	GeneratedAt      string  `json:"generated_at,omitempty"`
}

// PostResponse 生成内容响应
type PostResponse struct {
	ID                 string                      `json:"id"`
	OwnerID            string                      `json:"owner_id"`
	Brief              string                      `json:"brief"`
	Kind               string                      `json:"kind"`
	Format             string                      `json:"format"`
	Content            string                      `json:"content,omitempty"`
	WordCount          int                         `json:"word_count"`
	ProfileSnapshotID  string                      `json:"profile_snapshot_id"`
	ProfileSummary     string                      `json:"profile_summary,omitempty"`
	GenerationMetadata *GenerationMetadataResponse `json:"generation_metadata,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
}

// PostListResponse 生成内容列表响应
type PostListResponse struct {
	Posts []*PostResponse `json:"posts"`
}

// ToPostResponse 将领域实体转换为响应 DTO
func ToPostResponse(p *entity.GeneratedPost, includeContent bool) *PostResponse {
	if p == nil {
		return nil
	}
	resp := &PostResponse{
		ID:                p.ID,
		OwnerID:           p.OwnerID,
		Brief:             p.Brief,
		Kind:              string(p.Kind),
		Format:            string(p.Format),
		WordCount:         p.WordCount,
		ProfileSnapshotID: p.ProfileSnapshotID,
		ProfileSummary:    p.ProfileSummary,
		CreatedAt:         p.CreatedAt,
	}
	if includeContent {
		resp.Content = p.Content
	}
	if p.GenerationMetadata != nil {
		resp.GenerationMetadata = &GenerationMetadataResponse{
			Provider:         p.GenerationMetadata.Provider,
			Model:            p.GenerationMetadata.Model,
			PromptTokens:     p.GenerationMetadata.PromptTokens,
			CompletionTokens: p.GenerationMetadata.CompletionTokens,
			Temperature:      p.GenerationMetadata.Temperature,
			GeneratedAt:      p.GenerationMetadata.GeneratedAt,
		}
	}
	return resp
}

// ToPostListResponse 批量转换内容列表
func ToPostListResponse(posts []*entity.GeneratedPost) *PostListResponse {
	out := make([]*PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToPostResponse(p, false))
	}
	return &PostListResponse{Posts: out}
}
