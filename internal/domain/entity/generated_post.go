package entity

import (
	"time"
)

// PostKind 内容类型
type PostKind string

const (
	PostKindBlog   PostKind = "blog"
	PostKindSocial PostKind = "social"
)

// ValidPostKind 检查内容类型是否合法
func ValidPostKind(k PostKind) bool {
	return k == PostKindBlog || k == PostKindSocial
}

// ExportFormat 导出格式
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ValidExportFormat 检查导出格式是否合法
func ValidExportFormat(f ExportFormat) bool {
	return f == ExportFormatMarkdown || f == ExportFormatJSON
}

// GenerationMetadata 生成元数据
type GenerationMetadata struct {
	Provider         string  `json:"provider,omitempty"`
	Model            string  `json:"model,omitempty"`
	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	GeneratedAt      string  `json:"generated_at,omitempty"`
}

// GeneratedPost 生成内容实体
// 创建后不可修改；ProfileSnapshotID 与 ProfileSummary 记录生成时刻的画像快照，
// 画像后续重算不会回写这两个字段
type GeneratedPost struct {
	ID                 string              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID            string              `json:"owner_id" gorm:"type:varchar(128);index;not null"`
	Brief              string              `json:"brief" gorm:"type:text;not null"`
	Kind               PostKind            `json:"kind" gorm:"type:varchar(32);not null"`
	ProfileSnapshotID  string              `json:"profile_snapshot_id" gorm:"type:uuid;not null"`
	ProfileSummary     string              `json:"profile_summary" gorm:"type:text"`
	Content            string              `json:"content" gorm:"type:text;not null"`
	Format             ExportFormat        `json:"format" gorm:"type:varchar(32);default:'markdown'"`
	WordCount          int                 `json:"word_count" gorm:"default:0"`
	GenerationMetadata *GenerationMetadata `json:"generation_metadata,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt          time.Time           `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (GeneratedPost) TableName() string {
	return "generated_posts"
}

// NewGeneratedPost 创建新的生成内容
func NewGeneratedPost(ownerID, brief string, kind PostKind, profile *StyleProfile, content string, format ExportFormat) *GeneratedPost {
	return &GeneratedPost{
		OwnerID:           ownerID,
		Brief:             brief,
		Kind:              kind,
		ProfileSnapshotID: profile.ID,
		ProfileSummary:    profile.SummaryText,
		Content:           content,
		Format:            format,
		WordCount:         CountWords(content),
		CreatedAt:         time.Now(),
	}
}
