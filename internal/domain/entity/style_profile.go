package entity

import (
	"time"
)

// WordFrequency 高频词条目
type WordFrequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// StyleProfile 风格画像实体
// 每个 owner 只保留最新一份画像，重算时整行替换并生成新 ID
type StyleProfile struct {
	ID                string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID           string          `json:"owner_id" gorm:"type:varchar(128);uniqueIndex;not null"`
	SummaryText       string          `json:"summary_text" gorm:"type:text"`
	AvgLengthWords    float64         `json:"avg_length_words"`
	MedianLengthWords float64         `json:"median_length_words"`
	FrequentWords     []WordFrequency `json:"frequent_words" gorm:"type:jsonb;serializer:json"`
	CommonOpenings    []string        `json:"common_openings" gorm:"type:jsonb;serializer:json"`
	SourceSampleIDs   []string        `json:"source_sample_ids" gorm:"type:jsonb;serializer:json"`
	SampleCount       int             `json:"sample_count" gorm:"default:0"`
	DerivedAt         time.Time       `json:"derived_at"`
	CreatedAt         time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (StyleProfile) TableName() string {
	return "style_profiles"
}

// SourceIDs 返回画像来源样本 ID 列表的拷贝
func (p *StyleProfile) SourceIDs() []string {
	out := make([]string, len(p.SourceSampleIDs))
	copy(out, p.SourceSampleIDs)
	return out
}
