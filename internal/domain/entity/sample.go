// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// Sample 写作样本实体
// 样本创建后不可修改，只能删除
type Sample struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(128);index;not null"`
	RawText   string    `json:"raw_text" gorm:"type:text;not null"`
	WordCount int       `json:"word_count" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Sample) TableName() string {
	return "writing_samples"
}

// NewSample 创建新样本
func NewSample(ownerID, rawText string) *Sample {
	return &Sample{
		OwnerID:   ownerID,
		RawText:   rawText,
		WordCount: CountWords(rawText),
		CreatedAt: time.Now(),
	}
}

// CountWords 按空白切分统计词数
func CountWords(text string) int {
	return len(strings.Fields(text))
}
