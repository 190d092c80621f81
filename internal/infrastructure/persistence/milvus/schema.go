package milvus

import (
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionWritingSamples 写作样本分块集合
	CollectionWritingSamples = "writing_samples"
)

// WritingSamplesSchema 写作样本分块 Collection Schema
func WritingSamplesSchema(dimension int) *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionWritingSamples,
		Description:    "Writing sample chunks for style-similarity search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", dimension),
				},
			},
			{
				Name:     "owner_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "sample_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "chunk_seq",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "text_content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "created_at",
				DataType: entity.FieldTypeInt64,
			},
		},
	}
}

// SampleChunk 写作样本分块数据结构
type SampleChunk struct {
	ID          string    `json:"id"`
	Vector      []float32 `json:"vector"`
	OwnerID     string    `json:"owner_id"`
	SampleID    string    `json:"sample_id"`
	ChunkSeq    int64     `json:"chunk_seq"`
	TextContent string    `json:"text_content"`
	CreatedAt   int64     `json:"created_at"`
}

// PartitionName 生成 owner 分区名称
func PartitionName(ownerID string) string {
	return "owner_" + ownerID
}
