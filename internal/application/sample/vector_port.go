package sample

import (
	"context"

	"ai-author-api/internal/infrastructure/persistence/milvus"
)

// VectorIndex 定义样本服务对向量存储的最小依赖（port）。
// 由基础设施层提供具体实现（Milvus）。
type VectorIndex interface {
	EnsureWritingSamplesCollection(ctx context.Context) error
	InsertChunks(ctx context.Context, ownerID string, chunks []*milvus.SampleChunk) error
	DeleteChunksBySample(ctx context.Context, ownerID, sampleID string) error
}

// ProfileInvalidator 样本变更后使派生画像失效
type ProfileInvalidator interface {
	InvalidateOwner(ctx context.Context, ownerID string) error
}
