package generation

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/infrastructure/persistence/milvus"
	wfmodel "ai-author-api/internal/workflow/model"
)

// ProfileResolver 画像解析依赖（port），画像缺失时由实现方负责当场计算
type ProfileResolver interface {
	Resolve(ctx context.Context, ownerID string) (*entity.StyleProfile, error)
}

// VectorSearcher 向量检索依赖（port）
type VectorSearcher interface {
	SearchChunks(ctx context.Context, params *milvus.SearchParams) ([]*milvus.SearchResult, error)
}

// PostComposer 生成工作流依赖（port）
type PostComposer interface {
	Invoke(ctx context.Context, in *wfmodel.PostGenerateInput) (*schema.Message, error)
}
