package repository

import (
	"context"

	"ai-author-api/internal/domain/entity"
)

// PostRepository 生成内容仓储接口
type PostRepository interface {
	// Create 创建生成内容
	Create(ctx context.Context, post *entity.GeneratedPost) error

	// GetByID 根据 ID 获取生成内容
	GetByID(ctx context.Context, id string) (*entity.GeneratedPost, error)

	// ListByOwner 获取 owner 的生成内容列表（按创建时间倒序）
	ListByOwner(ctx context.Context, ownerID string, pagination Pagination) (*PagedResult[*entity.GeneratedPost], error)
}
