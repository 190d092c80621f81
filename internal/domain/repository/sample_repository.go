package repository

import (
	"context"

	"ai-author-api/internal/domain/entity"
)

// SampleRepository 写作样本仓储接口
type SampleRepository interface {
	// Create 创建样本
	Create(ctx context.Context, sample *entity.Sample) error

	// GetByID 根据 ID 获取样本
	GetByID(ctx context.Context, id string) (*entity.Sample, error)

	// Delete 删除样本
	Delete(ctx context.Context, id string) error

	// ListByOwner 获取 owner 的样本列表（按创建时间倒序）
	ListByOwner(ctx context.Context, ownerID string, pagination Pagination) (*PagedResult[*entity.Sample], error)

	// ListAllByOwner 获取 owner 的全部样本（画像计算用）
	ListAllByOwner(ctx context.Context, ownerID string) ([]*entity.Sample, error)

	// CountByOwner 统计 owner 的样本数量
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}
