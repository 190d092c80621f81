package repository

import (
	"context"

	"ai-author-api/internal/domain/entity"
)

// ProfileRepository 风格画像仓储接口
type ProfileRepository interface {
	// Upsert 保存画像（按 owner 整行替换）
	Upsert(ctx context.Context, profile *entity.StyleProfile) error

	// GetByOwner 获取 owner 的最新画像
	GetByOwner(ctx context.Context, ownerID string) (*entity.StyleProfile, error)

	// GetByID 根据 ID 获取画像
	GetByID(ctx context.Context, id string) (*entity.StyleProfile, error)

	// DeleteByOwner 删除 owner 的画像
	DeleteByOwner(ctx context.Context, ownerID string) error
}
