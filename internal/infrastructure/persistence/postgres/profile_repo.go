package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ai-author-api/internal/domain/entity"
)

// ProfileRepository 风格画像仓储实现
type ProfileRepository struct {
	client *Client
}

// NewProfileRepository 创建画像仓储
func NewProfileRepository(client *Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// Upsert 保存画像（按 owner 整行替换，重算得到新 ID 与新统计值）
func (r *ProfileRepository) Upsert(ctx context.Context, profile *entity.StyleProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.Upsert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		UpdateAll: true,
	}).Create(profile).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert style profile: %w", err)
	}
	return nil
}

// GetByOwner 获取 owner 的最新画像
func (r *ProfileRepository) GetByOwner(ctx context.Context, ownerID string) (*entity.StyleProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.GetByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var profile entity.StyleProfile
	if err := db.First(&profile, "owner_id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get style profile: %w", err)
	}
	return &profile, nil
}

// GetByID 根据 ID 获取画像
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.StyleProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var profile entity.StyleProfile
	if err := db.First(&profile, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get style profile by id: %w", err)
	}
	return &profile, nil
}

// DeleteByOwner 删除 owner 的画像
func (r *ProfileRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.DeleteByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.StyleProfile{}, "owner_id = ?", ownerID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete style profile: %w", err)
	}
	return nil
}
