package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
)

// PostRepository 生成内容仓储实现
type PostRepository struct {
	client *Client
}

// NewPostRepository 创建生成内容仓储
func NewPostRepository(client *Client) *PostRepository {
	return &PostRepository{client: client}
}

// Create 创建生成内容
func (r *PostRepository) Create(ctx context.Context, post *entity.GeneratedPost) error {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(post).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create generated post: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取生成内容
func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.GeneratedPost, error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var post entity.GeneratedPost
	if err := db.First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generated post: %w", err)
	}
	return &post, nil
}

// ListByOwner 获取 owner 的生成内容列表
func (r *PostRepository) ListByOwner(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.GeneratedPost], error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.ListByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.GeneratedPost{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count generated posts: %w", err)
	}

	var posts []*entity.GeneratedPost
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&posts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generated posts: %w", err)
	}

	return repository.NewPagedResult(posts, total, pagination), nil
}
