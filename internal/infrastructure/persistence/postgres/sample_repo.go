package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
)

// SampleRepository 写作样本仓储实现
type SampleRepository struct {
	client *Client
}

// NewSampleRepository 创建样本仓储
func NewSampleRepository(client *Client) *SampleRepository {
	return &SampleRepository{client: client}
}

// Create 创建样本
func (r *SampleRepository) Create(ctx context.Context, sample *entity.Sample) error {
	ctx, span := tracer.Start(ctx, "postgres.SampleRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(sample).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create sample: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取样本
func (r *SampleRepository) GetByID(ctx context.Context, id string) (*entity.Sample, error) {
	ctx, span := tracer.Start(ctx, "postgres.SampleRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var sample entity.Sample
	if err := db.First(&sample, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	return &sample, nil
}

// Delete 删除样本
func (r *SampleRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.SampleRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Sample{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete sample: %w", err)
	}
	return nil
}

// ListByOwner 获取 owner 的样本列表
func (r *SampleRepository) ListByOwner(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Sample], error) {
	ctx, span := tracer.Start(ctx, "postgres.SampleRepository.ListByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Sample{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count samples: %w", err)
	}

	var samples []*entity.Sample
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&samples).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}

	return repository.NewPagedResult(samples, total, pagination), nil
}

// ListAllByOwner 获取 owner 的全部样本
func (r *SampleRepository) ListAllByOwner(ctx context.Context, ownerID string) ([]*entity.Sample, error) {
	ctx, span := tracer.Start(ctx, "postgres.SampleRepository.ListAllByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var samples []*entity.Sample
	if err := db.Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&samples).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list all samples: %w", err)
	}
	return samples, nil
}

// CountByOwner 统计 owner 的样本数量
func (r *SampleRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.SampleRepository.CountByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := db.Model(&entity.Sample{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count samples: %w", err)
	}
	return total, nil
}
