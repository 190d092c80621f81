// Package sample 提供写作样本的登记、检索索引与删除
package sample

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/infrastructure/persistence/milvus"
	apperrors "ai-author-api/pkg/errors"
	"ai-author-api/pkg/logger"
)

var tracer = otel.Tracer("application.sample")

const maxSampleRunes = 200_000

// Service 样本应用服务
type Service struct {
	samples  repository.SampleRepository
	txm      repository.Transactor
	vector   VectorIndex
	embedder embedding.Embedder
	cache    ProfileInvalidator

	chunkSizeRunes    int
	chunkOverlapRunes int
	embeddingBatch    int
}

// NewService 创建样本应用服务
func NewService(
	samples repository.SampleRepository,
	txm repository.Transactor,
	vector VectorIndex,
	embedder embedding.Embedder,
	cache ProfileInvalidator,
	genCfg *config.GenerationConfig,
	embCfg *config.EmbeddingConfig,
) *Service {
	s := &Service{
		samples:           samples,
		txm:               txm,
		vector:            vector,
		embedder:          embedder,
		cache:             cache,
		chunkSizeRunes:    800,
		chunkOverlapRunes: 80,
		embeddingBatch:    32,
	}
	if genCfg != nil {
		if genCfg.ChunkSize > 0 {
			s.chunkSizeRunes = genCfg.ChunkSize
		}
		if genCfg.ChunkOverlap >= 0 {
			s.chunkOverlapRunes = genCfg.ChunkOverlap
		}
	}
	if embCfg != nil && embCfg.BatchSize > 0 {
		s.embeddingBatch = embCfg.BatchSize
	}
	return s
}

// Add 登记一条样本：持久化原文并写入向量索引。
// 样本不可修改；索引失败时回滚数据库事务，整条样本视为未登记。
func (s *Service) Add(ctx context.Context, ownerID, rawText string) (*entity.Sample, error) {
	ctx, span := tracer.Start(ctx, "sample.Service.Add",
		trace.WithAttributes(attribute.String("owner_id", ownerID)))
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "owner_id is required")
	}
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "text must not be empty or whitespace-only")
	}
	if len([]rune(text)) > maxSampleRunes {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "text exceeds the maximum sample size")
	}

	smp := entity.NewSample(ownerID, text)
	smp.ID = uuid.NewString()

	if err := s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.samples.Create(txCtx, smp); err != nil {
			return apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to store sample")
		}
		if err := s.index(txCtx, smp); err != nil {
			return apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "failed to index sample")
		}
		return nil
	}); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOwner(ctx, ownerID); err != nil {
			logger.Warn(ctx, "failed to invalidate profile cache", "owner_id", ownerID, "error", err)
		}
	}

	span.SetAttributes(attribute.String("sample_id", smp.ID))
	return smp, nil
}

// inTx 在事务中执行；未配置事务管理器时直接执行
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txm == nil {
		return fn(ctx)
	}
	return s.txm.WithTransaction(ctx, fn)
}

// index 切分样本并写入向量集合
func (s *Service) index(ctx context.Context, smp *entity.Sample) error {
	if s.vector == nil || s.embedder == nil {
		return nil
	}
	if err := s.vector.EnsureWritingSamplesCollection(ctx); err != nil {
		return err
	}

	chunks := splitByRunes(smp.RawText, s.chunkSizeRunes, s.chunkOverlapRunes)
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := s.embedBatch(ctx, chunks)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	sampleChunks := make([]*milvus.SampleChunk, 0, len(chunks))
	for i, chunk := range chunks {
		sampleChunks = append(sampleChunks, &milvus.SampleChunk{
			ID:          uuid.NewString(),
			Vector:      vectors[i],
			OwnerID:     smp.OwnerID,
			SampleID:    smp.ID,
			ChunkSeq:    int64(i),
			TextContent: chunk,
			CreatedAt:   now,
		})
	}
	return s.vector.InsertChunks(ctx, smp.OwnerID, sampleChunks)
}

func (s *Service) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.embeddingBatch {
		end := start + s.embeddingBatch
		if end > len(texts) {
			end = len(texts)
		}
		v64, err := s.embedder.EmbedStrings(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, vec := range v64 {
			f32 := make([]float32, 0, len(vec))
			for _, x := range vec {
				f32 = append(f32, float32(x))
			}
			out = append(out, f32)
		}
	}
	return out, nil
}

// Get 获取单条样本（校验归属）
func (s *Service) Get(ctx context.Context, ownerID, sampleID string) (*entity.Sample, error) {
	ctx, span := tracer.Start(ctx, "sample.Service.Get",
		trace.WithAttributes(attribute.String("sample_id", sampleID)))
	defer span.End()

	smp, err := s.samples.GetByID(ctx, sampleID)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to load sample")
	}
	if smp == nil || smp.OwnerID != ownerID {
		return nil, apperrors.ErrSampleNotFound
	}
	return smp, nil
}

// List 分页列出 owner 的样本
func (s *Service) List(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Sample], error) {
	ctx, span := tracer.Start(ctx, "sample.Service.List",
		trace.WithAttributes(attribute.String("owner_id", ownerID)))
	defer span.End()

	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "owner_id is required")
	}

	result, err := s.samples.ListByOwner(ctx, ownerID, pagination)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to list samples")
	}
	return result, nil
}

// Delete 删除样本及其向量分块；已有画像与已生成内容不受影响。
// ownerID 为空时跳过归属校验（按 ID 直删）。
func (s *Service) Delete(ctx context.Context, ownerID, sampleID string) error {
	ctx, span := tracer.Start(ctx, "sample.Service.Delete",
		trace.WithAttributes(
			attribute.String("owner_id", ownerID),
			attribute.String("sample_id", sampleID),
		))
	defer span.End()

	smp, err := s.samples.GetByID(ctx, sampleID)
	if err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to load sample")
	}
	if smp == nil || (ownerID != "" && smp.OwnerID != ownerID) {
		return apperrors.ErrSampleNotFound
	}
	ownerID = smp.OwnerID

	if err := s.samples.Delete(ctx, sampleID); err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to delete sample")
	}

	if s.vector != nil {
		if err := s.vector.DeleteChunksBySample(ctx, ownerID, sampleID); err != nil {
			// 原文已删除；残留分块留待人工清理
			logger.Error(ctx, "failed to delete sample chunks from vector index", err,
				"sample_id", sampleID)
		}
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOwner(ctx, ownerID); err != nil {
			logger.Warn(ctx, "failed to invalidate profile cache", "owner_id", ownerID, "error", err)
		}
	}
	return nil
}

// Count 统计 owner 的样本数量
func (s *Service) Count(ctx context.Context, ownerID string) (int64, error) {
	n, err := s.samples.CountByOwner(ctx, ownerID)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to count samples")
	}
	return n, nil
}
