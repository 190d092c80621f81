package profile

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/infrastructure/persistence/redis"
	wfmodel "ai-author-api/internal/workflow/model"
	apperrors "ai-author-api/pkg/errors"
	"ai-author-api/pkg/logger"
	"ai-author-api/pkg/metrics"
)

var tracer = otel.Tracer("application.profile")

const (
	maxExcerptRunes    = 800
	maxExcerptSamples  = 5
	defaultProfileTTL  = time.Hour
	defaultMinSamples  = 1
	frequentWordsInLLM = 15
)

// SummaryChain 画像摘要工作流的最小依赖（port）
type SummaryChain interface {
	Invoke(ctx context.Context, in *wfmodel.ProfileSummaryInput) (*schema.Message, error)
}

// ProfileCache 画像缓存的最小依赖（port）
type ProfileCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// Service 画像应用服务
type Service struct {
	samples  repository.SampleRepository
	profiles repository.ProfileRepository
	chain    SummaryChain
	cache    ProfileCache

	minSamples          int
	cacheTTL            time.Duration
	statisticalFallback bool
	provider            string
}

// NewService 创建画像应用服务
func NewService(
	samples repository.SampleRepository,
	profiles repository.ProfileRepository,
	chain SummaryChain,
	cache ProfileCache,
	genCfg *config.GenerationConfig,
	defaultProvider string,
) *Service {
	s := &Service{
		samples:             samples,
		profiles:            profiles,
		chain:               chain,
		cache:               cache,
		minSamples:          defaultMinSamples,
		cacheTTL:            defaultProfileTTL,
		statisticalFallback: true,
		provider:            defaultProvider,
	}
	if genCfg != nil {
		if genCfg.MinSamples > 0 {
			s.minSamples = genCfg.MinSamples
		}
		if genCfg.ProfileCacheTTL > 0 {
			s.cacheTTL = genCfg.ProfileCacheTTL
		}
		s.statisticalFallback = genCfg.StatisticalFallback
	}
	return s
}

// Compute 重新计算 owner 的风格画像并整行替换旧画像。
// 统计部分是确定性的；摘要优先走 LLM，失败时按配置回退。
func (s *Service) Compute(ctx context.Context, ownerID string) (*entity.StyleProfile, error) {
	ctx, span := tracer.Start(ctx, "profile.Service.Compute",
		trace.WithAttributes(attribute.String("owner_id", ownerID)))
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "owner_id is required")
	}

	samples, err := s.samples.ListAllByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		metrics.ProfileComputeTotal.WithLabelValues("error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to load samples")
	}
	if len(samples) < s.minSamples {
		metrics.ProfileComputeTotal.WithLabelValues("insufficient").Inc()
		return nil, apperrors.ErrInsufficientData
	}

	stats := Analyze(samples)

	summary, err := s.summarize(ctx, ownerID, samples, stats)
	if err != nil {
		// LLM 摘要失败且不允许回退：已有画像则原样返回
		prev, prevErr := s.profiles.GetByOwner(ctx, ownerID)
		if prevErr == nil && prev != nil {
			logger.Warn(ctx, "profile summary failed, serving previous profile",
				"owner_id", ownerID, "error", err)
			metrics.ProfileComputeTotal.WithLabelValues("stale").Inc()
			return prev, nil
		}
		span.RecordError(err)
		metrics.ProfileComputeTotal.WithLabelValues("error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeGenerationFailed, "failed to summarize writing style")
	}

	sampleIDs := make([]string, 0, len(samples))
	for _, smp := range samples {
		sampleIDs = append(sampleIDs, smp.ID)
	}

	prof := &entity.StyleProfile{
		ID:                uuid.NewString(),
		OwnerID:           ownerID,
		SummaryText:       summary,
		AvgLengthWords:    stats.AvgLengthWords,
		MedianLengthWords: stats.MedianLengthWords,
		FrequentWords:     stats.FrequentWords,
		CommonOpenings:    stats.CommonOpenings,
		SourceSampleIDs:   sampleIDs,
		SampleCount:       stats.SampleCount,
		DerivedAt:         time.Now(),
	}

	if err := s.profiles.Upsert(ctx, prof); err != nil {
		span.RecordError(err)
		metrics.ProfileComputeTotal.WithLabelValues("error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to store profile")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.ProfileKey(ownerID), prof, s.cacheTTL); err != nil {
			logger.Warn(ctx, "failed to cache profile", "owner_id", ownerID, "error", err)
		}
	}

	metrics.ProfileComputeTotal.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Int("sample_count", stats.SampleCount))
	return prof, nil
}

// summarize 生成画像摘要；LLM 不可用时按配置回退到统计摘要
func (s *Service) summarize(ctx context.Context, ownerID string, samples []*entity.Sample, stats *Stats) (string, error) {
	if s.chain == nil {
		return StatisticalSummary(stats), nil
	}

	in := &wfmodel.ProfileSummaryInput{
		OwnerID:           ownerID,
		SampleExcerpts:    buildExcerpts(samples),
		AvgLengthWords:    stats.AvgLengthWords,
		MedianLengthWords: stats.MedianLengthWords,
		FrequentWords:     joinFrequentWords(stats.FrequentWords, frequentWordsInLLM),
		CommonOpenings:    strings.Join(stats.CommonOpenings, " | "),
		SampleCount:       stats.SampleCount,
		Provider:          s.provider,
	}

	msg, err := s.chain.Invoke(ctx, in)
	if err != nil {
		if s.statisticalFallback {
			logger.Warn(ctx, "profile summary chain failed, falling back to statistical summary",
				"owner_id", ownerID, "error", err)
			return StatisticalSummary(stats), nil
		}
		return "", err
	}

	summary := strings.TrimSpace(msg.Content)
	if summary == "" {
		if s.statisticalFallback {
			return StatisticalSummary(stats), nil
		}
		return "", apperrors.New(apperrors.CodeGenerationFailed, "empty summary from llm")
	}
	return summary, nil
}

// buildExcerpts 取最近若干条样本的开头片段拼成摘要素材
func buildExcerpts(samples []*entity.Sample) string {
	n := maxExcerptSamples
	if n > len(samples) {
		n = len(samples)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text := strings.TrimSpace(samples[i].RawText)
		runes := []rune(text)
		if len(runes) > maxExcerptRunes {
			text = string(runes[:maxExcerptRunes])
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n---\n")
}

func joinFrequentWords(words []entity.WordFrequency, limit int) string {
	if limit > len(words) {
		limit = len(words)
	}
	out := make([]string, 0, limit)
	for _, wf := range words[:limit] {
		out = append(out, wf.Word)
	}
	return strings.Join(out, ", ")
}

// Latest 获取 owner 的最新画像：缓存优先，其次数据库
func (s *Service) Latest(ctx context.Context, ownerID string) (*entity.StyleProfile, error) {
	ctx, span := tracer.Start(ctx, "profile.Service.Latest",
		trace.WithAttributes(attribute.String("owner_id", ownerID)))
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "owner_id is required")
	}

	if s.cache == nil {
		return s.latestFromStore(ctx, ownerID)
	}

	raw, err := s.cache.GetOrLoadSafe(ctx, redis.ProfileKey(ownerID), s.cacheTTL, func() (interface{}, error) {
		return s.latestFromStore(ctx, ownerID)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		// 缓存层故障不阻塞读路径
		logger.Warn(ctx, "profile cache unavailable, reading store directly",
			"owner_id", ownerID, "error", err)
		return s.latestFromStore(ctx, ownerID)
	}

	var prof entity.StyleProfile
	if err := json.Unmarshal(raw, &prof); err != nil || prof.ID == "" {
		return s.latestFromStore(ctx, ownerID)
	}
	return &prof, nil
}

func (s *Service) latestFromStore(ctx context.Context, ownerID string) (*entity.StyleProfile, error) {
	prof, err := s.profiles.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to load profile")
	}
	if prof == nil {
		return nil, apperrors.ErrProfileNotFound
	}
	return prof, nil
}

// Resolve 获取最新画像，不存在则当场计算
func (s *Service) Resolve(ctx context.Context, ownerID string) (*entity.StyleProfile, error) {
	prof, err := s.Latest(ctx, ownerID)
	if err == nil {
		return prof, nil
	}
	if apperrors.IsCode(err, apperrors.CodeProfileNotFound) {
		return s.Compute(ctx, ownerID)
	}
	return nil, err
}
