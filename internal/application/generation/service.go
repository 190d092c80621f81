// Package generation 编排"画像 + 检索 + LLM"的内容生成流水线
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/infrastructure/persistence/milvus"
	wfmodel "ai-author-api/internal/workflow/model"
	apperrors "ai-author-api/pkg/errors"
	"ai-author-api/pkg/logger"
	"ai-author-api/pkg/metrics"
)

var tracer = otel.Tracer("application.generation")

const (
	defaultTopK             = 5
	defaultContextCharLimit = 800
	defaultBlogWordCount    = 1000
	defaultSocialWordCount  = 120
)

// Input 生成请求参数
type Input struct {
	OwnerID         string
	Brief           string
	Kind            entity.PostKind
	Format          entity.ExportFormat
	TopK            int
	TargetWordCount int

	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// Service 生成应用服务
type Service struct {
	profiles ProfileResolver
	searcher VectorSearcher
	embedder embedding.Embedder
	composer PostComposer
	posts    repository.PostRepository

	topK             int
	contextCharLimit int
	defaultProvider  string
}

// NewService 创建生成应用服务
func NewService(
	profiles ProfileResolver,
	searcher VectorSearcher,
	embedder embedding.Embedder,
	composer PostComposer,
	posts repository.PostRepository,
	genCfg *config.GenerationConfig,
	defaultProvider string,
) *Service {
	s := &Service{
		profiles:         profiles,
		searcher:         searcher,
		embedder:         embedder,
		composer:         composer,
		posts:            posts,
		topK:             defaultTopK,
		contextCharLimit: defaultContextCharLimit,
		defaultProvider:  defaultProvider,
	}
	if genCfg != nil {
		if genCfg.TopK > 0 {
			s.topK = genCfg.TopK
		}
		if genCfg.ContextCharLimit > 0 {
			s.contextCharLimit = genCfg.ContextCharLimit
		}
	}
	return s
}

// Generate 以 owner 的风格生成一篇内容并持久化。
// 向量检索失败时退化为无上下文生成；LLM 失败不在本地重试。
func (s *Service) Generate(ctx context.Context, in *Input) (*entity.GeneratedPost, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.Generate",
		trace.WithAttributes(
			attribute.String("owner_id", in.OwnerID),
			attribute.String("kind", string(in.Kind)),
		))
	defer span.End()

	if err := s.normalize(in); err != nil {
		return nil, err
	}

	start := time.Now()
	kind := string(in.Kind)

	profile, err := s.profiles.Resolve(ctx, in.OwnerID)
	if err != nil {
		span.RecordError(err)
		metrics.PostGenerationTotal.WithLabelValues(kind, "error").Inc()
		return nil, err
	}

	retrieved := s.retrieveContext(ctx, in)

	targetWords := in.TargetWordCount
	maxTokens := in.MaxTokens
	if maxTokens == nil {
		mt := int(float64(targetWords)*1.6) + 100
		maxTokens = &mt
	}

	msg, err := s.composer.Invoke(ctx, &wfmodel.PostGenerateInput{
		OwnerID:          in.OwnerID,
		Brief:            in.Brief,
		Kind:             kind,
		ProfileSummary:   profile.SummaryText,
		RetrievedContext: retrieved,
		TargetWordCount:  targetWords,
		Provider:         in.Provider,
		Model:            in.Model,
		Temperature:      in.Temperature,
		MaxTokens:        maxTokens,
	})
	if err != nil {
		span.RecordError(err)
		metrics.PostGenerationTotal.WithLabelValues(kind, "error").Inc()
		return nil, mapUpstreamError(err)
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		metrics.PostGenerationTotal.WithLabelValues(kind, "error").Inc()
		return nil, apperrors.New(apperrors.CodeGenerationFailed, "llm returned empty content")
	}

	post := entity.NewGeneratedPost(in.OwnerID, in.Brief, in.Kind, profile, content, in.Format)
	post.GenerationMetadata = buildMetadata(in, msg)

	if err := s.posts.Create(ctx, post); err != nil {
		span.RecordError(err)
		metrics.PostGenerationTotal.WithLabelValues(kind, "error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to store generated post")
	}

	metrics.PostGenerationTotal.WithLabelValues(kind, "success").Inc()
	metrics.PostGenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.PostWordCount.WithLabelValues(kind).Observe(float64(post.WordCount))
	span.SetAttributes(
		attribute.String("post_id", post.ID),
		attribute.Int("word_count", post.WordCount),
	)
	return post, nil
}

// normalize 校验并补全请求参数
func (s *Service) normalize(in *Input) error {
	if in == nil {
		return apperrors.New(apperrors.CodeInvalidParam, "input is nil")
	}
	in.OwnerID = strings.TrimSpace(in.OwnerID)
	if in.OwnerID == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "owner_id is required")
	}
	in.Brief = strings.TrimSpace(in.Brief)
	if in.Brief == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "brief is required")
	}
	if in.Kind == "" {
		in.Kind = entity.PostKindBlog
	}
	if !entity.ValidPostKind(in.Kind) {
		return apperrors.New(apperrors.CodeInvalidParam, fmt.Sprintf("unknown kind: %s", in.Kind))
	}
	if in.Format == "" {
		in.Format = entity.ExportFormatMarkdown
	}
	if !entity.ValidExportFormat(in.Format) {
		return apperrors.New(apperrors.CodeUnsupportedFormat, "unsupported export format").
			WithDetail(fmt.Sprintf("format: %s", in.Format))
	}
	if in.TopK <= 0 {
		in.TopK = s.topK
	}
	if in.TargetWordCount <= 0 {
		if in.Kind == entity.PostKindSocial {
			in.TargetWordCount = defaultSocialWordCount
		} else {
			in.TargetWordCount = defaultBlogWordCount
		}
	}
	if strings.TrimSpace(in.Provider) == "" {
		in.Provider = s.defaultProvider
	}
	return nil
}

// retrieveContext 检索与 brief 最相近的样本分块。
// 向量栈不可用属于降级场景，返回空上下文而不是失败。
func (s *Service) retrieveContext(ctx context.Context, in *Input) string {
	if s.embedder == nil || s.searcher == nil {
		return ""
	}

	vectors, err := s.embedder.EmbedStrings(ctx, []string{in.Brief})
	if err != nil || len(vectors) == 0 {
		logger.Warn(ctx, "brief embedding failed, generating without retrieved context",
			"owner_id", in.OwnerID, "error", err)
		return ""
	}
	queryVector := make([]float32, 0, len(vectors[0]))
	for _, x := range vectors[0] {
		queryVector = append(queryVector, float32(x))
	}

	results, err := s.searcher.SearchChunks(ctx, &milvus.SearchParams{
		OwnerID:     in.OwnerID,
		QueryVector: queryVector,
		TopK:        in.TopK,
	})
	if err != nil {
		logger.Warn(ctx, "vector search failed, generating without retrieved context",
			"owner_id", in.OwnerID, "error", err)
		return ""
	}

	var sb strings.Builder
	for i, res := range results {
		text := strings.TrimSpace(res.TextContent)
		if text == "" {
			continue
		}
		runes := []rune(text)
		if len(runes) > s.contextCharLimit {
			text = string(runes[:s.contextCharLimit])
		}
		fmt.Fprintf(&sb, "--- Excerpt %d ---\n%s\n\n", i+1, text)
	}
	return strings.TrimSpace(sb.String())
}

// mapUpstreamError 将 LLM 调用错误映射为对外错误码
func mapUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.CodeUpstreamTimeout, "upstream LLM call timed out")
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.Wrap(err, apperrors.CodeUpstreamError, "upstream LLM call canceled")
	}
	return apperrors.Wrap(err, apperrors.CodeUpstreamError, "upstream LLM call failed")
}

func buildMetadata(in *Input, msg *schema.Message) *entity.GenerationMetadata {
	meta := &entity.GenerationMetadata{
		Provider:    in.Provider,
		Model:       in.Model,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if in.Temperature != nil {
		meta.Temperature = float64(*in.Temperature)
	}
	if msg != nil && msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		meta.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
		meta.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
	}
	return meta
}

// GetPost 获取单篇生成内容（校验归属）
func (s *Service) GetPost(ctx context.Context, ownerID, postID string) (*entity.GeneratedPost, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GetPost",
		trace.WithAttributes(attribute.String("post_id", postID)))
	defer span.End()

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to load post")
	}
	if post == nil || post.OwnerID != ownerID {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

// ListPosts 分页列出 owner 的生成内容
func (s *Service) ListPosts(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.GeneratedPost], error) {
	ctx, span := tracer.Start(ctx, "generation.Service.ListPosts",
		trace.WithAttributes(attribute.String("owner_id", ownerID)))
	defer span.End()

	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "owner_id is required")
	}
	result, err := s.posts.ListByOwner(ctx, ownerID, pagination)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to list posts")
	}
	return result, nil
}
