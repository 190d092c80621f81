package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"

	"ai-author-api/internal/application/generation"
	"ai-author-api/internal/application/profile"
	"ai-author-api/internal/application/sample"
	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/infrastructure/persistence/milvus"
	wfmodel "ai-author-api/internal/workflow/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- 内存仓储与端口桩 ---

type memSampleRepo struct {
	byID map[string]*entity.Sample
}

func newMemSampleRepo() *memSampleRepo {
	return &memSampleRepo{byID: make(map[string]*entity.Sample)}
}

func (r *memSampleRepo) Create(_ context.Context, s *entity.Sample) error {
	r.byID[s.ID] = s
	return nil
}

func (r *memSampleRepo) GetByID(_ context.Context, id string) (*entity.Sample, error) {
	return r.byID[id], nil
}

func (r *memSampleRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *memSampleRepo) ListByOwner(_ context.Context, ownerID string, p repository.Pagination) (*repository.PagedResult[*entity.Sample], error) {
	all, _ := r.ListAllByOwner(context.Background(), ownerID)
	return repository.NewPagedResult(all, int64(len(all)), p), nil
}

func (r *memSampleRepo) ListAllByOwner(_ context.Context, ownerID string) ([]*entity.Sample, error) {
	var out []*entity.Sample
	for _, s := range r.byID {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSampleRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	all, _ := r.ListAllByOwner(context.Background(), ownerID)
	return int64(len(all)), nil
}

type memPostRepo struct {
	byID map[string]*entity.GeneratedPost
	seq  int
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{byID: make(map[string]*entity.GeneratedPost)}
}

func (r *memPostRepo) Create(_ context.Context, p *entity.GeneratedPost) error {
	r.seq++
	if p.ID == "" {
		p.ID = "post-" + string(rune('0'+r.seq))
	}
	r.byID[p.ID] = p
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id string) (*entity.GeneratedPost, error) {
	return r.byID[id], nil
}

func (r *memPostRepo) ListByOwner(_ context.Context, ownerID string, p repository.Pagination) (*repository.PagedResult[*entity.GeneratedPost], error) {
	var out []*entity.GeneratedPost
	for _, post := range r.byID {
		if post.OwnerID == ownerID {
			out = append(out, post)
		}
	}
	return repository.NewPagedResult(out, int64(len(out)), p), nil
}

type memProfileRepo struct {
	byOwner map[string]*entity.StyleProfile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{byOwner: make(map[string]*entity.StyleProfile)}
}

func (r *memProfileRepo) Upsert(_ context.Context, p *entity.StyleProfile) error {
	r.byOwner[p.OwnerID] = p
	return nil
}

func (r *memProfileRepo) GetByOwner(_ context.Context, ownerID string) (*entity.StyleProfile, error) {
	return r.byOwner[ownerID], nil
}

func (r *memProfileRepo) GetByID(_ context.Context, id string) (*entity.StyleProfile, error) {
	for _, p := range r.byOwner {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProfileRepo) DeleteByOwner(_ context.Context, ownerID string) error {
	delete(r.byOwner, ownerID)
	return nil
}

type noopTx struct{}

func (noopTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopVectorIndex struct{}

func (noopVectorIndex) EnsureWritingSamplesCollection(context.Context) error { return nil }
func (noopVectorIndex) InsertChunks(context.Context, string, []*milvus.SampleChunk) error {
	return nil
}
func (noopVectorIndex) DeleteChunksBySample(context.Context, string, string) error { return nil }

type noopSearcher struct{}

func (noopSearcher) SearchChunks(context.Context, *milvus.SearchParams) ([]*milvus.SearchResult, error) {
	return nil, nil
}

type stubEmbedder struct{}

func (stubEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.5, 0.5}
	}
	return out, nil
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateOwner(context.Context, string) error { return nil }

type missCache struct{}

func (missCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}

func (missCache) GetOrLoadSafe(_ context.Context, _ string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	data, err := loader()
	if err != nil {
		return nil, err
	}
	return json.Marshal(data)
}

type stubResolver struct {
	profile *entity.StyleProfile
	err     error
}

func (r *stubResolver) Resolve(context.Context, string) (*entity.StyleProfile, error) {
	return r.profile, r.err
}

type stubComposer struct {
	content string
	err     error
}

func (c *stubComposer) Invoke(_ context.Context, _ *wfmodel.PostGenerateInput) (*schema.Message, error) {
	if c.err != nil {
		return nil, c.err
	}
	msg := schema.AssistantMessage(c.content, nil)
	msg.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{PromptTokens: 100, CompletionTokens: 200},
	}
	return msg, nil
}

// --- 被测服务构造 ---

func testGenConfig() *config.GenerationConfig {
	return &config.GenerationConfig{
		ChunkSize:        800,
		ChunkOverlap:     80,
		TopK:             5,
		ContextCharLimit: 800,
		MinSamples:       1,
	}
}

func newTestSampleService(repo *memSampleRepo) *sample.Service {
	return sample.NewService(repo, noopTx{}, noopVectorIndex{}, stubEmbedder{}, noopInvalidator{},
		testGenConfig(), &config.EmbeddingConfig{BatchSize: 16})
}

func newTestGenerationService(posts *memPostRepo, resolver generation.ProfileResolver, composer generation.PostComposer) *generation.Service {
	return generation.NewService(resolver, noopSearcher{}, stubEmbedder{}, composer, posts,
		testGenConfig(), "openai")
}

func newTestProfileService(samples *memSampleRepo, profiles *memProfileRepo) *profile.Service {
	return profile.NewService(samples, profiles, nil, missCache{}, testGenConfig(), "openai")
}

func testProfile() *entity.StyleProfile {
	return &entity.StyleProfile{
		ID:          "profile-1",
		OwnerID:     "alice",
		SummaryText: "Short declarative sentences with a dry sense of humor.",
		SampleCount: 3,
	}
}

// perform 执行一次路由请求
func perform(t *testing.T, engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}
