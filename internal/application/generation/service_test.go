package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/infrastructure/persistence/milvus"
	wfmodel "ai-author-api/internal/workflow/model"
	apperrors "ai-author-api/pkg/errors"
)

type fakeResolver struct {
	profile *entity.StyleProfile
	err     error
}

func (r *fakeResolver) Resolve(context.Context, string) (*entity.StyleProfile, error) {
	return r.profile, r.err
}

type fakeSearcher struct {
	results []*milvus.SearchResult
	err     error
	lastP   *milvus.SearchParams
}

func (s *fakeSearcher) SearchChunks(_ context.Context, p *milvus.SearchParams) ([]*milvus.SearchResult, error) {
	s.lastP = p
	return s.results, s.err
}

type fakeEmbedder struct {
	err error
}

func (e *fakeEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.5, 0.5}
	}
	return out, nil
}

type fakeComposer struct {
	content string
	err     error
	lastIn  *wfmodel.PostGenerateInput
}

func (c *fakeComposer) Invoke(_ context.Context, in *wfmodel.PostGenerateInput) (*schema.Message, error) {
	c.lastIn = in
	if c.err != nil {
		return nil, c.err
	}
	msg := schema.AssistantMessage(c.content, nil)
	msg.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{PromptTokens: 120, CompletionTokens: 350},
	}
	return msg, nil
}

type fakePostRepo struct {
	byID      map[string]*entity.GeneratedPost
	createErr error
	seq       int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{byID: make(map[string]*entity.GeneratedPost)}
}

func (r *fakePostRepo) Create(_ context.Context, p *entity.GeneratedPost) error {
	if r.createErr != nil {
		return r.createErr
	}
	if p.ID == "" {
		r.seq++
		p.ID = fmt.Sprintf("post-%d", r.seq)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*entity.GeneratedPost, error) {
	return r.byID[id], nil
}

func (r *fakePostRepo) ListByOwner(_ context.Context, ownerID string, p repository.Pagination) (*repository.PagedResult[*entity.GeneratedPost], error) {
	var out []*entity.GeneratedPost
	for _, post := range r.byID {
		if post.OwnerID == ownerID {
			out = append(out, post)
		}
	}
	return repository.NewPagedResult(out, int64(len(out)), p), nil
}

func testProfile() *entity.StyleProfile {
	return &entity.StyleProfile{
		ID:          "profile-1",
		OwnerID:     "alice",
		SummaryText: "Measured, reflective prose.",
	}
}

func testService(resolver *fakeResolver, searcher *fakeSearcher, emb *fakeEmbedder, composer *fakeComposer, posts *fakePostRepo) *Service {
	return NewService(resolver, searcher, emb, composer, posts,
		&config.GenerationConfig{TopK: 5, ContextCharLimit: 800}, "groq")
}

func TestServiceGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path persists immutable snapshot", func(t *testing.T) {
		resolver := &fakeResolver{profile: testProfile()}
		searcher := &fakeSearcher{results: []*milvus.SearchResult{
			{TextContent: "an old excerpt about mountains", Score: 0.9},
		}}
		composer := &fakeComposer{content: "# Mountains\n\nA generated blog post."}
		posts := newFakePostRepo()
		svc := testService(resolver, searcher, &fakeEmbedder{}, composer, posts)

		post, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "write about mountains", Kind: entity.PostKindBlog})
		require.NoError(t, err)
		assert.Equal(t, "profile-1", post.ProfileSnapshotID)
		assert.Equal(t, "Measured, reflective prose.", post.ProfileSummary)
		assert.Equal(t, entity.ExportFormatMarkdown, post.Format)
		assert.NotZero(t, post.WordCount)
		require.NotNil(t, post.GenerationMetadata)
		assert.Equal(t, 120, post.GenerationMetadata.PromptTokens)
		assert.Equal(t, 350, post.GenerationMetadata.CompletionTokens)
		assert.Len(t, posts.byID, 1)

		// 组装的提示词携带画像与检索片段
		require.NotNil(t, composer.lastIn)
		assert.Equal(t, "Measured, reflective prose.", composer.lastIn.ProfileSummary)
		assert.Contains(t, composer.lastIn.RetrievedContext, "mountains")
	})

	t.Run("snapshot survives later profile changes", func(t *testing.T) {
		prof := testProfile()
		resolver := &fakeResolver{profile: prof}
		posts := newFakePostRepo()
		svc := testService(resolver, &fakeSearcher{}, &fakeEmbedder{}, &fakeComposer{content: "v1 content"}, posts)

		post, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)

		// 画像随后被重算替换
		prof.ID = "profile-2"
		prof.SummaryText = "Completely different voice."

		stored, err := svc.GetPost(ctx, "alice", post.ID)
		require.NoError(t, err)
		assert.Equal(t, "profile-1", stored.ProfileSnapshotID)
		assert.Equal(t, "Measured, reflective prose.", stored.ProfileSummary)
	})

	t.Run("defaults max tokens from target word count", func(t *testing.T) {
		resolver := &fakeResolver{profile: testProfile()}
		composer := &fakeComposer{content: "content"}
		svc := testService(resolver, &fakeSearcher{}, &fakeEmbedder{}, composer, newFakePostRepo())

		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog, TargetWordCount: 500})
		require.NoError(t, err)
		require.NotNil(t, composer.lastIn.MaxTokens)
		assert.Equal(t, 900, *composer.lastIn.MaxTokens)
	})

	t.Run("social posts use a short default length", func(t *testing.T) {
		resolver := &fakeResolver{profile: testProfile()}
		composer := &fakeComposer{content: "short post"}
		svc := testService(resolver, &fakeSearcher{}, &fakeEmbedder{}, composer, newFakePostRepo())

		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindSocial})
		require.NoError(t, err)
		assert.Equal(t, defaultSocialWordCount, composer.lastIn.TargetWordCount)
	})

	t.Run("vector search failure degrades to no context", func(t *testing.T) {
		resolver := &fakeResolver{profile: testProfile()}
		searcher := &fakeSearcher{err: errors.New("milvus unreachable")}
		composer := &fakeComposer{content: "generated without context"}
		svc := testService(resolver, searcher, &fakeEmbedder{}, composer, newFakePostRepo())

		post, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)
		assert.NotNil(t, post)
		assert.Empty(t, composer.lastIn.RetrievedContext)
	})

	t.Run("embedding failure degrades to no context", func(t *testing.T) {
		resolver := &fakeResolver{profile: testProfile()}
		composer := &fakeComposer{content: "generated without context"}
		svc := testService(resolver, &fakeSearcher{}, &fakeEmbedder{err: errors.New("quota")}, composer, newFakePostRepo())

		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)
		assert.Empty(t, composer.lastIn.RetrievedContext)
	})

	t.Run("deadline exceeded maps to upstream timeout", func(t *testing.T) {
		resolver := &fakeResolver{profile: testProfile()}
		composer := &fakeComposer{err: fmt.Errorf("call failed: %w", context.DeadlineExceeded)}
		svc := testService(resolver, &fakeSearcher{}, &fakeEmbedder{}, composer, newFakePostRepo())

		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamTimeout))
	})

	t.Run("provider failure maps to upstream error", func(t *testing.T) {
		resolver := &fakeResolver{profile: testProfile()}
		composer := &fakeComposer{err: errors.New("502 from provider")}
		svc := testService(resolver, &fakeSearcher{}, &fakeEmbedder{}, composer, newFakePostRepo())

		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
	})

	t.Run("profile resolution errors pass through", func(t *testing.T) {
		resolver := &fakeResolver{err: apperrors.ErrInsufficientData}
		svc := testService(resolver, &fakeSearcher{}, &fakeEmbedder{}, &fakeComposer{content: "x"}, newFakePostRepo())

		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientData))
	})

	t.Run("invalid kind rejected", func(t *testing.T) {
		svc := testService(&fakeResolver{profile: testProfile()}, &fakeSearcher{}, &fakeEmbedder{}, &fakeComposer{content: "x"}, newFakePostRepo())
		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: "haiku"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
	})

	t.Run("invalid format rejected with unsupported format code", func(t *testing.T) {
		svc := testService(&fakeResolver{profile: testProfile()}, &fakeSearcher{}, &fakeEmbedder{}, &fakeComposer{content: "x"}, newFakePostRepo())
		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog, Format: "pdf"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnsupportedFormat))
	})

	t.Run("long excerpts are truncated to the context limit", func(t *testing.T) {
		longText := make([]rune, 2000)
		for i := range longText {
			longText[i] = 'x'
		}
		resolver := &fakeResolver{profile: testProfile()}
		searcher := &fakeSearcher{results: []*milvus.SearchResult{{TextContent: string(longText)}}}
		composer := &fakeComposer{content: "ok"}
		svc := testService(resolver, searcher, &fakeEmbedder{}, composer, newFakePostRepo())

		_, err := svc.Generate(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)
		assert.Less(t, len(composer.lastIn.RetrievedContext), 1000)
	})
}

func TestServiceGetPost(t *testing.T) {
	ctx := context.Background()
	posts := newFakePostRepo()
	posts.byID["p1"] = &entity.GeneratedPost{ID: "p1", OwnerID: "alice"}

	svc := testService(&fakeResolver{}, &fakeSearcher{}, &fakeEmbedder{}, &fakeComposer{}, posts)

	got, err := svc.GetPost(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	_, err = svc.GetPost(ctx, "bob", "p1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodePostNotFound))

	_, err = svc.GetPost(ctx, "alice", "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.CodePostNotFound))
}
