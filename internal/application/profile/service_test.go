package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	wfmodel "ai-author-api/internal/workflow/model"
	apperrors "ai-author-api/pkg/errors"
)

type fakeSampleRepo struct {
	samples []*entity.Sample
	listErr error
}

func (r *fakeSampleRepo) Create(context.Context, *entity.Sample) error { return nil }
func (r *fakeSampleRepo) GetByID(context.Context, string) (*entity.Sample, error) {
	return nil, nil
}
func (r *fakeSampleRepo) Delete(context.Context, string) error { return nil }
func (r *fakeSampleRepo) ListByOwner(_ context.Context, _ string, p repository.Pagination) (*repository.PagedResult[*entity.Sample], error) {
	return repository.NewPagedResult(r.samples, int64(len(r.samples)), p), nil
}
func (r *fakeSampleRepo) ListAllByOwner(context.Context, string) ([]*entity.Sample, error) {
	return r.samples, r.listErr
}
func (r *fakeSampleRepo) CountByOwner(context.Context, string) (int64, error) {
	return int64(len(r.samples)), nil
}

type fakeProfileRepo struct {
	byOwner   map[string]*entity.StyleProfile
	upsertErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byOwner: make(map[string]*entity.StyleProfile)}
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *entity.StyleProfile) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.byOwner[p.OwnerID] = p
	return nil
}
func (r *fakeProfileRepo) GetByOwner(_ context.Context, ownerID string) (*entity.StyleProfile, error) {
	return r.byOwner[ownerID], nil
}
func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*entity.StyleProfile, error) {
	for _, p := range r.byOwner {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProfileRepo) DeleteByOwner(_ context.Context, ownerID string) error {
	delete(r.byOwner, ownerID)
	return nil
}

type fakeChain struct {
	content string
	err     error
	lastIn  *wfmodel.ProfileSummaryInput
}

func (c *fakeChain) Invoke(_ context.Context, in *wfmodel.ProfileSummaryInput) (*schema.Message, error) {
	c.lastIn = in
	if c.err != nil {
		return nil, c.err
	}
	return schema.AssistantMessage(c.content, nil), nil
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	data, err := loader()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	c.data[key] = b
	return b, nil
}

type failingCache struct{}

func (failingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis down")
}

func (failingCache) GetOrLoadSafe(context.Context, string, time.Duration, func() (interface{}, error)) ([]byte, error) {
	return nil, errors.New("redis down")
}

func genCfg(fallback bool) *config.GenerationConfig {
	return &config.GenerationConfig{
		MinSamples:          1,
		ProfileCacheTTL:     time.Hour,
		StatisticalFallback: fallback,
	}
}

func TestServiceCompute(t *testing.T) {
	ctx := context.Background()

	t.Run("builds profile from llm summary", func(t *testing.T) {
		samples := samplesOf(
			"the mountain stood tall over the valley below",
			"the mountain was quiet in the early morning",
		)
		chain := &fakeChain{content: "Reflective nature writing with steady cadence."}
		profiles := newFakeProfileRepo()
		cache := newFakeCache()
		svc := NewService(&fakeSampleRepo{samples: samples}, profiles, chain, cache, genCfg(true), "groq")

		prof, err := svc.Compute(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, "Reflective nature writing with steady cadence.", prof.SummaryText)
		assert.Equal(t, 2, prof.SampleCount)
		assert.Len(t, prof.SourceSampleIDs, 2)
		assert.NotEmpty(t, prof.ID)
		assert.NotEmpty(t, prof.FrequentWords)

		// 入参携带统计结果与样本素材
		require.NotNil(t, chain.lastIn)
		assert.Equal(t, 2, chain.lastIn.SampleCount)
		assert.NotEmpty(t, chain.lastIn.SampleExcerpts)

		// 持久化并写缓存
		assert.NotNil(t, profiles.byOwner["owner"])
		assert.NotEmpty(t, cache.data)
	})

	t.Run("zero samples is insufficient data", func(t *testing.T) {
		svc := NewService(&fakeSampleRepo{}, newFakeProfileRepo(), &fakeChain{content: "x"}, newFakeCache(), genCfg(true), "groq")
		_, err := svc.Compute(ctx, "owner")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientData))
	})

	t.Run("llm failure falls back to statistical summary", func(t *testing.T) {
		samples := samplesOf("the mountain stood tall", "the river ran fast")
		chain := &fakeChain{err: errors.New("provider down")}
		svc := NewService(&fakeSampleRepo{samples: samples}, newFakeProfileRepo(), chain, newFakeCache(), genCfg(true), "groq")

		prof, err := svc.Compute(ctx, "owner")
		require.NoError(t, err)
		assert.Contains(t, prof.SummaryText, "average")
	})

	t.Run("llm failure without fallback serves previous profile", func(t *testing.T) {
		samples := samplesOf("text one here", "text two here")
		profiles := newFakeProfileRepo()
		previous := &entity.StyleProfile{ID: "old", OwnerID: "owner", SummaryText: "older summary"}
		profiles.byOwner["owner"] = previous

		chain := &fakeChain{err: errors.New("provider down")}
		svc := NewService(&fakeSampleRepo{samples: samples}, profiles, chain, newFakeCache(), genCfg(false), "groq")

		prof, err := svc.Compute(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, "old", prof.ID)
	})

	t.Run("llm failure without fallback and no previous profile fails", func(t *testing.T) {
		samples := samplesOf("text one here")
		chain := &fakeChain{err: errors.New("provider down")}
		svc := NewService(&fakeSampleRepo{samples: samples}, newFakeProfileRepo(), chain, newFakeCache(), genCfg(false), "groq")

		_, err := svc.Compute(ctx, "owner")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeGenerationFailed))
	})

	t.Run("recompute supersedes previous profile", func(t *testing.T) {
		samples := samplesOf("first batch of text")
		profiles := newFakeProfileRepo()
		svc := NewService(&fakeSampleRepo{samples: samples}, profiles, &fakeChain{content: "v1"}, newFakeCache(), genCfg(true), "groq")

		first, err := svc.Compute(ctx, "owner")
		require.NoError(t, err)

		second, err := svc.Compute(ctx, "owner")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, second.ID, profiles.byOwner["owner"].ID)
	})
}

func TestServiceLatest(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		cache := newFakeCache()
		cached := &entity.StyleProfile{ID: "cached", OwnerID: "owner", SummaryText: "from cache"}
		require.NoError(t, cache.Set(ctx, "profile:owner", cached, time.Hour))

		svc := NewService(&fakeSampleRepo{}, newFakeProfileRepo(), nil, cache, genCfg(true), "groq")
		prof, err := svc.Latest(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, "cached", prof.ID)
	})

	t.Run("cache miss loads from repository and refills", func(t *testing.T) {
		profiles := newFakeProfileRepo()
		profiles.byOwner["owner"] = &entity.StyleProfile{ID: "db", OwnerID: "owner"}
		cache := newFakeCache()

		svc := NewService(&fakeSampleRepo{}, profiles, nil, cache, genCfg(true), "groq")
		prof, err := svc.Latest(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, "db", prof.ID)
		assert.NotEmpty(t, cache.data)
	})

	t.Run("cache outage falls back to repository", func(t *testing.T) {
		profiles := newFakeProfileRepo()
		profiles.byOwner["owner"] = &entity.StyleProfile{ID: "db", OwnerID: "owner"}

		svc := NewService(&fakeSampleRepo{}, profiles, nil, failingCache{}, genCfg(true), "groq")
		prof, err := svc.Latest(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, "db", prof.ID)
	})

	t.Run("missing profile is not found", func(t *testing.T) {
		svc := NewService(&fakeSampleRepo{}, newFakeProfileRepo(), nil, newFakeCache(), genCfg(true), "groq")
		_, err := svc.Latest(ctx, "owner")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeProfileNotFound))
	})
}

func TestServiceResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("computes when no profile exists", func(t *testing.T) {
		samples := samplesOf("resolve me some text")
		svc := NewService(&fakeSampleRepo{samples: samples}, newFakeProfileRepo(), &fakeChain{content: "fresh"}, newFakeCache(), genCfg(true), "groq")

		prof, err := svc.Resolve(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, "fresh", prof.SummaryText)
	})

	t.Run("returns existing profile without recompute", func(t *testing.T) {
		profiles := newFakeProfileRepo()
		profiles.byOwner["owner"] = &entity.StyleProfile{ID: "keep", OwnerID: "owner"}
		chain := &fakeChain{content: "should not be used"}
		svc := NewService(&fakeSampleRepo{}, profiles, chain, newFakeCache(), genCfg(true), "groq")

		prof, err := svc.Resolve(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, "keep", prof.ID)
		assert.Nil(t, chain.lastIn)
	})
}
