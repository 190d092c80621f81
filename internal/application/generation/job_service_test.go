package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/infrastructure/messaging"
	apperrors "ai-author-api/pkg/errors"
)

type fakeJobRepo struct {
	byID map[string]*entity.GenerationJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: make(map[string]*entity.GenerationJob)}
}

func (r *fakeJobRepo) Create(_ context.Context, j *entity.GenerationJob) error {
	cp := *j
	r.byID[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*entity.GenerationJob, error) {
	if j, ok := r.byID[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeJobRepo) Update(_ context.Context, j *entity.GenerationJob) error {
	cp := *j
	r.byID[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) UpdateStatus(_ context.Context, id string, status entity.JobStatus) error {
	if j, ok := r.byID[id]; ok {
		j.Status = status
	}
	return nil
}

func (r *fakeJobRepo) ListByOwner(_ context.Context, ownerID string, p repository.Pagination) (*repository.PagedResult[*entity.GenerationJob], error) {
	var out []*entity.GenerationJob
	for _, j := range r.byID {
		if j.OwnerID == ownerID {
			out = append(out, j)
		}
	}
	return repository.NewPagedResult(out, int64(len(out)), p), nil
}

type fakePublisher struct {
	published []*messaging.PostGenJobMessage
	err       error
}

func (p *fakePublisher) PublishPostGenJob(_ context.Context, msg *messaging.PostGenJobMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.published = append(p.published, msg)
	return "stream-id-1", nil
}

func newJobTestService(composer *fakeComposer, jobs *fakeJobRepo, pub *fakePublisher) *JobService {
	gen := testService(&fakeResolver{profile: testProfile()}, &fakeSearcher{}, &fakeEmbedder{}, composer, newFakePostRepo())
	return NewJobService(gen, jobs, pub)
}

func TestJobServiceSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending job and publishes message", func(t *testing.T) {
		jobs := newFakeJobRepo()
		pub := &fakePublisher{}
		svc := newJobTestService(&fakeComposer{content: "x"}, jobs, pub)

		job, err := svc.Submit(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)
		assert.Equal(t, entity.JobStatusPending, job.Status)
		require.Len(t, pub.published, 1)
		assert.Equal(t, job.ID, pub.published[0].JobID)
		assert.Equal(t, "alice", pub.published[0].OwnerID)
	})

	t.Run("publish failure marks job failed", func(t *testing.T) {
		jobs := newFakeJobRepo()
		pub := &fakePublisher{err: errors.New("redis down")}
		svc := newJobTestService(&fakeComposer{content: "x"}, jobs, pub)

		_, err := svc.Submit(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeServiceUnavailable))

		require.Len(t, jobs.byID, 1)
		for _, j := range jobs.byID {
			assert.Equal(t, entity.JobStatusFailed, j.Status)
		}
	})

	t.Run("invalid input rejected before persisting", func(t *testing.T) {
		jobs := newFakeJobRepo()
		svc := newJobTestService(&fakeComposer{content: "x"}, jobs, &fakePublisher{})

		_, err := svc.Submit(ctx, &Input{OwnerID: "alice", Brief: "", Kind: entity.PostKindBlog})
		require.Error(t, err)
		assert.Empty(t, jobs.byID)
	})
}

func postGenMessage(t *testing.T, jobID string) *messaging.Message {
	t.Helper()
	msg, err := messaging.NewMessage(jobID, "post_gen", "alice", &messaging.PostGenJobMessage{
		JobID:   jobID,
		OwnerID: "alice",
		Brief:   "brief",
		Kind:    "blog",
	})
	require.NoError(t, err)
	return msg
}

func TestJobServiceHandlePostGenMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("completes job with post id", func(t *testing.T) {
		jobs := newFakeJobRepo()
		svc := newJobTestService(&fakeComposer{content: "generated text"}, jobs, &fakePublisher{})

		job, err := svc.Submit(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)

		require.NoError(t, svc.HandlePostGenMessage(ctx, postGenMessage(t, job.ID)))

		stored, err := jobs.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.JobStatusCompleted, stored.Status)
		assert.Equal(t, 100, stored.Progress)
		assert.Contains(t, string(stored.OutputResult), "post_id")
	})

	t.Run("business failure acks and marks failed", func(t *testing.T) {
		jobs := newFakeJobRepo()
		// 空内容 → GenerationFailed，不重投
		svc := newJobTestService(&fakeComposer{content: "   "}, jobs, &fakePublisher{})

		job, err := svc.Submit(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)

		require.NoError(t, svc.HandlePostGenMessage(ctx, postGenMessage(t, job.ID)))

		stored, err := jobs.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.JobStatusFailed, stored.Status)
	})

	t.Run("upstream failure returns error for redelivery", func(t *testing.T) {
		jobs := newFakeJobRepo()
		svc := newJobTestService(&fakeComposer{err: errors.New("provider 502")}, jobs, &fakePublisher{})

		job, err := svc.Submit(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)

		err = svc.HandlePostGenMessage(ctx, postGenMessage(t, job.ID))
		require.Error(t, err)

		stored, getErr := jobs.GetByID(ctx, job.ID)
		require.NoError(t, getErr)
		assert.Equal(t, entity.JobStatusFailed, stored.Status)
		assert.Equal(t, 1, stored.RetryCount)
	})

	t.Run("completed job is not rerun", func(t *testing.T) {
		jobs := newFakeJobRepo()
		composer := &fakeComposer{content: "text"}
		svc := newJobTestService(composer, jobs, &fakePublisher{})

		job, err := svc.Submit(ctx, &Input{OwnerID: "alice", Brief: "brief", Kind: entity.PostKindBlog})
		require.NoError(t, err)
		require.NoError(t, svc.HandlePostGenMessage(ctx, postGenMessage(t, job.ID)))

		composer.lastIn = nil
		require.NoError(t, svc.HandlePostGenMessage(ctx, postGenMessage(t, job.ID)))
		assert.Nil(t, composer.lastIn)
	})

	t.Run("unknown job is dropped", func(t *testing.T) {
		svc := newJobTestService(&fakeComposer{content: "x"}, newFakeJobRepo(), &fakePublisher{})
		assert.NoError(t, svc.HandlePostGenMessage(ctx, postGenMessage(t, "no-such-job")))
	})
}

func TestJobServiceGetJob(t *testing.T) {
	ctx := context.Background()
	jobs := newFakeJobRepo()
	jobs.byID["j1"] = &entity.GenerationJob{ID: "j1", OwnerID: "alice", Status: entity.JobStatusPending}
	svc := newJobTestService(&fakeComposer{}, jobs, &fakePublisher{})

	got, err := svc.GetJob(ctx, "alice", "j1")
	require.NoError(t, err)
	assert.Equal(t, "j1", got.ID)

	_, err = svc.GetJob(ctx, "bob", "j1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeJobNotFound))
}
