package generation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/infrastructure/messaging"
	apperrors "ai-author-api/pkg/errors"
	"ai-author-api/pkg/logger"
)

// JobPublisher 任务消息发布依赖（port）
type JobPublisher interface {
	PublishPostGenJob(ctx context.Context, job *messaging.PostGenJobMessage) (string, error)
}

// JobService 异步生成任务服务
type JobService struct {
	generator *Service
	jobs      repository.JobRepository
	publisher JobPublisher
}

// NewJobService 创建异步任务服务
func NewJobService(generator *Service, jobs repository.JobRepository, publisher JobPublisher) *JobService {
	return &JobService{
		generator: generator,
		jobs:      jobs,
		publisher: publisher,
	}
}

// Submit 创建生成任务并投递到消息流
func (s *JobService) Submit(ctx context.Context, in *Input) (*entity.GenerationJob, error) {
	ctx, span := tracer.Start(ctx, "generation.JobService.Submit",
		trace.WithAttributes(attribute.String("owner_id", in.OwnerID)))
	defer span.End()

	if err := s.generator.normalize(in); err != nil {
		return nil, err
	}

	params, err := json.Marshal(in)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to encode job params")
	}

	job := entity.NewGenerationJob(in.OwnerID, entity.JobTypePostGen, params)
	job.ID = uuid.NewString()

	if err := s.jobs.Create(ctx, job); err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to store job")
	}

	msg := &messaging.PostGenJobMessage{
		JobID:   job.ID,
		OwnerID: in.OwnerID,
		Brief:   in.Brief,
		Kind:    string(in.Kind),
		Format:  string(in.Format),
		TopK:    in.TopK,

		Provider:  in.Provider,
		Model:     in.Model,
		RequestID: logger.RequestIDFromContext(ctx),
	}
	if in.Temperature != nil {
		msg.Temperature = float64(*in.Temperature)
	}
	if in.MaxTokens != nil {
		msg.MaxTokens = *in.MaxTokens
	}

	if _, err := s.publisher.PublishPostGenJob(ctx, msg); err != nil {
		span.RecordError(err)
		job.Fail("failed to enqueue: " + err.Error())
		if updErr := s.jobs.Update(ctx, job); updErr != nil {
			logger.Error(ctx, "failed to mark job as failed", updErr, "job_id", job.ID)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavailable, "failed to enqueue job")
	}

	span.SetAttributes(attribute.String("job_id", job.ID))
	return job, nil
}

// GetJob 查询任务状态（校验归属）
func (s *JobService) GetJob(ctx context.Context, ownerID, jobID string) (*entity.GenerationJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to load job")
	}
	if job == nil || job.OwnerID != ownerID {
		return nil, apperrors.ErrJobNotFound
	}
	return job, nil
}

// ListJobs 分页列出 owner 的任务
func (s *JobService) ListJobs(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationJob], error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "owner_id is required")
	}
	result, err := s.jobs.ListByOwner(ctx, ownerID, pagination)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "failed to list jobs")
	}
	return result, nil
}

// HandlePostGenMessage 消费端执行异步生成任务。
// 返回错误时由消费者按退避策略重投；不可恢复的业务错误直接置为失败并 ACK。
func (s *JobService) HandlePostGenMessage(ctx context.Context, msg *messaging.Message) error {
	var payload messaging.PostGenJobMessage
	if err := msg.UnmarshalPayload(&payload); err != nil {
		logger.Error(ctx, "malformed post_gen message, dropping", err, "message_id", msg.ID)
		return nil
	}

	job, err := s.jobs.GetByID(ctx, payload.JobID)
	if err != nil {
		return err
	}
	if job == nil {
		logger.Warn(ctx, "job not found for message, dropping", "job_id", payload.JobID)
		return nil
	}
	if job.Status == entity.JobStatusCompleted || job.Status == entity.JobStatusCancelled {
		return nil
	}

	job.Start()
	if err := s.jobs.Update(ctx, job); err != nil {
		return err
	}

	in := &Input{
		OwnerID:         payload.OwnerID,
		Brief:           payload.Brief,
		Kind:            entity.PostKind(payload.Kind),
		Format:          entity.ExportFormat(payload.Format),
		TopK:            payload.TopK,
		Provider:        payload.Provider,
		Model:           payload.Model,
		TargetWordCount: 0,
	}
	if payload.Temperature > 0 {
		temp := float32(payload.Temperature)
		in.Temperature = &temp
	}
	if payload.MaxTokens > 0 {
		mt := payload.MaxTokens
		in.MaxTokens = &mt
	}

	post, genErr := s.generator.Generate(ctx, in)
	if genErr != nil {
		appErr := apperrors.AsAppError(genErr)
		job.Fail(appErr.Error())
		job.RetryCount++
		if err := s.jobs.Update(ctx, job); err != nil {
			return err
		}
		// 上游瞬时故障交给消费者按退避重投，业务性失败直接 ACK
		if retryableCode(appErr.Code) {
			return genErr
		}
		return nil
	}

	result, err := json.Marshal(map[string]string{"post_id": post.ID})
	if err != nil {
		return err
	}
	job.Complete(result)
	if post.GenerationMetadata != nil {
		job.SetLLMMetrics(
			post.GenerationMetadata.Provider,
			post.GenerationMetadata.Model,
			post.GenerationMetadata.PromptTokens,
			post.GenerationMetadata.CompletionTokens,
		)
	}
	return s.jobs.Update(ctx, job)
}

// retryableCode 判断失败是否值得消费端重投
func retryableCode(code apperrors.ErrorCode) bool {
	switch code {
	case apperrors.CodeUpstreamError,
		apperrors.CodeUpstreamTimeout,
		apperrors.CodeStorageUnavailable,
		apperrors.CodeVectorDBError,
		apperrors.CodeServiceUnavailable:
		return true
	default:
		return false
	}
}
