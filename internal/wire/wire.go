//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"ai-author-api/internal/application/generation"
	"ai-author-api/internal/application/profile"
	"ai-author-api/internal/application/sample"
	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/infrastructure/llm"
	"ai-author-api/internal/infrastructure/messaging"
	"ai-author-api/internal/infrastructure/persistence/milvus"
	"ai-author-api/internal/infrastructure/persistence/postgres"
	"ai-author-api/internal/infrastructure/persistence/redis"
	"ai-author-api/internal/interfaces/http/handler"
	"ai-author-api/internal/interfaces/http/router"
	"ai-author-api/internal/workflow/chain"
	workflowport "ai-author-api/internal/workflow/port"
)

// InitializeApp 初始化 API 网关（HTTP 路由器及其全部依赖）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
		postgres.NewTxManager,
		RedisSet,
		wire.Bind(new(sample.ProfileInvalidator), new(*redis.Cache)),
		MilvusSet,
		wire.Bind(new(sample.VectorIndex), new(*milvus.Repository)),
		MessagingSet,
		WorkflowSet,
		GenerationSet,
		ProvideSampleService,
		HandlerSet,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化任务处理进程
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MilvusSet,
		MessagingSet,
		WorkflowSet,
		GenerationSet,
		ProvideConsumer,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// InitializeBootstrap 初始化迁移进程（PostgreSQL + Milvus）
func InitializeBootstrap(ctx context.Context, cfg *config.Config) (*Bootstrap, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		ProvideMilvusClient,
		ProvideVectorRepository,
		wire.Struct(new(Bootstrap), "*"),
	)
	return nil, nil, nil
}

// RepoSet PostgreSQL 仓储提供者集合
var RepoSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewSampleRepository,
	postgres.NewProfileRepository,
	postgres.NewPostRepository,
	postgres.NewJobRepository,
	wire.Bind(new(repository.SampleRepository), new(*postgres.SampleRepository)),
	wire.Bind(new(repository.ProfileRepository), new(*postgres.ProfileRepository)),
	wire.Bind(new(repository.PostRepository), new(*postgres.PostRepository)),
	wire.Bind(new(repository.JobRepository), new(*postgres.JobRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	wire.Bind(new(profile.ProfileCache), new(*redis.Cache)),
)

// MilvusSet Milvus 提供者集合
var MilvusSet = wire.NewSet(
	ProvideMilvusClient,
	ProvideVectorRepository,
	wire.Bind(new(generation.VectorSearcher), new(*milvus.Repository)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideProducer,
	wire.Bind(new(generation.JobPublisher), new(*messaging.Producer)),
)

// WorkflowSet LLM 工作流提供者集合
var WorkflowSet = wire.NewSet(
	llm.NewEinoFactory,
	ProvideEmbedder,
	chain.NewPostChain,
	chain.NewProfileChain,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	wire.Bind(new(profile.SummaryChain), new(*chain.ProfileChain)),
	wire.Bind(new(generation.PostComposer), new(*chain.PostChain)),
)

// GenerationSet 画像与生成应用服务提供者集合
var GenerationSet = wire.NewSet(
	ProvideProfileService,
	ProvideGenerationService,
	ProvideJobService,
	wire.Bind(new(generation.ProfileResolver), new(*profile.Service)),
)

// HandlerSet HTTP 处理器提供者集合
var HandlerSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewSampleHandler,
	handler.NewProfileHandler,
	handler.NewGenerateHandler,
	handler.NewPostHandler,
	handler.NewJobHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
