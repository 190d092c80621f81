package wire

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"

	"ai-author-api/internal/application/generation"
	"ai-author-api/internal/application/profile"
	"ai-author-api/internal/application/sample"
	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/repository"
	infraembedding "ai-author-api/internal/infrastructure/embedding"
	"ai-author-api/internal/infrastructure/llm"
	"ai-author-api/internal/infrastructure/messaging"
	"ai-author-api/internal/infrastructure/persistence/milvus"
	"ai-author-api/internal/infrastructure/persistence/postgres"
	"ai-author-api/internal/infrastructure/persistence/redis"
)

// Worker 任务处理进程的依赖容器
type Worker struct {
	Jobs     *generation.JobService
	Consumer *messaging.Consumer
}

// Bootstrap 初始化进程的依赖容器
type Bootstrap struct {
	PgClient   *postgres.Client
	VectorRepo *milvus.Repository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMilvusClient 提供 Milvus 客户端
func ProvideMilvusClient(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideVectorRepository 提供向量仓储
func ProvideVectorRepository(client *milvus.Client, cfg *config.Config) *milvus.Repository {
	return milvus.NewRepository(client, cfg.Embedding.Dimension)
}

// ProvideProducer 提供消息生产者
func ProvideProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	return messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))
}

// ProvideConsumer 提供内容生成流的消费者
func ProvideConsumer(redisClient *redis.Client, cfg *config.Config) *messaging.Consumer {
	sc := cfg.Messaging.RedisStream

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "post-worker"
	}

	return messaging.NewConsumer(redisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamPostGen,
		Group:         messaging.ConsumerGroupPostWorker,
		ConsumerName:  fmt.Sprintf("%s-%s", hostname, uuid.NewString()[:8]),
		BlockTimeout:  sc.BlockTimeout,
		ClaimInterval: sc.ClaimInterval,
		RetryLimit:    sc.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    sc.RetryBackoff.Initial,
			Max:        sc.RetryBackoff.Max,
			Multiplier: sc.RetryBackoff.Multiplier,
		},
	})
}

// ProvideEmbedder 提供文本向量化客户端
func ProvideEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	return infraembedding.NewEinoEmbedder(ctx, &cfg.Embedding)
}

// ProvideSampleService 提供样本应用服务
func ProvideSampleService(
	samples repository.SampleRepository,
	txm repository.Transactor,
	vector sample.VectorIndex,
	embedder embedding.Embedder,
	cache sample.ProfileInvalidator,
	cfg *config.Config,
) *sample.Service {
	return sample.NewService(samples, txm, vector, embedder, cache, &cfg.Generation, &cfg.Embedding)
}

// ProvideProfileService 提供画像应用服务
func ProvideProfileService(
	samples repository.SampleRepository,
	profiles repository.ProfileRepository,
	summaryChain profile.SummaryChain,
	cache profile.ProfileCache,
	cfg *config.Config,
	factory *llm.EinoFactory,
) *profile.Service {
	return profile.NewService(samples, profiles, summaryChain, cache, &cfg.Generation, factory.DefaultProvider())
}

// ProvideGenerationService 提供生成应用服务
func ProvideGenerationService(
	profiles generation.ProfileResolver,
	searcher generation.VectorSearcher,
	embedder embedding.Embedder,
	composer generation.PostComposer,
	posts repository.PostRepository,
	cfg *config.Config,
	factory *llm.EinoFactory,
) *generation.Service {
	return generation.NewService(profiles, searcher, embedder, composer, posts, &cfg.Generation, factory.DefaultProvider())
}

// ProvideJobService 提供异步任务应用服务
func ProvideJobService(
	generator *generation.Service,
	jobs repository.JobRepository,
	publisher generation.JobPublisher,
) *generation.JobService {
	return generation.NewJobService(generator, jobs, publisher)
}
