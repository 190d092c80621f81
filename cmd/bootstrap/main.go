// Package main 系统初始化入口：建表并创建向量集合
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"ai-author-api/internal/config"
	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	deps, cleanup, err := wire.InitializeBootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize bootstrap: %v", err)
	}
	defer cleanup()

	fmt.Println("Migrating PostgreSQL schema...")
	if err := deps.PgClient.DB().AutoMigrate(
		&entity.Sample{},
		&entity.StyleProfile{},
		&entity.GeneratedPost{},
		&entity.GenerationJob{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	fmt.Println("Ensuring Milvus writing_samples collection...")
	if err := deps.VectorRepo.EnsureWritingSamplesCollection(ctx); err != nil {
		log.Fatalf("failed to ensure vector collection: %v", err)
	}

	fmt.Println("Bootstrap completed.")
}
