package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"BizEdu-Agent/internal/config"
	"BizEdu-Agent/internal/events"
	"BizEdu-Agent/internal/knowledge"
	"BizEdu-Agent/pkg/logger"
)

// openRepository 按配置选择知识库实现，并在配置了种子文件时写入预置条目。
func openRepository(ctx context.Context, cfg config.KnowledgeStoreConfig) (knowledge.Repository, error) {
	var repo knowledge.Repository
	switch cfg.Driver {
	case "", "memory":
		memory, err := knowledge.NewMemoryRepository(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		repo = memory
	case "mysql":
		sqlRepo, err := knowledge.NewSQLRepository(ctx, knowledge.SQLConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeSeconds) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		repo = sqlRepo
	default:
		return nil, fmt.Errorf("%w: %s", knowledge.ErrUnsupportedDriver, cfg.Driver)
	}

	if cfg.SeedFile == "" {
		return repo, nil
	}
	items, err := knowledge.LoadSeed(cfg.SeedFile)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	inserted, err := knowledge.Seed(ctx, repo, items)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	logger.Named("knowledge").Info("已加载知识库种子", slog.Int("inserted", inserted), slog.Int("total", len(items)))
	return repo, nil
}

// openPublisher 按配置选择学习事件的投递方式。
func openPublisher(ctx context.Context, cfg config.EventsConfig) (events.Publisher, error) {
	switch cfg.Driver {
	case "", "memory":
		return events.NewMemoryPublisher(0), nil
	case "redis":
		pub, err := events.NewRedisPublisher(ctx, events.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
			MaxLen:   cfg.Redis.MaxLen,
		})
		if err != nil {
			return nil, err
		}
		return pub, nil
	case "rabbitmq":
		pub, err := events.NewRabbitMQPublisher(events.RabbitMQConfig{
			URL:     cfg.RabbitMQ.URL,
			Queue:   cfg.RabbitMQ.Queue,
			Durable: cfg.RabbitMQ.Durable,
		})
		if err != nil {
			return nil, err
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("不支持的事件驱动: %s", cfg.Driver)
	}
}
