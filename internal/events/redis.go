package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig 描述 Redis 事件列表的连接参数。
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Key      string
	// MaxLen 大于 0 时，列表仅保留最新的 MaxLen 条事件。
	MaxLen int64
}

// RedisPublisher 使用 LPUSH 将事件写入 Redis 列表。
type RedisPublisher struct {
	client *redis.Client
	key    string
	maxLen int64
	now    func() time.Time
}

// NewRedisPublisher 创建 Redis 事件发布器并检查连接。
func NewRedisPublisher(ctx context.Context, cfg RedisConfig) (*RedisPublisher, error) {
	if cfg.Address == "" {
		return nil, errors.New("Redis address 不能为空")
	}
	key := cfg.Key
	if key == "" {
		key = "bizedu:events"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}
	return &RedisPublisher{client: client, key: key, maxLen: cfg.MaxLen, now: time.Now}, nil
}

// Publish 实现 Publisher 接口。
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(prepare(event, p.now))
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	pipe := p.client.TxPipeline()
	pipe.LPush(ctx, p.key, payload)
	if p.maxLen > 0 {
		pipe.LTrim(ctx, p.key, 0, p.maxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("Redis 发布事件失败: %w", err)
	}
	return nil
}

// Close 关闭 Redis 连接。
func (p *RedisPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

var _ Publisher = (*RedisPublisher)(nil)
