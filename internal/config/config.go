package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"BizEdu-Agent/pkg/logger"
)

const (
	// PlaceholderAPIKey 在未提供任何 API Key 时使用，保证演示流程可以启动。
	PlaceholderAPIKey = "your-openai-api-key"

	defaultAPIKeyEnv         = "OPENAI_API_KEY"
	defaultModel             = "gpt-4o-mini"
	defaultEndpoint          = "https://api.openai.com/v1"
	defaultTimeoutSeconds    = 60
	defaultMaxSources        = 5
	defaultIntegrationDelay  = 1000
	defaultHeartbeatInterval = 15
	defaultOverviewAddress   = ":8080"
)

// Config 描述了业务教育智能体在启动阶段需要加载的全部配置。
type Config struct {
	Agent    AgentConfig    `yaml:"agent"`
	Storage  StorageConfig  `yaml:"storage"`
	Events   EventsConfig   `yaml:"events"`
	Demo     DemoConfig     `yaml:"demo"`
	Overview OverviewConfig `yaml:"overview"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  logger.Config  `yaml:"logging"`
}

// AgentConfig 对应构造智能体所需的配置对象（API Key、模型、接口地址）。
type AgentConfig struct {
	APIKey         string `yaml:"api_key"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxSources     int    `yaml:"max_sources"`
}

// Timeout 返回调用大模型的超时时间。
func (c AgentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveAPIKey 依次使用显式配置、环境变量和占位值。
func (c AgentConfig) ResolveAPIKey() string {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key
	}
	if c.APIKeyEnv != "" {
		if key := strings.TrimSpace(os.Getenv(c.APIKeyEnv)); key != "" {
			return key
		}
	}
	return PlaceholderAPIKey
}

// StorageConfig 统一描述知识库等后端的连接信息。
type StorageConfig struct {
	Knowledge KnowledgeStoreConfig `yaml:"knowledge"`
}

// KnowledgeStoreConfig 描述知识条目的存储方式。
type KnowledgeStoreConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `yaml:"conn_max_lifetime_seconds"`
	DataDir                string `yaml:"data_dir"`
	SeedFile               string `yaml:"seed_file"`
}

// EventsConfig 描述学习事件的投递方式。
type EventsConfig struct {
	Driver   string         `yaml:"driver"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

// RedisConfig 描述 Redis 事件列表。
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
	MaxLen   int64  `yaml:"max_len"`
}

// RabbitMQConfig 描述 RabbitMQ 事件队列。
type RabbitMQConfig struct {
	URL     string `yaml:"url"`
	Queue   string `yaml:"queue"`
	Durable bool   `yaml:"durable"`
}

// DemoConfig 控制演示驱动的节奏。
type DemoConfig struct {
	IntegrationDelayMillis   int `yaml:"integration_delay_ms"`
	HeartbeatIntervalSeconds int `yaml:"heartbeat_interval_seconds"`
}

// IntegrationDelay 返回每个集成点之前的固定等待时间。
func (c DemoConfig) IntegrationDelay() time.Duration {
	return time.Duration(c.IntegrationDelayMillis) * time.Millisecond
}

// HeartbeatInterval 返回学习循环的日志间隔。
func (c DemoConfig) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatIntervalSeconds) * time.Second
}

// OverviewConfig 控制概览页服务。
type OverviewConfig struct {
	Address string `yaml:"address"`
}

// MetricsConfig 控制独立的 /metrics 服务，地址为空时不启动。
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Default 返回仅依赖内置默认值的配置。
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(".")
	return cfg
}

// Load 负责解析指定路径的 YAML（或 JSON）配置文件。
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("配置文件路径为空")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyDefaults(filepath.Dir(path))
	return &cfg, nil
}

// Resolve 在路径为空时返回默认配置，否则加载文件。
func Resolve(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults 在用户未填写部分字段时设置合理的默认值。
func (c *Config) applyDefaults(baseDir string) {
	if c.Agent.APIKeyEnv == "" {
		c.Agent.APIKeyEnv = defaultAPIKeyEnv
	}
	if c.Agent.Model == "" {
		c.Agent.Model = defaultModel
	}
	if c.Agent.Endpoint == "" {
		c.Agent.Endpoint = defaultEndpoint
	}
	if c.Agent.TimeoutSeconds <= 0 {
		c.Agent.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Agent.MaxSources <= 0 {
		c.Agent.MaxSources = defaultMaxSources
	}

	if c.Storage.Knowledge.Driver == "" {
		c.Storage.Knowledge.Driver = "memory"
	}
	c.Storage.Knowledge.DataDir = resolvePath(baseDir, c.Storage.Knowledge.DataDir, "data")
	if c.Storage.Knowledge.SeedFile != "" {
		c.Storage.Knowledge.SeedFile = resolvePath(baseDir, c.Storage.Knowledge.SeedFile, "")
	}

	if c.Events.Driver == "" {
		c.Events.Driver = "memory"
	}
	if c.Events.Redis.Key == "" {
		c.Events.Redis.Key = "bizedu:events"
	}
	if c.Events.RabbitMQ.Queue == "" {
		c.Events.RabbitMQ.Queue = "bizedu.events"
	}

	if c.Demo.IntegrationDelayMillis <= 0 {
		c.Demo.IntegrationDelayMillis = defaultIntegrationDelay
	}
	if c.Demo.HeartbeatIntervalSeconds <= 0 {
		c.Demo.HeartbeatIntervalSeconds = defaultHeartbeatInterval
	}

	if c.Overview.Address == "" {
		c.Overview.Address = defaultOverviewAddress
	}
}

func resolvePath(baseDir, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if value == "" || filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(baseDir, value)
}
