package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"BizEdu-Agent/internal/agent"
	"BizEdu-Agent/internal/config"
	"BizEdu-Agent/internal/driver"
	"BizEdu-Agent/internal/llm/openai"
	"BizEdu-Agent/internal/observability/alerting"
	"BizEdu-Agent/internal/observability/metrics"
	"BizEdu-Agent/pkg/logger"
)

// main 是商业教育智能体演示驱动的入口，不读取任何命令行参数。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "❌ 加载 .env 失败: %v\n", err)
		return 1
	}

	cfg, err := config.Resolve(os.Getenv("BIZEDU_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 初始化日志失败: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("bizedu-demo")

	if cfg.Metrics.Address != "" {
		go func() {
			if err := metrics.StartServer(ctx, cfg.Metrics.Address); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("指标服务退出", slog.String("error", err.Error()))
			}
		}()
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.Warn("释放资源失败", slog.String("error", err.Error()))
			}
		}
	}()

	factory := func(ctx context.Context) (agent.Capabilities, error) {
		client, err := openai.NewClient(openai.Config{
			APIKey:  cfg.Agent.ResolveAPIKey(),
			BaseURL: cfg.Agent.Endpoint,
			Model:   cfg.Agent.Model,
			Timeout: cfg.Agent.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		if cfg.Agent.ResolveAPIKey() == config.PlaceholderAPIKey {
			log.Warn("未找到 API Key，使用占位值，能力调用将会失败", slog.String("env", cfg.Agent.APIKeyEnv))
		}

		repo, err := openRepository(ctx, cfg.Storage.Knowledge)
		if err != nil {
			return nil, err
		}
		closers = append(closers, repo)

		publisher, err := openPublisher(ctx, cfg.Events)
		if err != nil {
			return nil, err
		}
		closers = append(closers, publisher)

		return agent.New(client, repo,
			agent.WithPublisher(publisher),
			agent.WithLLMTimeout(cfg.Agent.Timeout()),
			agent.WithMaxSources(cfg.Agent.MaxSources),
		), nil
	}

	d := driver.New(factory,
		driver.WithModel(cfg.Agent.Model),
		driver.WithIntegrationDelay(cfg.Demo.IntegrationDelay()),
		driver.WithHeartbeat(cfg.Demo.HeartbeatInterval()),
		driver.WithAlerts(alerting.NewFanout(&alerting.LogNotifier{})),
	)
	return d.Run(ctx)
}
