package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAMLAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bizedu.yaml")
	content := `
agent:
  model: gpt-4.1
  timeout_seconds: 5
storage:
  knowledge:
    driver: mysql
    dsn: "user:pass@tcp(localhost:3306)/bizedu"
    seed_file: seeds/knowledge.yaml
events:
  driver: redis
  redis:
    address: "localhost:6379"
demo:
  integration_delay_ms: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Agent.Model != "gpt-4.1" || cfg.Agent.Timeout() != 5*time.Second {
		t.Fatalf("unexpected agent config: %+v", cfg.Agent)
	}
	if cfg.Agent.Endpoint != defaultEndpoint {
		t.Fatalf("endpoint default missing: %q", cfg.Agent.Endpoint)
	}
	if cfg.Storage.Knowledge.DataDir != filepath.Join(dir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Storage.Knowledge.DataDir)
	}
	if cfg.Storage.Knowledge.SeedFile != filepath.Join(dir, "seeds", "knowledge.yaml") {
		t.Fatalf("unexpected seed file: %q", cfg.Storage.Knowledge.SeedFile)
	}
	if cfg.Events.Redis.Key != "bizedu:events" {
		t.Fatalf("unexpected redis key: %q", cfg.Events.Redis.Key)
	}
	if cfg.Demo.IntegrationDelay() != 10*time.Millisecond {
		t.Fatalf("unexpected integration delay: %v", cfg.Demo.IntegrationDelay())
	}
	if cfg.Demo.HeartbeatInterval() != 15*time.Second {
		t.Fatalf("unexpected heartbeat interval: %v", cfg.Demo.HeartbeatInterval())
	}
}

func TestLoadJSONIsAccepted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizedu.json")
	if err := os.WriteFile(path, []byte(`{"overview": {"address": ":9090"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Overview.Address != ":9090" {
		t.Fatalf("unexpected overview address: %q", cfg.Overview.Address)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestResolveWithoutPathUsesDefaults(t *testing.T) {
	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Storage.Knowledge.Driver != "memory" || cfg.Events.Driver != "memory" {
		t.Fatalf("unexpected drivers: %+v %+v", cfg.Storage.Knowledge, cfg.Events)
	}
	if cfg.Demo.IntegrationDelay() != time.Second {
		t.Fatalf("unexpected delay: %v", cfg.Demo.IntegrationDelay())
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("BIZEDU_TEST_KEY", "")
	cfg := AgentConfig{APIKeyEnv: "BIZEDU_TEST_KEY"}
	if got := cfg.ResolveAPIKey(); got != PlaceholderAPIKey {
		t.Fatalf("expected placeholder, got %q", got)
	}

	t.Setenv("BIZEDU_TEST_KEY", " sk-env ")
	if got := cfg.ResolveAPIKey(); got != "sk-env" {
		t.Fatalf("expected env key, got %q", got)
	}

	cfg.APIKey = "sk-explicit"
	if got := cfg.ResolveAPIKey(); got != "sk-explicit" {
		t.Fatalf("expected explicit key, got %q", got)
	}
}

func TestExampleConfigLoads(t *testing.T) {
	path := filepath.Join("..", "..", "deploy", "bizedu.example.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	if cfg.Events.RabbitMQ.Queue != "bizedu.events" || !cfg.Events.RabbitMQ.Durable {
		t.Fatalf("unexpected rabbitmq section: %+v", cfg.Events.RabbitMQ)
	}
	if want := filepath.Join(filepath.Dir(path), "knowledge_seed.yaml"); cfg.Storage.Knowledge.SeedFile != want {
		t.Fatalf("seed file should resolve next to the config, got %q", cfg.Storage.Knowledge.SeedFile)
	}
	if !cfg.Logging.Audit.Enabled || cfg.Logging.Audit.MaxBackups != 5 {
		t.Fatalf("unexpected audit config: %+v", cfg.Logging.Audit)
	}
	if cfg.Demo.IntegrationDelay() != time.Second || cfg.Demo.HeartbeatInterval() != 15*time.Second {
		t.Fatalf("unexpected demo timings: %+v", cfg.Demo)
	}
}
