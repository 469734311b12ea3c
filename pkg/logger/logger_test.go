package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRollingFileArchivesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")

	writer, err := newRollingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("create rolling file: %v", err)
	}
	writer.maxBytes = 16

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writer.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	for i := 0; i < 5; i++ {
		if _, err := writer.Write([]byte("0123456789\n")); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	archived, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(archived) != 2 {
		t.Fatalf("expected 2 retained archives, got %d: %v", len(archived), archived)
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read active file: %v", err)
	}
	if string(current) != "0123456789\n" {
		t.Fatalf("unexpected active content: %q", current)
	}
}

func TestInitWritesToFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := Init(Config{Level: "debug", Format: "json", OutputPaths: []string{path}}); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = Sync()
		_ = Init(Config{OutputPaths: []string{"discard"}})
	})

	Named("driver").Debug("heartbeat", "cycle", 1)
	if err := Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, `"component":"driver"`) || !strings.Contains(line, `"msg":"heartbeat"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
}

func TestAuditRequiresPath(t *testing.T) {
	if err := Init(Config{Audit: AuditConfig{Enabled: true}}); err == nil {
		t.Fatalf("expected error when audit path is empty")
	}
}
