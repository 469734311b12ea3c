package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	defaultAuditSizeMB  = 50
	defaultAuditBackups = 5
)

// rollingFile is an io.WriteCloser that moves the active file aside once it
// grows past maxBytes. Archived files carry a UTC timestamp suffix and only
// the newest keep of them are retained.
type rollingFile struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	keep     int
	file     *os.File
	written  int64
	now      func() time.Time
}

func newRollingFile(path string, maxSizeMB, maxBackups int) (*rollingFile, error) {
	if path == "" {
		return nil, errors.New("audit log path cannot be empty when enabled")
	}
	if maxSizeMB <= 0 {
		maxSizeMB = defaultAuditSizeMB
	}
	if maxBackups <= 0 {
		maxBackups = defaultAuditBackups
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}
	return &rollingFile{
		path:     path,
		maxBytes: int64(maxSizeMB) * 1024 * 1024,
		keep:     maxBackups,
		now:      time.Now,
	}, nil
}

func (r *rollingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if r.written > 0 && r.written+int64(len(p)) > r.maxBytes {
		if err := r.roll(); err != nil {
			return 0, err
		}
	}
	n, err := r.file.Write(p)
	r.written += int64(n)
	return n, err
}

func (r *rollingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.written = 0
	return err
}

func (r *rollingFile) open() error {
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat audit log: %w", err)
	}
	r.file = file
	r.written = info.Size()
	return nil
}

func (r *rollingFile) roll() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}
	r.file = nil

	archived := fmt.Sprintf("%s.%s", r.path, r.now().UTC().Format("20060102T150405.000000000"))
	if err := os.Rename(r.path, archived); err != nil {
		return fmt.Errorf("archive audit log: %w", err)
	}
	r.prune()
	return r.open()
}

func (r *rollingFile) prune() {
	matches, err := filepath.Glob(r.path + ".*")
	if err != nil || len(matches) <= r.keep {
		return
	}
	// Timestamp suffixes sort lexically in chronological order.
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-r.keep] {
		_ = os.Remove(stale)
	}
}
