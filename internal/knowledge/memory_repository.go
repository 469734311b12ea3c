package knowledge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository 在内存中保存知识条目，并追加写入本地 JSON Lines 文件以便重启恢复。
type MemoryRepository struct {
	mu         sync.RWMutex
	dataFile   string
	actionFile string
	items      []Item
	index      map[string]int
	actions    ActionSummary
	seenFocus  map[string]struct{}
	now        func() time.Time
}

// NewMemoryRepository 创建内存知识库；dataDir 为空时不落盘。
func NewMemoryRepository(dataDir string) (*MemoryRepository, error) {
	repo := &MemoryRepository{
		index:     make(map[string]int),
		seenFocus: make(map[string]struct{}),
		now:       time.Now,
	}
	repo.actions.FocusAreas = []string{}
	if dataDir == "" {
		return repo, nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	repo.dataFile = filepath.Join(dataDir, "knowledge.jsonl")
	repo.actionFile = filepath.Join(dataDir, "actions.jsonl")
	if err := repo.loadItems(); err != nil {
		return nil, err
	}
	if err := repo.loadActions(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Save 实现 Repository 接口。
func (m *MemoryRepository) Save(_ context.Context, item *Item) error {
	if item == nil {
		return fmt.Errorf("知识条目不能为空")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if _, ok := m.index[item.ID]; ok {
		return ErrItemConflict
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = m.now().Unix()
	}

	stored := cloneItem(*item)
	if err := appendLine(m.dataFile, stored); err != nil {
		return err
	}
	m.index[stored.ID] = len(m.items)
	m.items = append(m.items, stored)
	return nil
}

// Get 实现 Repository 接口。
func (m *MemoryRepository) Get(_ context.Context, id string) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.index[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	item := cloneItem(m.items[pos])
	return &item, nil
}

// List 实现 Repository 接口。
func (m *MemoryRepository) List(_ context.Context, limit int) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit = normalizeLimit(limit)
	results := make([]Item, 0, min(limit, len(m.items)))
	for i := len(m.items) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, cloneItem(m.items[i]))
	}
	return results, nil
}

// Search 根据查询词对标题、摘要、正文、分类与关键词打分排序。
func (m *MemoryRepository) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		return m.List(ctx, limit)
	}
	terms := searchTerms(query)
	if len(terms) == 0 {
		return []Item{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		pos   int
		score int
	}
	normalizedQuery := strings.ToLower(query)
	matches := make([]scored, 0)
	for pos, item := range m.items {
		if score := relevance(item, terms, normalizedQuery); score > 0 {
			matches = append(matches, scored{pos: pos, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].pos > matches[j].pos
		}
		return matches[i].score > matches[j].score
	})

	limit = normalizeLimit(limit)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]Item, 0, len(matches))
	for _, match := range matches {
		results = append(results, cloneItem(m.items[match.pos]))
	}
	return results, nil
}

// Stats 实现 Repository 接口。
func (m *MemoryRepository) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := newStats()
	for _, item := range m.items {
		stats.Total++
		stats.ByCategory[item.Category]++
		stats.ByKind[item.Kind]++
	}
	return stats, nil
}

// RecordAction 实现 ActionLog 接口。
func (m *MemoryRepository) RecordAction(_ context.Context, action Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action.CreatedAt == 0 {
		action.CreatedAt = m.now().Unix()
	}
	if err := appendLine(m.actionFile, action); err != nil {
		return err
	}
	m.trackAction(action)
	return nil
}

// Actions 实现 ActionLog 接口。
func (m *MemoryRepository) Actions(_ context.Context) (ActionSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ActionSummary{
		Total:      m.actions.Total,
		FocusAreas: append([]string{}, m.actions.FocusAreas...),
	}, nil
}

func (m *MemoryRepository) trackAction(action Action) {
	m.actions.Total++
	focus := strings.TrimSpace(action.FocusArea)
	if focus == "" {
		return
	}
	if _, ok := m.seenFocus[focus]; ok {
		return
	}
	m.seenFocus[focus] = struct{}{}
	m.actions.FocusAreas = append(m.actions.FocusAreas, focus)
}

// Close 对内存知识库无需操作。
func (m *MemoryRepository) Close() error {
	return nil
}

// relevance 每命中一个查询词计 1 分，关键词整体出现在查询中额外计 2 分。
func relevance(item Item, terms []string, normalizedQuery string) int {
	haystack := strings.ToLower(strings.Join([]string{
		item.Title, item.Summary, item.Content, item.Category, strings.Join(item.Keywords, " "),
	}, " "))

	score := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			score++
		}
	}
	for _, keyword := range item.Keywords {
		normalized := strings.ToLower(strings.TrimSpace(keyword))
		if normalized != "" && strings.Contains(normalizedQuery, normalized) {
			score += 2
		}
	}
	return score
}

func appendLine(path string, value any) error {
	if path == "" {
		return nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开数据文件失败: %w", err)
	}
	defer file.Close()

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化记录失败: %w", err)
	}
	if _, err := file.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("写入数据文件失败: %w", err)
	}
	return nil
}

// readLines 逐行解码 JSON 记录，无法解析的行会被跳过。
func readLines(path string, decode func(line []byte) error) error {
	file, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("读取数据文件失败: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		_ = decode(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("解析数据文件 %s 失败: %w", filepath.Base(path), err)
	}
	return nil
}

func (m *MemoryRepository) loadItems() error {
	return readLines(m.dataFile, func(line []byte) error {
		var item Item
		if err := json.Unmarshal(line, &item); err != nil {
			return err
		}
		if item.ID == "" {
			return nil
		}
		if _, ok := m.index[item.ID]; ok {
			return nil
		}
		m.index[item.ID] = len(m.items)
		m.items = append(m.items, item)
		return nil
	})
}

func (m *MemoryRepository) loadActions() error {
	return readLines(m.actionFile, func(line []byte) error {
		var action Action
		if err := json.Unmarshal(line, &action); err != nil {
			return err
		}
		m.trackAction(action)
		return nil
	})
}

var _ Repository = (*MemoryRepository)(nil)
