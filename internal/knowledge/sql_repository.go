package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	xerrors "BizEdu-Agent/internal/errors"
)

const (
	insertItemSQL = `INSERT INTO knowledge_items
    (id, kind, category, title, content, summary, keywords, focus_area, metadata, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	selectItemColumns = `SELECT id, kind, category, title, content, summary, keywords, focus_area, metadata, created_at
    FROM knowledge_items`
	insertActionSQL = `INSERT INTO user_actions (action, focus_area, item_id, created_at) VALUES (?, ?, ?, ?)`

	mysqlDuplicateEntry = 1062
)

// SQLRepository 使用 MySQL 存储知识条目与用户操作。
type SQLRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLRepository 创建连接池并执行内置迁移。
func NewSQLRepository(ctx context.Context, cfg SQLConfig) (*SQLRepository, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeStorageFailure, err, "初始化知识库连接失败")
	}
	repo := newSQLRepository(db)
	if err := newMigrator(db).Up(ctx); err != nil {
		_ = db.Close()
		return nil, xerrors.Wrap(xerrors.CodeStorageFailure, err, "执行知识库迁移失败")
	}
	return repo, nil
}

func newSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, now: time.Now}
}

// Save 将知识条目写入 MySQL。
func (s *SQLRepository) Save(ctx context.Context, item *Item) error {
	if item == nil {
		return xerrors.New(xerrors.CodeInvalidArgument, "知识条目不能为空")
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = s.now().Unix()
	}

	keywords, err := json.Marshal(nonNilStrings(item.Keywords))
	if err != nil {
		return fmt.Errorf("序列化关键词失败: %w", err)
	}
	metadata, err := json.Marshal(nonNilMetadata(item.Metadata))
	if err != nil {
		return fmt.Errorf("序列化元数据失败: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertItemSQL,
		item.ID,
		string(item.Kind),
		item.Category,
		item.Title,
		item.Content,
		item.Summary,
		string(keywords),
		item.FocusArea,
		string(metadata),
		item.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if stdErrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrItemConflict
		}
		return xerrors.Wrap(xerrors.CodeStorageFailure, err, "写入知识条目失败")
	}
	return nil
}

// Get 按 ID 查询知识条目。
func (s *SQLRepository) Get(ctx context.Context, id string) (*Item, error) {
	rows, err := s.db.QueryContext(ctx, selectItemColumns+` WHERE id = ?`, id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeStorageFailure, err, "查询知识条目失败")
	}
	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrItemNotFound
	}
	return &items[0], nil
}

// List 查询最近的若干条知识条目。
func (s *SQLRepository) List(ctx context.Context, limit int) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, selectItemColumns+` ORDER BY created_at DESC, id DESC LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeStorageFailure, err, "查询知识条目失败")
	}
	return scanItems(rows)
}

// Search 对每个查询词在标题、摘要、正文与关键词上做 LIKE 匹配，按命中词数排序。
func (s *SQLRepository) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		return s.List(ctx, limit)
	}
	terms := searchTerms(query)
	if len(terms) == 0 {
		return []Item{}, nil
	}

	clauses := make([]string, 0, len(terms))
	scores := make([]string, 0, len(terms))
	patterns := make([]any, 0, len(terms)*4)
	for _, term := range terms {
		clause := `(title LIKE ? OR summary LIKE ? OR content LIKE ? OR keywords LIKE ?)`
		clauses = append(clauses, clause)
		scores = append(scores, `CASE WHEN `+clause+` THEN 1 ELSE 0 END`)
		pattern := "%" + escapeLike(term) + "%"
		patterns = append(patterns, pattern, pattern, pattern, pattern)
	}
	args := make([]any, 0, len(patterns)*2+1)
	args = append(args, patterns...)
	args = append(args, patterns...)
	args = append(args, normalizeLimit(limit))

	stmt := selectItemColumns +
		` WHERE ` + strings.Join(clauses, ` OR `) +
		` ORDER BY (` + strings.Join(scores, ` + `) + `) DESC, created_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeStorageFailure, err, "检索知识条目失败")
	}
	return scanItems(rows)
}

// Stats 按类型与分类统计条目数量。
func (s *SQLRepository) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, category, COUNT(*) FROM knowledge_items GROUP BY kind, category`)
	if err != nil {
		return Stats{}, xerrors.Wrap(xerrors.CodeStorageFailure, err, "统计知识条目失败")
	}
	defer rows.Close()

	stats := newStats()
	for rows.Next() {
		var (
			kind     string
			category string
			count    int
		)
		if err := rows.Scan(&kind, &category, &count); err != nil {
			return Stats{}, xerrors.Wrap(xerrors.CodeStorageFailure, err, "解析统计结果失败")
		}
		stats.Total += count
		stats.ByKind[Kind(kind)] += count
		stats.ByCategory[category] += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, xerrors.Wrap(xerrors.CodeStorageFailure, err, "遍历统计结果失败")
	}
	return stats, nil
}

// RecordAction 写入一条用户操作。
func (s *SQLRepository) RecordAction(ctx context.Context, action Action) error {
	if action.CreatedAt == 0 {
		action.CreatedAt = s.now().Unix()
	}
	if _, err := s.db.ExecContext(ctx, insertActionSQL, action.Name, action.FocusArea, action.ItemID, action.CreatedAt); err != nil {
		return xerrors.Wrap(xerrors.CodeStorageFailure, err, "记录用户操作失败")
	}
	return nil
}

// Actions 返回操作总数以及按首次出现排序的关注领域。
func (s *SQLRepository) Actions(ctx context.Context) (ActionSummary, error) {
	summary := ActionSummary{FocusAreas: []string{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_actions`).Scan(&summary.Total); err != nil {
		return ActionSummary{}, xerrors.Wrap(xerrors.CodeStorageFailure, err, "统计用户操作失败")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT focus_area FROM user_actions WHERE focus_area <> '' GROUP BY focus_area ORDER BY MIN(id)`)
	if err != nil {
		return ActionSummary{}, xerrors.Wrap(xerrors.CodeStorageFailure, err, "查询关注领域失败")
	}
	defer rows.Close()
	for rows.Next() {
		var focus string
		if err := rows.Scan(&focus); err != nil {
			return ActionSummary{}, xerrors.Wrap(xerrors.CodeStorageFailure, err, "解析关注领域失败")
		}
		summary.FocusAreas = append(summary.FocusAreas, focus)
	}
	if err := rows.Err(); err != nil {
		return ActionSummary{}, xerrors.Wrap(xerrors.CodeStorageFailure, err, "遍历关注领域失败")
	}
	return summary, nil
}

// Close 关闭底层数据库连接。
func (s *SQLRepository) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var (
			item     Item
			kind     string
			keywords string
			metadata string
		)
		if err := rows.Scan(&item.ID, &kind, &item.Category, &item.Title, &item.Content, &item.Summary, &keywords, &item.FocusArea, &metadata, &item.CreatedAt); err != nil {
			return nil, xerrors.Wrap(xerrors.CodeStorageFailure, err, "解析知识条目失败")
		}
		item.Kind = Kind(kind)
		if keywords != "" {
			_ = json.Unmarshal([]byte(keywords), &item.Keywords)
		}
		if metadata != "" {
			_ = json.Unmarshal([]byte(metadata), &item.Metadata)
		}
		if len(item.Keywords) == 0 {
			item.Keywords = nil
		}
		if len(item.Metadata) == 0 {
			item.Metadata = nil
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Wrap(xerrors.CodeStorageFailure, err, "遍历知识条目失败")
	}
	return items, nil
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilMetadata(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return values
}

var _ Repository = (*SQLRepository)(nil)
