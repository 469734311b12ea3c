package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"BizEdu-Agent/deploy/migrations"
)

const createMigrationsTableSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(32) NOT NULL PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`

// migration 是一个带版本号的 SQL 文件，版本取文件名中第一个下划线之前的部分。
type migration struct {
	version    string
	name       string
	statements []string
}

// migrator 按版本号顺序执行尚未应用的迁移，每个迁移在独立事务中完成。
type migrator struct {
	db    *sql.DB
	files fs.FS
	now   func() time.Time
}

func newMigrator(db *sql.DB) *migrator {
	return &migrator{db: db, files: migrations.Files, now: time.Now}
}

func (m *migrator) Up(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createMigrationsTableSQL); err != nil {
		return fmt.Errorf("创建 schema_migrations 表失败: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	pending, err := m.pending(applied)
	if err != nil {
		return err
	}
	for _, item := range pending {
		if err := m.apply(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (m *migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("查询 schema_migrations 失败: %w", err)
	}
	defer rows.Close()

	versions := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("解析 schema_migrations 失败: %w", err)
		}
		versions[version] = true
	}
	return versions, rows.Err()
}

func (m *migrator) pending(applied map[string]bool) ([]migration, error) {
	names, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("读取迁移目录失败: %w", err)
	}
	sort.Strings(names)

	var result []migration
	for _, name := range names {
		version, _, _ := strings.Cut(strings.TrimSuffix(path.Base(name), ".sql"), "_")
		if applied[version] {
			continue
		}
		content, err := fs.ReadFile(m.files, name)
		if err != nil {
			return nil, fmt.Errorf("读取迁移文件 %s 失败: %w", name, err)
		}
		statements := splitStatements(string(content))
		if len(statements) == 0 {
			continue
		}
		result = append(result, migration{version: version, name: name, statements: statements})
	}
	return result, nil
}

func (m *migrator) apply(ctx context.Context, item migration) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启迁移事务失败: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range item.statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("执行迁移 %s 失败: %w", item.name, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`, item.version, m.now().Unix()); err != nil {
		return fmt.Errorf("记录迁移版本失败: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("提交迁移事务失败: %w", err)
	}
	return nil
}

func splitStatements(content string) []string {
	var statements []string
	for _, stmt := range strings.Split(content, ";") {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}
