package knowledge

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSeed 从 YAML 或 JSON 文件读取预置的知识条目。
func LoadSeed(path string) ([]Item, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("知识库种子文件路径不能为空")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("解析种子文件路径失败: %w", err)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}

	var items []Item
	if err := yaml.Unmarshal(content, &items); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}

	valid := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.Content) == "" && strings.TrimSpace(item.Title) == "" {
			continue
		}
		if item.Kind == "" {
			item.Kind = KindConcept
		}
		valid = append(valid, item)
	}
	return valid, nil
}

// Seed 将条目写入仓库，已存在的 ID 会被跳过，返回实际写入的数量。
func Seed(ctx context.Context, repo Repository, items []Item) (int, error) {
	inserted := 0
	for i := range items {
		item := items[i]
		if err := repo.Save(ctx, &item); err != nil {
			if stdErrors.Is(err, ErrItemConflict) {
				continue
			}
			return inserted, fmt.Errorf("写入种子条目 %q 失败: %w", item.Title, err)
		}
		inserted++
	}
	return inserted, nil
}
