package knowledge

import (
	"context"
	"strings"

	xerrors "BizEdu-Agent/internal/errors"
)

// Kind 区分知识条目的来源类型。
type Kind string

const (
	KindConcept   Kind = "concept"
	KindCaseStudy Kind = "case_study"
)

// Item 是知识库中的一条知识，入库后不再修改。
type Item struct {
	ID        string            `json:"id" yaml:"id"`
	Kind      Kind              `json:"kind" yaml:"kind"`
	Category  string            `json:"category" yaml:"category"`
	Title     string            `json:"title" yaml:"title"`
	Content   string            `json:"content" yaml:"content"`
	Summary   string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Keywords  []string          `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	FocusArea string            `json:"focus_area,omitempty" yaml:"focus_area,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CreatedAt int64             `json:"created_at" yaml:"created_at"`
}

// Stats 汇总知识库中的条目数量。
type Stats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
	ByKind     map[Kind]int   `json:"by_kind"`
}

// Action 记录一次用户操作，例如学习概念或生成工具。
type Action struct {
	Name      string `json:"name"`
	FocusArea string `json:"focus_area,omitempty"`
	ItemID    string `json:"item_id,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// ActionSummary 汇总用户操作；FocusAreas 按首次出现的顺序排列且不重复。
type ActionSummary struct {
	Total      int      `json:"total"`
	FocusAreas []string `json:"focus_areas"`
}

// ActionLog 抽象用户操作记录。
type ActionLog interface {
	RecordAction(ctx context.Context, action Action) error
	Actions(ctx context.Context) (ActionSummary, error)
}

// Repository 抽象知识条目与用户操作的持久化接口。
type Repository interface {
	ActionLog

	// Save 写入新条目；ID 为空时自动生成，CreatedAt 为零时取当前时间。
	Save(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	// List 按创建时间倒序返回最近的条目。
	List(ctx context.Context, limit int) ([]Item, error)
	// Search 返回与查询词相关的条目，查询为空时等价于 List。
	Search(ctx context.Context, query string, limit int) ([]Item, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

const (
	CodeItemNotFound xerrors.Code = "KNOWLEDGE_ITEM_NOT_FOUND"
	CodeItemConflict xerrors.Code = "KNOWLEDGE_ITEM_CONFLICT"
)

var (
	// ErrItemNotFound 表示指定的知识条目不存在。
	ErrItemNotFound = xerrors.New(CodeItemNotFound, "knowledge item not found")
	// ErrItemConflict 表示同 ID 的条目已经存在。
	ErrItemConflict = xerrors.New(CodeItemConflict, "knowledge item already exists")
	// ErrUnsupportedDriver 表示配置了未知的存储驱动。
	ErrUnsupportedDriver = xerrors.New(xerrors.CodeInvalidArgument, "unsupported knowledge storage driver")
)

func init() {
	xerrors.Register(CodeItemNotFound, xerrors.Attributes{
		Message:  "knowledge item not found",
		Severity: xerrors.SeverityInfo,
	})
	xerrors.Register(CodeItemConflict, xerrors.Attributes{
		Message:  "knowledge item already exists",
		Severity: xerrors.SeverityWarning,
	})
}

const defaultListLimit = 20

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

func newStats() Stats {
	return Stats{ByCategory: map[string]int{}, ByKind: map[Kind]int{}}
}

// stopwords 是检索时忽略的常见英文虚词。
var stopwords = map[string]struct{}{
	"about": {}, "all": {}, "and": {}, "any": {}, "are": {}, "but": {}, "can": {},
	"does": {}, "for": {}, "from": {}, "has": {}, "have": {}, "how": {}, "into": {},
	"its": {}, "not": {}, "our": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "those": {}, "use": {},
	"using": {}, "was": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"who": {}, "why": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// searchTerms 将查询拆分为可匹配的小写词，过滤掉过短的词与虚词。
func searchTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r > 127)
	})
	terms := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if len([]rune(field)) < 3 {
			continue
		}
		if _, ok := stopwords[field]; ok {
			continue
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		terms = append(terms, field)
	}
	return terms
}

func cloneItem(item Item) Item {
	if item.Keywords != nil {
		item.Keywords = append([]string(nil), item.Keywords...)
	}
	if item.Metadata != nil {
		metadata := make(map[string]string, len(item.Metadata))
		for k, v := range item.Metadata {
			metadata[k] = v
		}
		item.Metadata = metadata
	}
	return item
}
