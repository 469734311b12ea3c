package agent

import (
	"context"
	"fmt"
	"time"

	xerrors "BizEdu-Agent/internal/errors"
)

// Capabilities 是商业教育智能体对外提供的全部能力，演示驱动只依赖此接口。
type Capabilities interface {
	LearnConcept(ctx context.Context, content, category string, learning LearningContext) (*KnowledgeItem, error)
	AddCaseStudy(ctx context.Context, content string, opts CaseStudyOptions) (*KnowledgeItem, error)
	Summarize(ctx context.Context, query string, opts SummaryOptions) (*SummaryResult, error)
	GenerateTool(ctx context.Context, req ToolRequest) (GeneratedArtifact, error)
	GenerateSimulation(ctx context.Context, req SimulationRequest) (GeneratedArtifact, error)
	Analytics(ctx context.Context) (*AnalyticsSnapshot, error)
	ExportProgress(ctx context.Context) (*ProgressExport, error)
}

// 能力名称，与 Capabilities 的方法一一对应。
const (
	CapabilityLearnConcept       = "learn_concept"
	CapabilityAddCaseStudy       = "add_case_study"
	CapabilitySummarize          = "summarize_knowledge"
	CapabilityGenerateTool       = "generate_tool"
	CapabilityGenerateSimulation = "generate_simulation"
	CapabilityAnalytics          = "learning_analytics"
	CapabilityExportProgress     = "export_progress"
)

// CapabilityNames 按演示顺序返回全部能力名称。
func CapabilityNames() []string {
	return []string{
		CapabilityLearnConcept,
		CapabilityAddCaseStudy,
		CapabilitySummarize,
		CapabilityGenerateTool,
		CapabilityGenerateSimulation,
		CapabilityAnalytics,
		CapabilityExportProgress,
	}
}

// StudentLevel 表示学员水平。
type StudentLevel string

const (
	LevelBeginner     StudentLevel = "beginner"
	LevelIntermediate StudentLevel = "intermediate"
	LevelAdvanced     StudentLevel = "advanced"
)

// LearningContext 描述一次学习请求的学员背景，调用期间不可变。
type LearningContext struct {
	StudentLevel       StudentLevel `json:"student_level,omitempty"`
	FocusArea          string       `json:"focus_area,omitempty"`
	LearningObjectives []string     `json:"learning_objectives,omitempty"`
	CurrentProgress    int          `json:"current_progress"`
}

// Validate 校验学员水平与进度范围，空水平视为未指定。
func (c LearningContext) Validate() error {
	switch c.StudentLevel {
	case "", LevelBeginner, LevelIntermediate, LevelAdvanced:
	default:
		return xerrors.New(xerrors.CodeInvalidArgument, fmt.Sprintf("未知的学员水平: %s", c.StudentLevel))
	}
	if c.CurrentProgress < 0 || c.CurrentProgress > 100 {
		return xerrors.New(xerrors.CodeInvalidArgument, "学习进度必须在 0 到 100 之间")
	}
	return nil
}

// KnowledgeItem 是入库后的知识条目视图。
type KnowledgeItem struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CaseStudyOptions 描述案例的附加信息。
type CaseStudyOptions struct {
	Company  string   `json:"company,omitempty"`
	Industry string   `json:"industry,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// SummaryOptions 控制知识总结的来源数量，MaxSources<=0 时使用默认值。
type SummaryOptions struct {
	MaxSources int `json:"max_sources,omitempty"`
}

// SummaryResult 是总结文本与按检索顺序排列的来源条目 ID。
type SummaryResult struct {
	Summary string   `json:"summary"`
	Sources []string `json:"sources"`
}

// ToolRequest 描述要生成的商业工具。
type ToolRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Language     string   `json:"language,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// SimulationRequest 描述要生成的商业模拟。
type SimulationRequest struct {
	Scenario    string       `json:"scenario"`
	Description string       `json:"description,omitempty"`
	Difficulty  StudentLevel `json:"difficulty,omitempty"`
	Objectives  []string     `json:"objectives,omitempty"`
	Variables   []string     `json:"variables,omitempty"`
}

// GeneratedArtifact 是文件名到文件内容的映射。
type GeneratedArtifact map[string]string

// AnalyticsSnapshot 是每次请求时重新计算的学习统计。
type AnalyticsSnapshot struct {
	TotalItems       int            `json:"total_items"`
	ItemsByCategory  map[string]int `json:"items_by_category"`
	ItemsByKind      map[string]int `json:"items_by_kind"`
	TotalUserActions int            `json:"total_user_actions"`
	FocusAreas       []string       `json:"focus_areas"`
	Recommendations  []string       `json:"recommendations"`
}

// ProgressExport 是带导出时间的学习统计。
type ProgressExport struct {
	Snapshot   AnalyticsSnapshot `json:"snapshot"`
	ExportedAt time.Time         `json:"exported_at"`
}
