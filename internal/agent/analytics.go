package agent

import (
	"context"
	"fmt"
	"time"

	xerrors "BizEdu-Agent/internal/errors"
	"BizEdu-Agent/internal/events"
	"BizEdu-Agent/internal/knowledge"
)

var errNoRepository = xerrors.New(xerrors.CodeInitializationFailure, "未配置知识库")

// minCategoriesForBreadth 是认为学习覆盖面足够的最少分类数。
const minCategoriesForBreadth = 3

// Analytics 汇总知识库与用户操作，并给出学习建议。
func (a *Agent) Analytics(ctx context.Context) (_ *AnalyticsSnapshot, err error) {
	defer observe(CapabilityAnalytics, time.Now(), &err)

	if a.repo == nil {
		return nil, errNoRepository
	}
	return a.snapshot(ctx)
}

// ExportProgress 导出当前学习统计并附带导出时间。
func (a *Agent) ExportProgress(ctx context.Context) (_ *ProgressExport, err error) {
	defer observe(CapabilityExportProgress, time.Now(), &err)

	if a.repo == nil {
		return nil, errNoRepository
	}
	snapshot, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	exportedAt := a.now().UTC()
	a.publish(ctx, events.Event{Type: events.TypeProgressExported, OccurredAt: exportedAt.Unix()})
	return &ProgressExport{Snapshot: *snapshot, ExportedAt: exportedAt}, nil
}

func (a *Agent) snapshot(ctx context.Context) (*AnalyticsSnapshot, error) {
	stats, err := a.repo.Stats(ctx)
	if err != nil {
		return nil, storageError(err, "统计知识条目失败")
	}
	actions, err := a.repo.Actions(ctx)
	if err != nil {
		return nil, storageError(err, "统计用户操作失败")
	}

	byKind := make(map[string]int, len(stats.ByKind))
	for kind, count := range stats.ByKind {
		byKind[string(kind)] = count
	}
	byCategory := make(map[string]int, len(stats.ByCategory))
	for category, count := range stats.ByCategory {
		byCategory[category] = count
	}
	focusAreas := append([]string{}, actions.FocusAreas...)

	return &AnalyticsSnapshot{
		TotalItems:       stats.Total,
		ItemsByCategory:  byCategory,
		ItemsByKind:      byKind,
		TotalUserActions: actions.Total,
		FocusAreas:       focusAreas,
		Recommendations:  recommend(stats, focusAreas),
	}, nil
}

// recommend 根据条目分布与关注领域生成建议，结果至少包含一条。
func recommend(stats knowledge.Stats, focusAreas []string) []string {
	if stats.Total == 0 {
		return []string{"Start by learning a core business concept to build your knowledge base."}
	}

	var out []string
	if stats.ByKind[knowledge.KindCaseStudy] == 0 {
		out = append(out, "Add a real-world case study to connect theory with practice.")
	}
	if stats.ByKind[knowledge.KindConcept] == 0 {
		out = append(out, "Learn a foundational concept to complement your case studies.")
	}
	if len(stats.ByCategory) < minCategoriesForBreadth {
		out = append(out, "Explore additional business categories to broaden your perspective.")
	}
	if len(focusAreas) > 0 {
		latest := focusAreas[len(focusAreas)-1]
		out = append(out, fmt.Sprintf("Practise %s with a generated simulation to apply what you learned.", latest))
	}
	if len(out) == 0 {
		out = append(out, "Review your summaries regularly to reinforce what you have learned.")
	}
	return out
}
