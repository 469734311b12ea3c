package agent

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	xerrors "BizEdu-Agent/internal/errors"
	"BizEdu-Agent/internal/events"
	"BizEdu-Agent/internal/knowledge"
	"BizEdu-Agent/internal/llm"
)

const (
	defaultConceptCategory   = "general"
	defaultCaseStudyCategory = "case-study"
	maxTitleRunes            = 80
)

// digest 是大模型对学习材料的结构化提炼。
type digest struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// LearnConcept 提炼一段商业概念材料并写入知识库。
func (a *Agent) LearnConcept(ctx context.Context, content, category string, learning LearningContext) (_ *KnowledgeItem, err error) {
	defer observe(CapabilityLearnConcept, time.Now(), &err)

	if err := a.ready(); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "学习内容不能为空")
	}
	if err := learning.Validate(); err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = defaultConceptCategory
	}

	reply, err := a.complete(ctx, llm.Request{
		System: tutorSystemPrompt,
		Prompt: conceptPrompt(content, category, learning),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{"current_progress": strconv.Itoa(learning.CurrentProgress)}
	if learning.StudentLevel != "" {
		metadata["student_level"] = string(learning.StudentLevel)
	}
	if len(learning.LearningObjectives) > 0 {
		metadata["learning_objectives"] = strings.Join(learning.LearningObjectives, "; ")
	}

	item := newItem(knowledge.KindConcept, category, content, reply)
	item.FocusArea = strings.TrimSpace(learning.FocusArea)
	item.Metadata = metadata
	if err := a.save(ctx, item); err != nil {
		return nil, err
	}

	a.recordAction(ctx, CapabilityLearnConcept, item.FocusArea, item.ID)
	a.publish(ctx, events.Event{
		Type:      events.TypeConceptLearned,
		ItemID:    item.ID,
		Kind:      string(item.Kind),
		Category:  item.Category,
		FocusArea: item.FocusArea,
	})
	return toKnowledgeItem(item), nil
}

// AddCaseStudy 提炼一个商业案例并写入知识库。
func (a *Agent) AddCaseStudy(ctx context.Context, content string, opts CaseStudyOptions) (_ *KnowledgeItem, err error) {
	defer observe(CapabilityAddCaseStudy, time.Now(), &err)

	if err := a.ready(); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "案例内容不能为空")
	}
	category := strings.TrimSpace(opts.Category)
	if category == "" {
		category = defaultCaseStudyCategory
	}

	reply, err := a.complete(ctx, llm.Request{
		System: tutorSystemPrompt,
		Prompt: caseStudyPrompt(content, opts),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	item := newItem(knowledge.KindCaseStudy, category, content, reply)
	item.FocusArea = strings.TrimSpace(opts.Industry)
	item.Keywords = mergeKeywords(item.Keywords, opts.Tags)
	item.Metadata = map[string]string{}
	if opts.Company != "" {
		item.Metadata["company"] = opts.Company
	}
	if opts.Industry != "" {
		item.Metadata["industry"] = opts.Industry
	}
	if err := a.save(ctx, item); err != nil {
		return nil, err
	}

	a.recordAction(ctx, CapabilityAddCaseStudy, item.FocusArea, item.ID)
	a.publish(ctx, events.Event{
		Type:      events.TypeCaseStudyAdded,
		ItemID:    item.ID,
		Kind:      string(item.Kind),
		Category:  item.Category,
		FocusArea: item.FocusArea,
	})
	return toKnowledgeItem(item), nil
}

// Summarize 检索相关条目，并让大模型基于这些来源生成总结。
func (a *Agent) Summarize(ctx context.Context, query string, opts SummaryOptions) (_ *SummaryResult, err error) {
	defer observe(CapabilitySummarize, time.Now(), &err)

	if err := a.ready(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "总结主题不能为空")
	}
	limit := opts.MaxSources
	if limit <= 0 {
		limit = a.maxSources
	}

	sources, err := a.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, storageError(err, "检索知识条目失败")
	}
	if len(sources) == 0 {
		return nil, xerrors.New(xerrors.CodeNotFound, "知识库中没有与主题相关的内容", xerrors.WithMetadata("query", query))
	}

	summary, err := a.complete(ctx, llm.Request{
		System: tutorSystemPrompt,
		Prompt: summaryPrompt(query, sources),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sources))
	for _, item := range sources {
		ids = append(ids, item.ID)
	}
	a.recordAction(ctx, CapabilitySummarize, "", "")
	a.publish(ctx, events.Event{Type: events.TypeSummaryGenerated})
	return &SummaryResult{Summary: summary, Sources: ids}, nil
}

func (a *Agent) save(ctx context.Context, item *knowledge.Item) error {
	item.CreatedAt = a.now().Unix()
	if err := a.repo.Save(ctx, item); err != nil {
		return storageError(err, "保存知识条目失败")
	}
	return nil
}

// newItem 根据大模型的提炼结果构造条目；结果不是 JSON 时整段回复作为摘要，正文首行作为标题。
func newItem(kind knowledge.Kind, category, content, reply string) *knowledge.Item {
	var parsed digest
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil {
		parsed = digest{Summary: reply}
	}
	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		title = firstLine(content)
	}
	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		summary = reply
	}
	return &knowledge.Item{
		Kind:     kind,
		Category: category,
		Title:    title,
		Content:  content,
		Summary:  summary,
		Keywords: mergeKeywords(nil, parsed.Keywords),
	}
}

func firstLine(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	line = strings.TrimSpace(line)
	if runes := []rune(line); len(runes) > maxTitleRunes {
		line = string(runes[:maxTitleRunes]) + "..."
	}
	return line
}

// mergeKeywords 合并并去重关键词，保持首次出现的顺序。
func mergeKeywords(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	var merged []string
	for _, list := range [][]string{base, extra} {
		for _, keyword := range list {
			keyword = strings.TrimSpace(keyword)
			key := strings.ToLower(keyword)
			if keyword == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, keyword)
		}
	}
	return merged
}
