package agent

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	xerrors "BizEdu-Agent/internal/errors"
	"BizEdu-Agent/internal/events"
	"BizEdu-Agent/internal/knowledge"
	"BizEdu-Agent/internal/llm"
	"BizEdu-Agent/internal/observability/metrics"
	"BizEdu-Agent/pkg/logger"
)

// defaultMaxSources 是知识总结时默认参考的条目数量。
const defaultMaxSources = 5

// Agent 基于大模型、知识库与学习事件实现 Capabilities。
type Agent struct {
	llmClient  llm.Client
	repo       knowledge.Repository
	publisher  events.Publisher
	llmTimeout time.Duration
	maxSources int
	now        func() time.Time
	log        *slog.Logger
}

// Option 定义可选的 Agent 配置。
type Option func(*Agent)

// WithLLMTimeout 设置单次调用大模型的超时时间，<=0 表示不限制。
func WithLLMTimeout(timeout time.Duration) Option {
	return func(a *Agent) {
		if timeout <= 0 {
			a.llmTimeout = 0
			return
		}
		a.llmTimeout = timeout
	}
}

// WithPublisher 配置学习事件发布器。
func WithPublisher(publisher events.Publisher) Option {
	return func(a *Agent) {
		a.publisher = publisher
	}
}

// WithMaxSources 设置知识总结默认参考的条目数量。
func WithMaxSources(n int) Option {
	return func(a *Agent) {
		a.maxSources = n
	}
}

// WithClock 替换时间来源。
func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		if now != nil {
			a.now = now
		}
	}
}

// New 创建一个 Agent。
func New(llmClient llm.Client, repo knowledge.Repository, opts ...Option) *Agent {
	ag := &Agent{
		llmClient:  llmClient,
		repo:       repo,
		maxSources: defaultMaxSources,
		now:        time.Now,
		log:        logger.Named("agent"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ag)
		}
	}
	if ag.maxSources <= 0 {
		ag.maxSources = defaultMaxSources
	}
	return ag
}

func (a *Agent) ready() error {
	if a.llmClient == nil {
		return xerrors.New(xerrors.CodeInitializationFailure, "未配置大模型客户端")
	}
	if a.repo == nil {
		return errNoRepository
	}
	return nil
}

// complete 调用大模型并返回去除首尾空白的文本。
func (a *Agent) complete(ctx context.Context, req llm.Request) (string, error) {
	llmCtx := ctx
	if a.llmTimeout > 0 {
		var cancel context.CancelFunc
		llmCtx, cancel = context.WithTimeout(ctx, a.llmTimeout)
		defer cancel()
	}

	resp, err := a.llmClient.Complete(llmCtx, req)
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) {
			return "", xerrors.Wrap(xerrors.CodeTimeout, err, "大模型调用超时")
		}
		return "", xerrors.Wrap(xerrors.CodeGenerationFailure, err, "调用大模型失败")
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", xerrors.New(xerrors.CodeGenerationFailure, "大模型返回内容为空")
	}
	return strings.TrimSpace(resp.Content), nil
}

// recordAction 记录用户操作，失败只记录日志。
func (a *Agent) recordAction(ctx context.Context, name, focus, itemID string) {
	err := a.repo.RecordAction(ctx, knowledge.Action{
		Name:      name,
		FocusArea: focus,
		ItemID:    itemID,
		CreatedAt: a.now().Unix(),
	})
	if err != nil {
		a.log.Warn("记录用户操作失败", slog.String("action", name), slog.String("error", err.Error()))
	}
}

// publish 投递学习事件，失败只记录日志。
func (a *Agent) publish(ctx context.Context, event events.Event) {
	if a.publisher == nil {
		return
	}
	if event.OccurredAt == 0 {
		event.OccurredAt = a.now().Unix()
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.log.Warn("发布学习事件失败",
			slog.String("type", string(event.Type)),
			slog.String("error", xerrors.Wrap(xerrors.CodePublishFailure, err, "发布学习事件失败").Error()))
	}
}

// observe 上报能力调用的耗时与结果。
func observe(capability string, started time.Time, err *error) {
	metrics.ObserveCapability(capability, *err, time.Since(started))
}

// storageError 保留已分类的存储错误，其余统一归为 STORAGE_FAILURE。
func storageError(err error, message string) error {
	if _, ok := xerrors.From(err); ok {
		return err
	}
	return xerrors.Wrap(xerrors.CodeStorageFailure, err, message)
}

func toKnowledgeItem(item *knowledge.Item) *KnowledgeItem {
	return &KnowledgeItem{
		ID:        item.ID,
		Kind:      string(item.Kind),
		Category:  item.Category,
		Title:     item.Title,
		Summary:   item.Summary,
		Keywords:  append([]string(nil), item.Keywords...),
		CreatedAt: time.Unix(item.CreatedAt, 0).UTC(),
	}
}

var _ Capabilities = (*Agent)(nil)
