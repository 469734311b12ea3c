package alerting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	xerrors "BizEdu-Agent/internal/errors"
	"BizEdu-Agent/pkg/logger"
)

// Channel 表示通知渠道。
type Channel string

// ChannelAudit 将告警写入审计日志。
const ChannelAudit Channel = "audit"

// Stage 标识告警发生在演示流程的哪个阶段。
type Stage string

const (
	StageInitialization Stage = "initialization"
	StageIntegration    Stage = "integration"
	StageDemonstration  Stage = "demonstration"
)

// Event 描述一次需要告警的事件。
type Event struct {
	Code       xerrors.Code
	Message    string
	Severity   xerrors.Severity
	Stage      Stage
	Retryable  bool
	Metadata   map[string]string
	OccurredAt time.Time
}

// FromError 将错误转换为告警事件，错误码与严重程度取自统一错误注册表。
func FromError(stage Stage, err error) Event {
	event := Event{
		Code:       xerrors.CodeOf(err),
		Severity:   xerrors.SeverityOf(err),
		Stage:      stage,
		Retryable:  xerrors.RetryableError(err),
		OccurredAt: time.Now(),
	}
	if err != nil {
		event.Message = err.Error()
	}
	if e, ok := xerrors.From(err); ok {
		event.Metadata = e.Metadata()
	}
	return event
}

// Notifier 负责将事件发送到指定渠道。
type Notifier interface {
	Channel() Channel
	Notify(ctx context.Context, event Event) error
}

// Dispatcher 将事件广播给多个通知器。
type Dispatcher interface {
	Notify(ctx context.Context, event Event) error
}

// FanoutDispatcher 实现将事件投递到多个通知器的逻辑。
type FanoutDispatcher struct {
	notifiers map[Channel]Notifier
}

// NewFanout 创建一个新的 FanoutDispatcher，同一渠道只保留最后注册的通知器。
func NewFanout(notifiers ...Notifier) *FanoutDispatcher {
	set := make(map[Channel]Notifier, len(notifiers))
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		set[n.Channel()] = n
	}
	return &FanoutDispatcher{notifiers: set}
}

// Notify 将事件广播至所有注册渠道。
func (d *FanoutDispatcher) Notify(ctx context.Context, event Event) error {
	if d == nil {
		return nil
	}
	channels := make([]string, 0, len(d.notifiers))
	for channel := range d.notifiers {
		channels = append(channels, string(channel))
	}
	sort.Strings(channels)

	var errs []error
	for _, channel := range channels {
		notifier := d.notifiers[Channel(channel)]
		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("channel %s: %w", channel, err))
		}
	}
	return errors.Join(errs...)
}

// LogNotifier 将告警写入审计日志，未提供日志器时使用全局审计日志。
type LogNotifier struct {
	Logger *slog.Logger
}

// Channel 返回审计渠道。
func (n *LogNotifier) Channel() Channel { return ChannelAudit }

// Notify 记录告警。
func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	log := logger.Audit()
	if n != nil && n.Logger != nil {
		log = n.Logger
	}
	attrs := []any{
		slog.String("code", string(event.Code)),
		slog.String("severity", string(event.Severity)),
		slog.String("stage", string(event.Stage)),
		slog.Bool("retryable", event.Retryable),
		slog.Time("occurred_at", event.OccurredAt),
	}
	for key, value := range event.Metadata {
		attrs = append(attrs, slog.String("meta."+key, value))
	}
	log.WarnContext(ctx, event.Message, attrs...)
	return nil
}
