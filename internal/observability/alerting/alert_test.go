package alerting

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	xerrors "BizEdu-Agent/internal/errors"
)

type recordingNotifier struct {
	channel Channel
	events  []Event
	err     error
}

func (r *recordingNotifier) Channel() Channel { return r.channel }

func (r *recordingNotifier) Notify(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestFromErrorUsesRegistry(t *testing.T) {
	err := xerrors.New(xerrors.CodeTimeout, "model timed out", xerrors.WithMetadata("capability", "generate_tool"))
	event := FromError(StageDemonstration, err)

	if event.Code != xerrors.CodeTimeout || event.Severity != xerrors.SeverityWarning {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Stage != StageDemonstration || event.Metadata["capability"] != "generate_tool" {
		t.Fatalf("unexpected stage or metadata: %+v", event)
	}
	if !event.Retryable {
		t.Fatalf("timeouts are retryable by default: %+v", event)
	}
	pinned := FromError(StageDemonstration, xerrors.New(xerrors.CodeTimeout, "model timed out", xerrors.WithRetryable(false)))
	if pinned.Retryable {
		t.Fatalf("explicit retryable override should be carried: %+v", pinned)
	}

	plain := FromError(StageIntegration, errors.New("boom"))
	if plain.Code != xerrors.CodeUnknown || plain.Message != "boom" || plain.Retryable {
		t.Fatalf("unexpected plain event: %+v", plain)
	}
}

func TestFanoutDispatcherJoinsErrors(t *testing.T) {
	ok := &recordingNotifier{channel: "ok"}
	failing := &recordingNotifier{channel: "failing", err: errors.New("unreachable")}
	dispatcher := NewFanout(ok, nil, failing)

	err := dispatcher.Notify(context.Background(), Event{Code: xerrors.CodeUnknown})
	if err == nil || !strings.Contains(err.Error(), "channel failing") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(ok.events) != 1 || len(failing.events) != 1 {
		t.Fatalf("every notifier should receive the event")
	}

	var nilDispatcher *FanoutDispatcher
	if err := nilDispatcher.Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("nil dispatcher should be a no-op: %v", err)
	}
}

func TestLogNotifierWritesAuditRecord(t *testing.T) {
	var buf bytes.Buffer
	notifier := &LogNotifier{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	event := FromError(StageInitialization, xerrors.New(xerrors.CodeInitializationFailure, "agent unavailable"))
	if err := notifier.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"stage":"initialization"`) || !strings.Contains(out, `"code":"INITIALIZATION_FAILURE"`) || !strings.Contains(out, `"retryable":true`) {
		t.Fatalf("unexpected audit output: %s", out)
	}
}
