package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCauseAndCode(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeStorageFailure, cause, "保存知识条目失败")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped error to match cause")
	}
	if !stdErrors.Is(err, New(CodeStorageFailure, "")) {
		t.Fatalf("expected errors.Is to match by code")
	}
	if stdErrors.Is(err, New(CodeTimeout, "")) {
		t.Fatalf("did not expect match against different code")
	}

	outer := fmt.Errorf("demo step: %w", err)
	if got := CodeOf(outer); got != CodeStorageFailure {
		t.Fatalf("unexpected code: %s", got)
	}
	if !RetryableError(outer) {
		t.Fatalf("storage failure should be retryable by default")
	}
	if SeverityOf(outer) != SeverityCritical {
		t.Fatalf("unexpected severity: %s", SeverityOf(outer))
	}
}

func TestNewDefaultsMessageFromRegistry(t *testing.T) {
	err := New(CodeMalformedResponse, "")
	if err.Message() != "malformed model response" {
		t.Fatalf("unexpected message: %q", err.Message())
	}
	if err.Error() != "[MALFORMED_RESPONSE] malformed model response" {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	err := New(CodeTimeout, "llm timeout", WithRetryable(false), WithMetadata("capability", "summarize"))
	if err.Retryable() {
		t.Fatalf("expected retryable override to win")
	}
	if err.Metadata()["capability"] != "summarize" {
		t.Fatalf("metadata missing: %+v", err.Metadata())
	}
}

func TestUnknownErrors(t *testing.T) {
	plain := stdErrors.New("boom")
	if CodeOf(plain) != CodeUnknown {
		t.Fatalf("plain errors should map to UNKNOWN")
	}
	if RetryableError(plain) {
		t.Fatalf("plain errors are not retryable")
	}
	if !ShouldAlert(plain) {
		t.Fatalf("unknown errors should alert")
	}
	if ShouldAlert(nil) {
		t.Fatalf("nil error must not alert")
	}
}

func TestRegisterCustomCode(t *testing.T) {
	const code Code = "QUOTA_EXCEEDED"
	Register(code, Attributes{Message: "quota exceeded", Severity: SeverityWarning, Retryable: true})
	attr := AttributesOf(code)
	if attr.Message != "quota exceeded" || !attr.Retryable {
		t.Fatalf("unexpected attributes: %+v", attr)
	}
}
