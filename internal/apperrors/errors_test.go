package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPublicMessage_UsesSafeMessage(t *testing.T) {
	sentinel := errors.New("SECRET_VALUE")
	err := New(KindAuth, "safe auth error", sentinel)
	if got := PublicMessage(err); got != "safe auth error" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "safe auth error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped cause to be retained for internal matching")
	}
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("translating to fr: %w", RateLimit(errors.New("boom")))
	kind, ok := KindOf(err)
	if !ok || kind != KindRateLimit {
		t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, KindRateLimit)
	}
	if !Is(err, KindRateLimit) {
		t.Fatalf("expected Is(rate_limit) to hold")
	}
	if Is(err, KindAuth) {
		t.Fatalf("expected Is(auth) to be false")
	}
}

func TestNew_DefaultMessage(t *testing.T) {
	err := Validation(errors.New("count mismatch"))
	if !strings.Contains(err.Error(), "did not match") {
		t.Fatalf("expected default validation message, got %q", err.Error())
	}
}

func TestDetail_IncludesCause(t *testing.T) {
	err := Input(errors.New("unexpected EOF"))
	got := Detail(err)
	if !strings.Contains(got, "Input document") || !strings.Contains(got, "unexpected EOF") {
		t.Fatalf("Detail() = %q", got)
	}
	if Detail(errors.New("plain")) != "plain" {
		t.Fatalf("expected plain error passthrough")
	}
}

func TestPublicMessage_NonAppError(t *testing.T) {
	err := errors.New("plain")
	if got := PublicMessage(err); got != "plain" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "plain")
	}
}
