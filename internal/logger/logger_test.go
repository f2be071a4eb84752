package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithRequestID_And_RequestIDFromContext(t *testing.T) {
	ctx := context.Background()
	requestID := "req-12345"

	// Initially empty
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext() on empty ctx = %v, want empty", got)
	}

	// After setting
	ctx = WithRequestID(ctx, requestID)
	if got := RequestIDFromContext(ctx); got != requestID {
		t.Errorf("RequestIDFromContext() = %v, want %v", got, requestID)
	}
}

func TestWithActorID_And_ActorIDFromContext(t *testing.T) {
	ctx := context.Background()
	actorID := "11111111-1111-1111-1111-111111111111"

	if got := ActorIDFromContext(ctx); got != "" {
		t.Errorf("ActorIDFromContext() on empty ctx = %v, want empty", got)
	}

	ctx = WithActorID(ctx, actorID)
	if got := ActorIDFromContext(ctx); got != actorID {
		t.Errorf("ActorIDFromContext() = %v, want %v", got, actorID)
	}
}

func TestFromContext_AttachesContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithRequestID(context.Background(), "req-67890")
	ctx = WithActorID(ctx, "22222222-2222-2222-2222-222222222222")

	FromContext(ctx, base).Info("submitted task")

	out := buf.String()
	if !strings.Contains(out, "req-67890") {
		t.Errorf("expected request_id in log line, got %s", out)
	}
	if !strings.Contains(out, "22222222-2222-2222-2222-222222222222") {
		t.Errorf("expected actor_id in log line, got %s", out)
	}
}

func TestFromContext_EmptyContextReturnsBase(t *testing.T) {
	base := New()
	if got := FromContext(context.Background(), base); got != base {
		t.Error("expected the base logger back for an empty context")
	}
}

func TestNew_ReturnsLogger(t *testing.T) {
	if New() == nil {
		t.Error("New() returned nil")
	}
}
