package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	ctxlog "github.com/ErlanBelekov/data-drive/internal/log"
	"github.com/ErlanBelekov/data-drive/internal/reqctx"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestContextHandler_AddsRequestIDAndUser(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelInfo)

	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	ctx = reqctx.WithSubject(ctx, "a@x.com")
	logger.InfoContext(ctx, "hello")

	rec := decodeLine(t, &buf)
	if rec["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", rec["request_id"])
	}
	if rec["user"] != "a@x.com" {
		t.Errorf("user = %v, want a@x.com", rec["user"])
	}
}

func TestContextHandler_OmitsAbsentValues(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelInfo)

	logger.InfoContext(context.Background(), "hello")

	rec := decodeLine(t, &buf)
	if _, ok := rec["request_id"]; ok {
		t.Errorf("unexpected request_id in %v", rec)
	}
	if _, ok := rec["user"]; ok {
		t.Errorf("unexpected user in %v", rec)
	}
}

func TestContextHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelWarn)

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
}
