package config

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"bitbucket.org/stepfield/shoes_backend/appctx"
)

func TestLogErrorAttachesCorrelationId(t *testing.T) {
	var buf bytes.Buffer
	logger := GetLogger()
	oldOut := logger.Out
	logger.SetOutput(&buf)
	defer logger.SetOutput(oldOut)

	ctx := appctx.Set(context.Background(), appctx.ContextKeyCorrelationId, "req-123")
	LogError(ctx, logger, "config", "TestLogError", "unit", nil, errors.New("boom"))

	line := buf.String()
	if !strings.Contains(line, `"correlationId":"req-123"`) {
		t.Fatalf("expected correlation id in log line, got %q", line)
	}
	if !strings.Contains(line, "boom") {
		t.Fatalf("expected error message in log line, got %q", line)
	}

	buf.Reset()
	LogError(context.Background(), logger, "config", "TestLogError", "unit", nil, errors.New("boom"))
	if strings.Contains(buf.String(), "correlationId") {
		t.Fatalf("unexpected correlation id without one in ctx: %q", buf.String())
	}
}
