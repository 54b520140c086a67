package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToolBook   = "book_host_meeting"
	testToolList   = "list_host_availability"
	testDate       = "2025-06-13"
	testMeetingArg = "Quarterly Review"
)

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNewToolInvocation(t *testing.T) {
	ti := NewToolInvocation(testToolBook)

	assert.Equal(t, testToolBook, ti.Tool)
	assert.False(t, ti.StartTime.IsZero())
	_, err := uuid.Parse(ti.ID)
	assert.NoError(t, err, "ID must be a UUID")

	other := NewToolInvocation(testToolBook)
	assert.NotEqual(t, ti.ID, other.ID)
}

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation(testToolList).CompleteSuccess()
	assert.True(t, ti.Success)
	assert.Equal(t, StatusSuccess, ti.Status())
	assert.GreaterOrEqual(t, int64(ti.Duration), int64(0))
	assert.Empty(t, ti.Error)

	ti = NewToolInvocation(testToolList).CompleteWithError(errors.New("boom"))
	assert.False(t, ti.Success)
	assert.Equal(t, StatusError, ti.Status())
	assert.Equal(t, "boom", ti.Error)

	ti = NewToolInvocation(testToolBook).CompleteWithKind("SlotConflict", "already booked")
	assert.False(t, ti.Success)
	assert.Equal(t, "SlotConflict", ti.ErrorKind)
	assert.Equal(t, "already booked", ti.Error)
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolBook).
		WithTarget(StoreHost, OperationBook).
		WithDate(testDate).
		WithArguments(map[string]interface{}{"meeting_name": testMeetingArg}).
		CompleteWithKind("SlotConflict", "already booked")
	ti.TraceID = "trace"
	ti.SpanID = "span"

	got := map[string]string{}
	for _, attr := range ti.LogAttrs() {
		got[attr.Key] = attr.Value.String()
	}

	assert.Equal(t, ti.ID, got["invocation_id"])
	assert.Equal(t, testToolBook, got["tool"])
	assert.Equal(t, StoreHost, got["store"])
	assert.Equal(t, OperationBook, got["operation"])
	assert.Equal(t, testDate, got["date"])
	assert.Equal(t, "trace", got["trace_id"])
	assert.Equal(t, "span", got["span_id"])
	assert.Equal(t, "SlotConflict", got["error_kind"])
	assert.Equal(t, "already booked", got["error"])
	assert.NotContains(t, got, "arguments")
}

func TestToolInvocation_LogAttrs_MinimalFields(t *testing.T) {
	ti := NewToolInvocation(testToolList).CompleteSuccess()

	keys := map[string]bool{}
	for _, attr := range ti.LogAttrs() {
		keys[attr.Key] = true
	}
	assert.Equal(t, map[string]bool{"invocation_id": true, "tool": true, "duration": true, "success": true}, keys)
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolBook).
		WithArguments(map[string]interface{}{"meeting_name": testMeetingArg}).
		CompleteSuccess()

	attrs := ti.LogAuditAttrs()
	last := attrs[len(attrs)-1]
	assert.Equal(t, "arguments", last.Key)

	// no arguments means no attribute
	bare := NewToolInvocation(testToolBook).CompleteSuccess()
	assert.Len(t, bare.LogAuditAttrs(), len(bare.LogAttrs()))
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation(testToolList).WithSpanContext(context.Background())
	assert.Empty(t, ti.TraceID)
	assert.Empty(t, ti.SpanID)
}

func TestToolInvocation_WithSpanContext(t *testing.T) {
	useSpanRecorder(t)

	ctx, span := StartToolSpan(context.Background(), testToolList)
	defer span.End()

	ti := NewToolInvocation(testToolList).WithSpanContext(ctx)
	assert.Equal(t, GetTraceID(ctx), ti.TraceID)
	assert.Equal(t, GetSpanID(ctx), ti.SpanID)
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(newJSONLogger(&buf))

	al.LogToolInvocation(NewToolInvocation(testToolList).WithDate(testDate).CompleteSuccess())
	al.LogToolInvocation(NewToolInvocation(testToolBook).CompleteWithKind("MissingName", "no name"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "tool_executed", entries[0]["msg"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, testDate, entries[0]["date"])

	assert.Equal(t, "tool_failed", entries[1]["msg"])
	assert.Equal(t, "WARN", entries[1]["level"])
	assert.Equal(t, "MissingName", entries[1]["error_kind"])
}

func TestAuditLogger_IncludeArguments(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(newJSONLogger(&buf), AuditLoggingConfig{Enabled: true})

	ti := NewToolInvocation(testToolBook).
		WithArguments(map[string]interface{}{"meeting_name": testMeetingArg}).
		CompleteSuccess()

	al.LogToolInvocation(ti)
	assert.NotContains(t, buf.String(), testMeetingArg)

	buf.Reset()
	al.SetIncludeArguments(true)
	al.LogToolInvocation(ti)
	assert.Contains(t, buf.String(), testMeetingArg)
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(newJSONLogger(&buf), AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation(testToolList).CompleteSuccess())
	assert.Empty(t, buf.String())

	al.SetEnabled(true)
	al.LogToolInvocation(NewToolInvocation(testToolList).CompleteSuccess())
	assert.NotEmpty(t, buf.String())
}

func TestAuditLogger_Nil(t *testing.T) {
	var al *AuditLogger
	al.LogToolInvocation(NewToolInvocation(testToolList).CompleteSuccess())

	assert.NotNil(t, NewAuditLogger(nil))
}
