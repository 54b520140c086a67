package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/teemow/slotkeeper/internal/instrumentation"
	"github.com/teemow/slotkeeper/internal/schedule"
	"github.com/teemow/slotkeeper/internal/server"
)

type instrumentedFixture struct {
	sc     *server.ServerContext
	reader *sdkmetric.ManualReader
	spans  *tracetest.SpanRecorder
	audit  *bytes.Buffer
}

func newInstrumentedFixture(t *testing.T) *instrumentedFixture {
	t.Helper()

	sc, err := server.NewServerContext(context.Background(), server.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"), true)
	require.NoError(t, err)
	sc.SetMetrics(metrics)

	audit := &bytes.Buffer{}
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(audit, nil))))

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	return &instrumentedFixture{sc: sc, reader: reader, spans: sr, audit: audit}
}

func (f *instrumentedFixture) auditEntries(t *testing.T) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(f.audit.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func (f *instrumentedFixture) counter(t *testing.T, name string) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				var parts []string
				for _, kv := range dp.Attributes.ToSlice() {
					parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
				}
				out[strings.Join(parts, ",")] += dp.Value
			}
		}
	}
	return out
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandlerWithTarget_Success(t *testing.T) {
	f := newInstrumentedFixture(t)

	called := false
	wrapped := InstrumentedToolHandlerWithTarget("get_availability", instrumentation.StoreCoaching, instrumentation.OperationQuery, f.sc,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			called = true
			return mcp.NewToolResultText("No coaching sessions available on 2025-06-13."), nil
		})

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"start_date": "2025-06-13"}))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, called)

	assert.Equal(t, map[string]int64{"status=success,tool=get_availability": 1},
		f.counter(t, "mcp_tool_invocations_total"))
	assert.Equal(t, map[string]int64{"date=2025-06-13,operation=query,status=success,store=coaching": 1},
		f.counter(t, "schedule_operations_total"))

	ended := f.spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "schedule.coaching.query", ended[0].Name())
	assert.Equal(t, "tool.get_availability", ended[1].Name())
	for _, span := range ended {
		assert.Equal(t, codes.Ok, span.Status().Code)
	}

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "tool_executed", entries[0]["msg"])
	assert.Equal(t, "get_availability", entries[0]["tool"])
	assert.Equal(t, "2025-06-13", entries[0]["date"])
	assert.Equal(t, "coaching", entries[0]["store"])
	assert.NotEmpty(t, entries[0]["trace_id"])
}

func TestInstrumentedToolHandlerWithTarget_ScheduleError(t *testing.T) {
	f := newInstrumentedFixture(t)

	wrapped := InstrumentedToolHandlerWithTarget("book_host_meeting", instrumentation.StoreHost, instrumentation.OperationBook, f.sc,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return ErrorResult(schedule.Errorf(schedule.KindSlotConflict, "The time slot 09:00 on 2025-06-13 is already booked for Team Standup.")), nil
		})

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"date": "2025-06-13"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	assert.Equal(t, map[string]int64{"status=error,tool=book_host_meeting": 1},
		f.counter(t, "mcp_tool_invocations_total"))
	assert.Equal(t, map[string]int64{"date=2025-06-13,operation=book,status=error,store=host": 1},
		f.counter(t, "schedule_operations_total"))

	ended := f.spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "schedule.host.book", ended[0].Name())
	assert.Equal(t, "tool.book_host_meeting", ended[1].Name())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
	for _, span := range ended {
		assert.Equal(t, codes.Error, span.Status().Code)
	}

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "tool_failed", entries[0]["msg"])
	assert.Equal(t, "SlotConflict", entries[0]["error_kind"])
	assert.Equal(t, "host", entries[0]["store"])
	assert.Equal(t, "book", entries[0]["operation"])
}

func TestInstrumentedToolHandlerWithTarget_GoError(t *testing.T) {
	f := newInstrumentedFixture(t)

	expectedErr := errors.New("test error")
	wrapped := InstrumentedToolHandlerWithTarget("list_host_availability", instrumentation.StoreHost, instrumentation.OperationList, f.sc,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, expectedErr
		})

	_, err := wrapped(context.Background(), callRequest(nil))
	assert.Same(t, expectedErr, err)

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "test error", entries[0]["error"])
}

func TestInstrumentedToolHandlerWithTarget_NoInstrumentation(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), server.Options{})
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	wrapped := InstrumentedToolHandlerWithTarget("list_host_availability", instrumentation.StoreHost, instrumentation.OperationList, sc,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return SuccessResult("ok", nil), nil
		})

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"date": "2025-06-13"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestPrimaryDate(t *testing.T) {
	assert.Equal(t, "2025-06-13", primaryDate(map[string]interface{}{"date": "2025-06-13", "start_date": "2025-06-14"}))
	assert.Equal(t, "2025-06-14", primaryDate(map[string]interface{}{"start_date": "2025-06-14"}))
	assert.Empty(t, primaryDate(map[string]interface{}{"date": 3}))
	assert.Empty(t, primaryDate(nil))
}
