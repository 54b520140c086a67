package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/slotkeeper/internal/instrumentation"
	"github.com/teemow/slotkeeper/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = mcpserver.ToolHandlerFunc

// InstrumentedToolHandlerWithTarget wraps a tool handler with tracing,
// metrics and audit logging, attributed to the schedule store and operation
// the tool drives. The handler runs inside a schedule.<store>.<operation>
// span that is a child of the tool span.
//
// This handler records both:
//   - MCP tool invocation metrics (mcp_tool_invocations_total, mcp_tool_duration_seconds)
//   - schedule operation metrics (schedule_operations_total, schedule_operation_duration_seconds)
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithTarget("my_tool", "host", "list", sc, handler))
func InstrumentedToolHandlerWithTarget(toolName, store, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		args := request.GetArguments()
		date := primaryDate(args)

		ctx, toolSpan := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithReadOnly(sc.ReadOnly()).
				WithDate(date).
				Build()...)
		defer toolSpan.End()

		handlerCtx, opSpan := instrumentation.StartScheduleSpan(ctx, store, operation,
			instrumentation.NewSpanAttributeBuilder().WithDate(date).Build()...)
		defer opSpan.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithDate(date).
			WithArguments(args).
			WithTarget(store, operation)

		result, err := handler(handlerCtx, request)
		duration := time.Since(start)

		spans := []trace.Span{opSpan, toolSpan}

		status := instrumentation.StatusSuccess
		var kind string
		switch {
		case err != nil:
			status = instrumentation.StatusError
			kind = KindInternal
			invocation.CompleteWithError(err)
			for _, span := range spans {
				instrumentation.SetSpanError(span, err, kind)
			}
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			var message string
			kind, message = ResultErrorKind(result)
			invocation.CompleteWithKind(kind, message)
			for _, span := range spans {
				instrumentation.SetSpanError(span, errors.New(message), kind)
			}
		default:
			invocation.CompleteSuccess()
			for _, span := range spans {
				instrumentation.SetSpanSuccess(span)
			}
		}
		toolSpan.SetAttributes(attribute.String(instrumentation.SpanAttrStatus, status))

		metrics.RecordToolInvocation(ctx, toolName, status, duration)
		metrics.RecordScheduleOperation(ctx, store, operation, status, date, duration)
		auditLogger.LogToolInvocation(invocation)

		return result, err
	}
}

// primaryDate returns the date argument a tool call is about.
func primaryDate(args map[string]interface{}) string {
	for _, name := range []string{"date", "start_date"} {
		if s, ok := args[name].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
