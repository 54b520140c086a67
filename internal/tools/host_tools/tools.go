package host_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/slotkeeper/internal/host"
	"github.com/teemow/slotkeeper/internal/instrumentation"
	"github.com/teemow/slotkeeper/internal/server"
	"github.com/teemow/slotkeeper/internal/tools/common"
)

// Tool names.
const (
	ToolListAvailability   = "list_host_availability"
	ToolBookMeeting        = "book_host_meeting"
	ToolManageAvailability = "manage_host_availability"
)

// RegisterHostTools registers the host schedule tools with the MCP server.
// The mutating tools are skipped when readOnly is set.
func RegisterHostTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if sc == nil || sc.Host() == nil {
		return fmt.Errorf("host schedule is not configured")
	}

	s.AddTool(listAvailabilityTool(), common.InstrumentedToolHandlerWithTarget(
		ToolListAvailability, instrumentation.StoreHost, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListAvailability(ctx, request, sc)
		}))

	// Only register write tools if not in read-only mode
	if readOnly {
		return nil
	}

	s.AddTool(bookMeetingTool(), common.InstrumentedToolHandlerWithTarget(
		ToolBookMeeting, instrumentation.StoreHost, instrumentation.OperationBook, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBookMeeting(ctx, request, sc)
		}))

	s.AddTool(manageAvailabilityTool(), common.InstrumentedToolHandlerWithTarget(
		ToolManageAvailability, instrumentation.StoreHost, instrumentation.OperationManage, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleManageAvailability(ctx, request, sc)
		}))

	return nil
}

func listAvailabilityTool() mcp.Tool {
	return mcp.NewTool(ToolListAvailability,
		mcp.WithDescription("List the host's available and booked time slots for a date"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("The date to check, in YYYY-MM-DD format"),
		),
	)
}

func bookMeetingTool() mcp.Tool {
	return mcp.NewTool(ToolBookMeeting,
		mcp.WithDescription("Book a meeting with the host. Every hourly slot from start_time up to end_time must be free."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("The date of the meeting, in YYYY-MM-DD format"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("The start time of the meeting, in HH:MM format"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("The end time of the meeting, in HH:MM format (exclusive)"),
		),
		mcp.WithString("meeting_name",
			mcp.Required(),
			mcp.Description("The name or description of the meeting"),
		),
	)
}

func manageAvailabilityTool() mcp.Tool {
	return mcp.NewTool(ToolManageAvailability,
		mcp.WithDescription("Manage the host's availability: update slots on an existing date or add a new date"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("The date to manage, in YYYY-MM-DD format"),
		),
		mcp.WithObject("time_slots",
			mcp.Required(),
			mcp.Description(`Time slots to write, e.g. {"10:00": "available", "14:00": "Client Call"}. Keys are HH:MM; values are "available" or a meeting name.`),
		),
		mcp.WithString("action",
			mcp.Description("'update' (default) modifies an existing date, 'add' creates a new date"),
			mcp.Enum(string(host.ActionUpdate), string(host.ActionAdd)),
			mcp.DefaultString(string(host.ActionUpdate)),
		),
	)
}

func handleListAvailability(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	date, err := common.StringArg(request.GetArguments(), "date")
	if err != nil {
		return common.ErrorResult(err), nil
	}

	availability, err := sc.Host().ListAvailability(date)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	payload := common.NewPayload()
	if !availability.Scheduled {
		payload.Set("schedule", host.NewSlots())
	} else {
		payload.Set("available_slots", availability.AvailableSlots)
		payload.Set("booked_slots", availability.BookedSlots)
	}
	return common.SuccessResult(availability.Message(), payload), nil
}

func handleBookMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var req host.BookingRequest
	for _, field := range []struct {
		name string
		dst  *string
	}{
		{"date", &req.Date},
		{"start_time", &req.StartTime},
		{"end_time", &req.EndTime},
		{"meeting_name", &req.MeetingName},
	} {
		value, err := common.StringArg(args, field.name)
		if err != nil {
			return common.ErrorResult(err), nil
		}
		*field.dst = value
	}

	booking, err := sc.Host().Book(req)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	trace.SpanFromContext(ctx).SetAttributes(
		instrumentation.NewSpanAttributeBuilder().WithSlotCount(len(booking.Slots)).Build()...)
	sc.Metrics().RecordSlotsBooked(ctx, len(booking.Slots))

	payload := common.NewPayload()
	payload.Set("booked_slots", booking.Slots)
	return common.SuccessResult(booking.Message(), payload), nil
}

func handleManageAvailability(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	date, err := common.StringArg(args, "date")
	if err != nil {
		return common.ErrorResult(err), nil
	}
	slots, err := common.StringMapArg(args, "time_slots")
	if err != nil {
		return common.ErrorResult(err), nil
	}
	action, err := common.StringArgDefault(args, "action", string(host.ActionUpdate))
	if err != nil {
		return common.ErrorResult(err), nil
	}

	result, err := sc.Host().Manage(host.ManageRequest{
		Date:   date,
		Slots:  slots,
		Action: host.Action(action),
	})
	if err != nil {
		return common.ErrorResult(err), nil
	}

	trace.SpanFromContext(ctx).SetAttributes(
		instrumentation.NewSpanAttributeBuilder().WithSlotCount(result.Count).Build()...)
	return common.SuccessResult(result.Message(), nil), nil
}
