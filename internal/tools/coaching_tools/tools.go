package coaching_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotkeeper/internal/instrumentation"
	"github.com/teemow/slotkeeper/internal/server"
	"github.com/teemow/slotkeeper/internal/tools/common"
)

// ToolGetAvailability is the coaching availability tool name.
const ToolGetAvailability = "get_availability"

// RegisterCoachingTools registers the coaching calendar tools with the MCP server.
func RegisterCoachingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil || sc.Coaching() == nil {
		return fmt.Errorf("coaching calendar is not configured")
	}

	getAvailabilityTool := mcp.NewTool(ToolGetAvailability,
		mcp.WithDescription("Check coaching session availability for every day in a date range"),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("The first day of the range, in YYYY-MM-DD format"),
		),
		mcp.WithString("end_date",
			mcp.Required(),
			mcp.Description("The last day of the range (inclusive), in YYYY-MM-DD format. A range may cover at most 366 days"),
		),
	)

	s.AddTool(getAvailabilityTool, common.InstrumentedToolHandlerWithTarget(
		ToolGetAvailability, instrumentation.StoreCoaching, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAvailability(ctx, request, sc)
		}))

	return nil
}

func handleGetAvailability(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	startDate, err := common.StringArg(args, "start_date")
	if err != nil {
		return common.TextErrorResult(err), nil
	}
	endDate, err := common.StringArg(args, "end_date")
	if err != nil {
		return common.TextErrorResult(err), nil
	}

	text, err := sc.Coaching().Availability(startDate, endDate)
	if err != nil {
		return common.TextErrorResult(err), nil
	}
	return mcp.NewToolResultText(text), nil
}
