package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotkeeper/internal/instrumentation"
	"github.com/teemow/slotkeeper/internal/server"
)

// Resource URIs.
const (
	HostScheduleURI     = "schedule://host"
	CoachingScheduleURI = "schedule://coaching"
)

// RegisterScheduleResources registers read-only snapshots of the host
// schedule and the coaching calendar.
func RegisterScheduleResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil || sc.Host() == nil || sc.Coaching() == nil {
		return fmt.Errorf("schedule stores are not configured")
	}

	hostResource := mcp.NewResource(
		HostScheduleURI,
		"Host Schedule",
		mcp.WithResourceDescription("Every scheduled date of the host with its slots and statuses, in schedule order"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(hostResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return snapshot(ctx, request, sc, instrumentation.StoreHost, func() any {
			return sc.Host().Snapshot()
		})
	})

	coachingResource := mcp.NewResource(
		CoachingScheduleURI,
		"Coaching Calendar",
		mcp.WithResourceDescription("Open coaching slots for each generated day"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(coachingResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return snapshot(ctx, request, sc, instrumentation.StoreCoaching, func() any {
			return sc.Coaching().Snapshot()
		})
	})

	return nil
}

// snapshot encodes the value returned by read as the resource contents.
func snapshot(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext, store string, read func() any) ([]mcp.ResourceContents, error) {
	ctx, span := instrumentation.StartScheduleSpan(ctx, store, instrumentation.OperationSnapshot)
	defer span.End()
	start := time.Now()

	jsonData, err := json.MarshalIndent(read(), "", "  ")
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err, "")
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	sc.Metrics().RecordScheduleOperation(ctx, store, instrumentation.OperationSnapshot, status, "", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s schedule: %w", store, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
