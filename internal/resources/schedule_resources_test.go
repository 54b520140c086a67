package resources

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/slotkeeper/internal/coaching"
	"github.com/teemow/slotkeeper/internal/host"
	"github.com/teemow/slotkeeper/internal/server"
)

func newServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	days, err := host.ParseSeed([]byte("\"2025-06-13\":\n  \"10:00\": available\n  \"09:00\": Standup\n"))
	require.NoError(t, err)

	calendar, err := coaching.Generate(coaching.Options{
		Days: 2,
		Rand: rand.New(rand.NewPCG(1, 2)),
		Now:  func() time.Time { return time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	sc, err := server.NewServerContext(context.Background(), server.Options{
		Host:     host.NewStore(host.WithDays(days)),
		Coaching: calendar,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func readResource(t *testing.T, sc *server.ServerContext, uri string) *mcp.TextResourceContents {
	t.Helper()
	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithResourceCapabilities(false, false))
	require.NoError(t, RegisterScheduleResources(s, sc))

	msg := `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"` + uri + `"}}`
	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Contents []mcp.TextResourceContents `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	require.Len(t, decoded.Result.Contents, 1, string(raw))
	return &decoded.Result.Contents[0]
}

func TestHostScheduleResource(t *testing.T) {
	sc := newServerContext(t)

	contents := readResource(t, sc, HostScheduleURI)
	assert.Equal(t, HostScheduleURI, contents.URI)
	assert.Equal(t, "application/json", contents.MIMEType)

	// Slot order follows the seed, not the clock.
	assert.Equal(t, "{\n  \"2025-06-13\": {\n    \"10:00\": \"available\",\n    \"09:00\": \"Standup\"\n  }\n}", contents.Text)
}

func TestCoachingScheduleResource(t *testing.T) {
	sc := newServerContext(t)

	contents := readResource(t, sc, CoachingScheduleURI)
	var days []coaching.Day
	require.NoError(t, json.Unmarshal([]byte(contents.Text), &days))
	assert.Equal(t, sc.Coaching().Snapshot(), days)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-06-13", days[0].Date)
}

func TestRegisterScheduleResources_NotConfigured(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "1.0.0")
	assert.Error(t, RegisterScheduleResources(s, nil))
}
