package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teemow/slotkeeper/internal/schedule"
)

// Result status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// KindInternal is reported for failures that are not scheduling errors.
const KindInternal = "Internal"

// Payload holds the tool-specific fields of a structured result. Keys are
// encoded in insertion order after "status" and "message".
type Payload = orderedmap.OrderedMap[string, any]

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return orderedmap.New[string, any]()
}

// SuccessResult encodes {"status":"success","message":...,<payload>}.
func SuccessResult(message string, payload *Payload) *mcp.CallToolResult {
	body := NewPayload()
	body.Set("status", StatusSuccess)
	body.Set("message", message)
	if payload != nil {
		for pair := payload.Oldest(); pair != nil; pair = pair.Next() {
			body.Set(pair.Key, pair.Value)
		}
	}

	text, err := json.Marshal(body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(text))
}

// ErrorResult encodes err as {"status":"error","message":...,"error_kind":...}
// and marks the result as an MCP error.
func ErrorResult(err error) *mcp.CallToolResult {
	kind, message := describeError(err)

	body := NewPayload()
	body.Set("status", StatusError)
	body.Set("message", message)
	body.Set("error_kind", kind)

	text, mErr := json.Marshal(body)
	if mErr != nil {
		return mcp.NewToolResultError(message)
	}
	return mcp.NewToolResultError(string(text))
}

// TextErrorResult reports err as plain text, marked as an MCP error.
func TextErrorResult(err error) *mcp.CallToolResult {
	_, message := describeError(err)
	return mcp.NewToolResultError(message)
}

func describeError(err error) (kind, message string) {
	if err == nil {
		return KindInternal, "unknown error"
	}
	var se *schedule.Error
	if errors.As(err, &se) {
		return string(se.Kind), se.Error()
	}
	return KindInternal, err.Error()
}

// ResultText returns the text of the first text content in result.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}

// ResultErrorKind extracts the error_kind and message from a structured
// error result. Plain text results yield an empty kind and the whole text.
func ResultErrorKind(result *mcp.CallToolResult) (kind, message string) {
	text := ResultText(result)
	var body struct {
		Message   string `json:"message"`
		ErrorKind string `json:"error_kind"`
	}
	if err := json.Unmarshal([]byte(text), &body); err != nil || body.ErrorKind == "" {
		return "", text
	}
	return body.ErrorKind, body.Message
}
