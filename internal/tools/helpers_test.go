package tools

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/HendryAvila/storybeat/internal/config"
	"github.com/HendryAvila/storybeat/internal/history"
	"github.com/HendryAvila/storybeat/internal/narrative"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestStore creates a history.Store in a temp directory for testing.
func newTestStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.New(history.Config{DataDir: t.TempDir(), MaxResults: 20})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testLimits() config.Limits {
	return config.DefaultLimits()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// sceneArgs builds n scenes the way a host sends them: decoded JSON.
func sceneArgs(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{
			"id":          float64(i + 1),
			"title":       fmt.Sprintf("Scene %d", i+1),
			"description": "Something happens.",
			"characters":  []any{"Ana"},
		}
	}
	return out
}

// jsonPayload returns the fenced JSON block of a tool response.
func jsonPayload(t *testing.T, text string) string {
	t.Helper()
	start := strings.Index(text, "```json\n")
	end := strings.LastIndex(text, "\n```")
	if start < 0 || end <= start {
		t.Fatalf("no JSON block in:\n%s", text)
	}
	return text[start+len("```json\n") : end]
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func TestIntArg(t *testing.T) {
	req := makeReq(map[string]interface{}{"limit": float64(7), "bad": "x"})
	if got := intArg(req, "limit", 1); got != 7 {
		t.Errorf("intArg(limit) = %d, want 7", got)
	}
	if got := intArg(req, "bad", 3); got != 3 {
		t.Errorf("intArg(bad) = %d, want default 3", got)
	}
	if got := intArg(req, "missing", 5); got != 5 {
		t.Errorf("intArg(missing) = %d, want default 5", got)
	}
}

func TestBoolArg(t *testing.T) {
	req := makeReq(map[string]interface{}{"clear": true, "bad": "yes"})
	if !boolArg(req, "clear", false) {
		t.Error("boolArg(clear) = false, want true")
	}
	if boolArg(req, "bad", false) {
		t.Error("non-bool value should fall back to the default")
	}
}

func TestDecodeScenes(t *testing.T) {
	fromArray, err := decodeScenes(sceneArgs(2))
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	fromString, err := decodeScenes(`[{"id":1,"characters":["Ana"]},{"id":2}]`)
	if err != nil {
		t.Fatalf("string: %v", err)
	}
	if len(fromArray) != 2 || len(fromString) != 2 {
		t.Errorf("lens = %d, %d, want 2, 2", len(fromArray), len(fromString))
	}

	for _, bad := range []any{map[string]any{}, "not json", `{"id":1}`, nil, float64(3)} {
		if _, err := decodeScenes(bad); !narrative.IsValidation(err) {
			t.Errorf("decodeScenes(%#v) error = %v, want validation error", bad, err)
		}
	}
}

func TestJSONBlock(t *testing.T) {
	block, err := jsonBlock(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("jsonBlock() error: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal([]byte(jsonPayload(t, block)), &decoded); err != nil {
		t.Fatalf("block is not valid JSON: %v", err)
	}
	if decoded["a"] != 1 {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestFormatIDs(t *testing.T) {
	if got := formatIDs(nil); got != "none" {
		t.Errorf("formatIDs(nil) = %q, want none", got)
	}
	if got := formatIDs([]int{8, 9, 10}); got != "8, 9, 10" {
		t.Errorf("formatIDs = %q", got)
	}
}
