package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/HendryAvila/storybeat/internal/narrative"
)

func TestAnalyzeTool_Definition(t *testing.T) {
	tool := NewAnalyzeTool(testLimits(), nil, discardLogger())
	def := tool.Definition()

	if def.Name != "story_analyze" {
		t.Errorf("tool name = %q, want %q", def.Name, "story_analyze")
	}
	props := def.InputSchema.Properties
	for _, p := range []string{"action", "scenes", "story_id", "detail_level"} {
		if _, ok := props[p]; !ok {
			t.Errorf("missing %q parameter", p)
		}
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "scenes" {
		t.Errorf("required = %v, want [scenes]", def.InputSchema.Required)
	}
}

func TestAnalyzeTool_DefaultsToFullAnalysis(t *testing.T) {
	tool := NewAnalyzeTool(testLimits(), nil, discardLogger())
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"scenes": sceneArgs(10),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}

	text := resultText(result)
	for _, want := range []string{
		"## Story Analysis: full_analysis",
		"**Scenes**: 10",
		"**Emotional peaks**: 7, 8, 9",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("response missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "History") {
		t.Error("no history line expected without a store")
	}

	var got narrative.FullAnalysis
	if err := json.Unmarshal([]byte(jsonPayload(t, text)), &got); err != nil {
		t.Fatalf("payload is not a full analysis: %v", err)
	}
	if len(got.TensionCurve) != 10 {
		t.Errorf("tension points = %d, want 10", len(got.TensionCurve))
	}
	if got.Arc.Beats.Hook == nil || *got.Arc.Beats.Hook != 1 {
		t.Errorf("hook = %v, want 1", got.Arc.Beats.Hook)
	}
}

func TestAnalyzeTool_Actions(t *testing.T) {
	tool := NewAnalyzeTool(testLimits(), nil, discardLogger())

	tests := []struct {
		action string
		want   string
	}{
		{"analyze_arc", "**Acts**: 1 / 2 / 1 scenes"},
		{"tension_curve", "**Highest tension**: 9/10"},
		{"coaching", "**Suggestions**:"},
		{"scene_durations", "**Total duration**: 19s"},
		{"emotional_peaks", "**Emotional peaks**: 4"},
		{"completeness", "**Completeness**:"},
		{" Completeness ", "## Story Analysis: completeness"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
				"action": tt.action,
				"scenes": sceneArgs(4),
			}))
			if result.IsError {
				t.Fatalf("unexpected tool error: %s", resultText(result))
			}
			if text := resultText(result); !strings.Contains(text, tt.want) {
				t.Errorf("response missing %q:\n%s", tt.want, text)
			}
		})
	}
}

func TestAnalyzeTool_DetailLevels(t *testing.T) {
	tool := NewAnalyzeTool(testLimits(), nil, discardLogger())
	handle := func(level string) string {
		result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
			"scenes":       sceneArgs(4),
			"detail_level": level,
		}))
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(result))
		}
		return resultText(result)
	}

	summary := handle("summary")
	if strings.Contains(summary, "```json") {
		t.Error("summary should omit the JSON result")
	}
	if !strings.Contains(summary, "💡 Use detail_level: standard or full") || !strings.Contains(summary, "tokens") {
		t.Errorf("summary footers missing:\n%s", summary)
	}

	standard := handle("")
	if !strings.Contains(standard, "```json") || strings.Contains(standard, "### Scene Timing") {
		t.Errorf("standard should carry JSON only:\n%s", standard)
	}

	full := handle("full")
	for _, want := range []string{"### Scene Timing", "| 1 | 1 | hook | 3 |", "| 4 | 4 | resolution | 5 |", "```json"} {
		if !strings.Contains(full, want) {
			t.Errorf("full response missing %q:\n%s", want, full)
		}
	}
}

func TestTimingTable_NoDurations(t *testing.T) {
	if got := timingTable([]int{1, 2}); got != "" {
		t.Errorf("timingTable(peaks) = %q, want empty", got)
	}
}

func TestAnalyzeTool_ScenesAsJSONString(t *testing.T) {
	tool := NewAnalyzeTool(testLimits(), nil, discardLogger())
	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"action": "emotional_peaks",
		"scenes": `[{"id":10},{"id":20},{"id":30},{"id":40}]`,
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}
	if payload := strings.TrimSpace(jsonPayload(t, resultText(result))); payload != "[\n  40\n]" {
		t.Errorf("payload = %q, want [40]", payload)
	}
}

func TestAnalyzeTool_EmptyStory(t *testing.T) {
	tool := NewAnalyzeTool(testLimits(), nil, discardLogger())
	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"scenes": []any{},
	}))
	if result.IsError {
		t.Fatalf("empty story is valid input: %s", resultText(result))
	}
	if text := resultText(result); !strings.Contains(text, "**Completeness**: 0/100") {
		t.Errorf("unexpected response:\n%s", text)
	}
}

func TestAnalyzeTool_Rejections(t *testing.T) {
	limits := testLimits()
	limits.MaxScenes = 3
	tool := NewAnalyzeTool(limits, nil, discardLogger())

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing scenes", map[string]interface{}{}, "'scenes' is required"},
		{"object", map[string]interface{}{"scenes": map[string]any{"id": 1.0}}, "expected an array, got object"},
		{"bad json string", map[string]interface{}{"scenes": "[{"}, "malformed JSON"},
		{"unknown action", map[string]interface{}{"action": "summarize", "scenes": sceneArgs(1)}, "unknown action"},
		{"too many scenes", map[string]interface{}{"scenes": sceneArgs(4)}, "4 exceeds the limit of 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), makeReq(tt.args))
			if err != nil {
				t.Fatalf("validation failures must be tool errors, got %v", err)
			}
			if !result.IsError {
				t.Fatal("expected tool error")
			}
			if text := resultText(result); !strings.Contains(text, tt.want) {
				t.Errorf("error = %q, want it to contain %q", text, tt.want)
			}
		})
	}
}

func TestAnalyzeTool_RecordsHistory(t *testing.T) {
	store := newTestStore(t)
	tool := NewAnalyzeTool(testLimits(), store, discardLogger())

	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"action":   "completeness",
		"scenes":   sceneArgs(8),
		"story_id": "pilot",
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}
	if text := resultText(result); !strings.Contains(text, "**History**: saved as") {
		t.Errorf("expected history line:\n%s", text)
	}

	snaps, err := store.ListByStory(context.Background(), "pilot", 10)
	if err != nil {
		t.Fatalf("ListByStory() error: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps))
	}
	if snaps[0].Action != "completeness" || snaps[0].SceneCount != 8 || snaps[0].OverallScore == nil {
		t.Errorf("snapshot = %+v", snaps[0])
	}

	// Without a story_id nothing is recorded.
	_, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"scenes": sceneArgs(2)}))
	stats, _ := store.Stats(context.Background())
	if stats.TotalAnalyses != 1 {
		t.Errorf("TotalAnalyses = %d, want 1", stats.TotalAnalyses)
	}
}

func TestAnalyzeTool_HistoryFailureDoesNotFailAnalysis(t *testing.T) {
	store := newTestStore(t)
	_ = store.Close()
	tool := NewAnalyzeTool(testLimits(), store, discardLogger())

	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"scenes":   sceneArgs(3),
		"story_id": "pilot",
	}))
	if result.IsError {
		t.Fatalf("analysis should succeed when history fails: %s", resultText(result))
	}
	if text := resultText(result); !strings.Contains(text, "**History**: not saved") {
		t.Errorf("expected history failure note:\n%s", text)
	}
}
