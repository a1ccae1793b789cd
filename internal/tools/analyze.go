package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HendryAvila/storybeat/internal/config"
	"github.com/HendryAvila/storybeat/internal/history"
	"github.com/HendryAvila/storybeat/internal/narrative"
	"github.com/mark3labs/mcp-go/mcp"
)

// AnalyzeTool handles the story_analyze MCP tool.
// It runs one analysis action over a scene list and, when a story_id is
// given and history is enabled, records a snapshot of the result.
type AnalyzeTool struct {
	limits  config.Limits
	history *history.Store
	logger  *slog.Logger
}

// NewAnalyzeTool creates an AnalyzeTool. store may be nil, which
// disables history recording.
func NewAnalyzeTool(limits config.Limits, store *history.Store, logger *slog.Logger) *AnalyzeTool {
	return &AnalyzeTool{
		limits:  limits,
		history: store,
		logger:  logger.With("component", "story_analyze"),
	}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("story_analyze",
		mcp.WithDescription(
			"Analyze the narrative structure of an ordered list of scenes. "+
				"Actions: analyze_arc (three acts, beats, pacing), tension_curve (0-10 per scene), "+
				"coaching (actionable suggestions), scene_durations (seconds per scene), "+
				"emotional_peaks (scene ids with tension >= 8), completeness (0-100 score), "+
				"full_analysis (all of the above). Scene order is story order; ids are only labels.",
		),
		mcp.WithString("action",
			mcp.Description("Analysis to run (default: full_analysis)"),
			mcp.Enum(narrative.ActionNames()...),
		),
		mcp.WithArray("scenes",
			mcp.Required(),
			mcp.Description("Ordered scenes: {id, title, description, characters[], duration?, setting?, mood?}. "+
				"A JSON string holding the array is also accepted."),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithString("story_id",
			mcp.Description("Optional story identifier. When set, the result is saved to the analysis history"),
		),
		mcp.WithString("detail_level",
			mcp.Description("summary (headline numbers), standard (default, adds the JSON result) or full (adds a per-scene timing table)"),
			mcp.Enum(DetailLevelValues()...),
		),
	)
}

// Handle processes the story_analyze tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := narrative.ParseAction(req.GetString("action", string(narrative.ActionFullAnalysis)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, ok := req.GetArguments()["scenes"]
	if !ok {
		return mcp.NewToolResultError("'scenes' is required"), nil
	}
	scenes, err := decodeScenes(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(scenes) > t.limits.MaxScenes {
		return mcp.NewToolResultError(fmt.Sprintf(
			"too many scenes: %d exceeds the limit of %d", len(scenes), t.limits.MaxScenes,
		)), nil
	}

	result, err := narrative.Run(action, scenes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	storyID := strings.TrimSpace(req.GetString("story_id", ""))
	detail := ParseDetailLevel(req.GetString("detail_level", ""))
	t.logger.Debug("analysis complete", "action", action, "scenes", len(scenes), "story_id", storyID)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Story Analysis: %s\n\n", action))
	if storyID != "" {
		sb.WriteString(fmt.Sprintf("- **Story**: %s\n", storyID))
	}
	sb.WriteString(fmt.Sprintf("- **Scenes**: %d\n", len(scenes)))
	for _, line := range summaryLines(result) {
		sb.WriteString(line + "\n")
	}
	if note := t.record(ctx, storyID, action, len(scenes), result); note != "" {
		sb.WriteString(note + "\n")
	}

	if detail == DetailFull {
		if table := timingTable(result); table != "" {
			sb.WriteString("\n### Scene Timing\n\n")
			sb.WriteString(table)
		}
	}
	if detail == DetailSummary {
		sb.WriteString(summaryFooter)
	} else {
		block, err := jsonBlock(result)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sb.WriteString("\n")
		sb.WriteString(block)
	}
	sb.WriteString(tokenFooter(sb.String()))

	return mcp.NewToolResultText(sb.String()), nil
}

// record saves a history snapshot and returns a line for the response.
// History failures never fail the analysis itself.
func (t *AnalyzeTool) record(ctx context.Context, storyID string, action narrative.Action, sceneCount int, result any) string {
	if storyID == "" || t.history == nil {
		return ""
	}
	snap, err := history.FromResult(storyID, action, sceneCount, result)
	if err == nil {
		snap.ID, err = t.history.Record(ctx, snap)
	}
	if err != nil {
		t.logger.Warn("history record failed", "story_id", storyID, "error", err)
		return fmt.Sprintf("- **History**: not saved (%v)", err)
	}
	return fmt.Sprintf("- **History**: saved as %s", snap.ID)
}

// timingTable lists beat and seconds per scene for results that carry
// duration suggestions.
func timingTable(result any) string {
	var durations []narrative.SceneDuration
	switch r := result.(type) {
	case narrative.FullAnalysis:
		durations = r.Arc.Pacing.SceneDistribution
	case narrative.StoryArc:
		durations = r.Pacing.SceneDistribution
	case []narrative.SceneDuration:
		durations = r
	}
	if len(durations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("| # | Scene | Beat | Seconds |\n")
	sb.WriteString("|---|-------|------|---------|\n")
	for i, d := range durations {
		sb.WriteString(fmt.Sprintf("| %d | %d | %s | %d |\n", i+1, d.SceneID, d.BeatType, d.SuggestedDuration))
	}
	return sb.String()
}
