package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/storybeat/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// HistoryTool handles the story_history MCP tool.
type HistoryTool struct {
	store *history.Store
}

// NewHistoryTool creates a HistoryTool with the given history store.
func NewHistoryTool(store *history.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool definition for story_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("story_history",
		mcp.WithDescription(
			"Show how a story's analyses changed over time, newest first: completeness score, "+
				"duration, peaks and suggestion count per recorded run. "+
				"Pass snapshot_id to get one recorded result in full, or clear=true to forget the story.",
		),
		mcp.WithString("story_id",
			mcp.Required(),
			mcp.Description("Story identifier used when the analyses were recorded"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum snapshots to list (default from config)"),
		),
		mcp.WithString("snapshot_id",
			mcp.Description("Return the full stored result of this snapshot"),
		),
		mcp.WithBoolean("clear",
			mcp.Description("Delete every snapshot of the story"),
		),
	)
}

// Handle processes the story_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	storyID := strings.TrimSpace(req.GetString("story_id", ""))
	if storyID == "" {
		return mcp.NewToolResultError("'story_id' is required"), nil
	}

	if boolArg(req, "clear", false) {
		n, err := t.store.DeleteStory(ctx, storyID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to clear history: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted %d snapshot(s) of story %q.", n, storyID)), nil
	}

	if id := strings.TrimSpace(req.GetString("snapshot_id", "")); id != "" {
		return t.snapshot(ctx, storyID, id)
	}

	snaps, err := t.store.ListByStory(ctx, storyID, intArg(req, "limit", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %v", err)), nil
	}
	if len(snaps) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No analyses recorded for story %q.", storyID)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## History: %s\n\n", storyID))
	sb.WriteString("| Recorded | Action | Scenes | Score | Duration | Peaks | Suggestions | Snapshot |\n")
	sb.WriteString("|----------|--------|--------|-------|----------|-------|-------------|----------|\n")
	for _, s := range snaps {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s | %s | %s | %s |\n",
			s.CreatedAt, s.Action, s.SceneCount,
			optInt(s.OverallScore), optInt(s.TotalDuration),
			optInt(s.PeakCount), optInt(s.SuggestionCount), s.ID))
	}
	if trend := scoreTrend(snaps); trend != "" {
		sb.WriteString("\n" + trend + "\n")
	}
	if total, err := t.store.CountStory(ctx, storyID); err == nil {
		sb.WriteString(navigationHint(len(snaps), total, "Pass a larger limit to see older runs."))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *HistoryTool) snapshot(ctx context.Context, storyID, id string) (*mcp.CallToolResult, error) {
	snap, err := t.store.Get(ctx, id)
	if err != nil && !errors.Is(err, history.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read snapshot: %v", err)), nil
	}
	if err != nil || snap.StoryID != storyID {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot %q not found for story %q", id, storyID)), nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Snapshot %s\n\n", snap.ID))
	sb.WriteString(fmt.Sprintf("- **Story**: %s\n", snap.StoryID))
	sb.WriteString(fmt.Sprintf("- **Action**: %s\n", snap.Action))
	sb.WriteString(fmt.Sprintf("- **Recorded**: %s\n\n", snap.CreatedAt))
	if len(snap.Result) > 0 {
		sb.WriteString("```json\n")
		sb.Write(snap.Result)
		sb.WriteString("\n```\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// scoreTrend compares the newest and oldest scored snapshots in the list.
func scoreTrend(snaps []history.Snapshot) string {
	var newest, oldest *int
	for _, s := range snaps {
		if s.OverallScore == nil {
			continue
		}
		if newest == nil {
			newest = s.OverallScore
		}
		oldest = s.OverallScore
	}
	if newest == nil || newest == oldest {
		return ""
	}
	switch delta := *newest - *oldest; {
	case delta > 0:
		return fmt.Sprintf("Completeness improved by %d points (%d -> %d).", delta, *oldest, *newest)
	case delta < 0:
		return fmt.Sprintf("Completeness dropped by %d points (%d -> %d).", -delta, *oldest, *newest)
	default:
		return fmt.Sprintf("Completeness unchanged at %d.", *newest)
	}
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// HistoryStatsTool handles the story_history_stats MCP tool.
type HistoryStatsTool struct {
	store *history.Store
}

// NewHistoryStatsTool creates a HistoryStatsTool with the given history store.
func NewHistoryStatsTool(store *history.Store) *HistoryStatsTool {
	return &HistoryStatsTool{store: store}
}

// Definition returns the MCP tool definition for story_history_stats.
func (t *HistoryStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("story_history_stats",
		mcp.WithDescription(
			"Show analysis history statistics: total recorded analyses, stories tracked and average completeness score.",
		),
	)
}

// Handle processes the story_history_stats tool call.
func (t *HistoryStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("## Analysis History\n\n")
	sb.WriteString(fmt.Sprintf("- **Analyses**: %d\n", stats.TotalAnalyses))
	if stats.AverageScore != nil {
		sb.WriteString(fmt.Sprintf("- **Average completeness**: %.1f\n", *stats.AverageScore))
	}
	if len(stats.Stories) > 0 {
		sb.WriteString(fmt.Sprintf("- **Stories** (%d): %s\n", stats.DistinctStories, strings.Join(stats.Stories, ", ")))
	} else {
		sb.WriteString("- **Stories**: none\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}
