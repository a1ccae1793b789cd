package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HendryAvila/storybeat/internal/config"
	"github.com/HendryAvila/storybeat/internal/history"
	"github.com/HendryAvila/storybeat/internal/narrative"
	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"
)

var validate = validator.New()

// batchItem is one story of a batch request.
type batchItem struct {
	StoryID string `validate:"required,max=200"`
	Scenes  any    `validate:"required"`
}

// BatchRow is the outcome for one story of a batch. Error is set
// instead of Analysis when the story was rejected.
type BatchRow struct {
	StoryID    string                  `json:"storyId"`
	SceneCount int                     `json:"sceneCount"`
	Analysis   *narrative.FullAnalysis `json:"analysis,omitempty"`
	HistoryID  string                  `json:"historyId,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// BatchTool handles the story_batch_analyze MCP tool.
// Stories are analyzed concurrently with a bounded number of workers;
// a rejected story is reported in its row and never aborts the others.
type BatchTool struct {
	limits  config.Limits
	history *history.Store
	logger  *slog.Logger
}

// NewBatchTool creates a BatchTool. store may be nil.
func NewBatchTool(limits config.Limits, store *history.Store, logger *slog.Logger) *BatchTool {
	return &BatchTool{
		limits:  limits,
		history: store,
		logger:  logger.With("component", "story_batch_analyze"),
	}
}

// Definition returns the MCP tool definition for registration.
func (t *BatchTool) Definition() mcp.Tool {
	return mcp.NewTool("story_batch_analyze",
		mcp.WithDescription(
			"Run full_analysis over several stories at once and compare them. "+
				"Returns a table of completeness score, emotional peaks and suggestion count per story, "+
				"plus the full JSON detail. Results keep the input order. "+
				"Each story is saved to the analysis history when history is enabled.",
		),
		mcp.WithArray("stories",
			mcp.Required(),
			mcp.Description("Stories to analyze: [{story_id: string, scenes: [...]}]"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"story_id": map[string]any{"type": "string"},
					"scenes":   map[string]any{"type": "array"},
				},
				"required": []string{"story_id", "scenes"},
			}),
		),
	)
}

// Handle processes the story_batch_analyze tool call.
func (t *BatchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, ok := req.GetArguments()["stories"].([]any)
	if !ok {
		return mcp.NewToolResultError("'stories' must be an array of {story_id, scenes} objects"), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultError("'stories' must contain at least one story"), nil
	}
	if len(items) > t.limits.MaxBatchStories {
		return mcp.NewToolResultError(fmt.Sprintf(
			"too many stories: %d exceeds the limit of %d", len(items), t.limits.MaxBatchStories,
		)), nil
	}

	rows := make([]BatchRow, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.limits.BatchWorkers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = t.analyze(item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("batch cancelled: %v", err)), nil
	}

	// SQLite serializes writers anyway; recording after the fan-out keeps
	// history order equal to input order.
	for i := range rows {
		t.record(ctx, &rows[i])
	}

	return t.render(rows)
}

func (t *BatchTool) analyze(item any) BatchRow {
	m, ok := item.(map[string]any)
	if !ok {
		return BatchRow{Error: "expected an object with story_id and scenes"}
	}

	bi := batchItem{Scenes: m["scenes"]}
	if s, ok := m["story_id"].(string); ok {
		bi.StoryID = strings.TrimSpace(s)
	}
	row := BatchRow{StoryID: bi.StoryID}
	if err := validate.Struct(bi); err != nil {
		row.Error = describeValidation(err)
		return row
	}

	scenes, err := decodeScenes(bi.Scenes)
	if err != nil {
		row.Error = err.Error()
		return row
	}
	row.SceneCount = len(scenes)
	if len(scenes) > t.limits.MaxScenes {
		row.Error = fmt.Sprintf("too many scenes: %d exceeds the limit of %d", len(scenes), t.limits.MaxScenes)
		return row
	}

	analysis := narrative.Analyze(scenes)
	row.Analysis = &analysis
	return row
}

func (t *BatchTool) record(ctx context.Context, row *BatchRow) {
	if t.history == nil || row.Analysis == nil {
		return
	}
	snap, err := history.FromResult(row.StoryID, narrative.ActionFullAnalysis, row.SceneCount, *row.Analysis)
	if err == nil {
		row.HistoryID, err = t.history.Record(ctx, snap)
	}
	if err != nil {
		t.logger.Warn("history record failed", "story_id", row.StoryID, "error", err)
	}
}

func (t *BatchTool) render(rows []BatchRow) (*mcp.CallToolResult, error) {
	failed := 0
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Batch Analysis (%d stories)\n\n", len(rows)))
	sb.WriteString("| # | Story | Scenes | Completeness | Peaks | Suggestions | Status |\n")
	sb.WriteString("|---|-------|--------|--------------|-------|-------------|--------|\n")
	for i, r := range rows {
		story := r.StoryID
		if story == "" {
			story = "-"
		}
		if r.Analysis == nil {
			failed++
			sb.WriteString(fmt.Sprintf("| %d | %s | %d | - | - | - | error: %s |\n", i+1, story, r.SceneCount, r.Error))
			continue
		}
		a := r.Analysis
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %d | %d | ok |\n",
			i+1, story, r.SceneCount, a.Completeness.OverallScore, len(a.EmotionalPeaks), len(a.Suggestions)))
	}
	if failed > 0 {
		sb.WriteString(fmt.Sprintf("\n%d of %d stories were rejected.\n", failed, len(rows)))
	}

	block, err := jsonBlock(rows)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sb.WriteString("\n### Detail\n\n")
	sb.WriteString(block)
	return mcp.NewToolResultText(sb.String()), nil
}

// describeValidation turns validator errors into argument-level messages.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := "story_id"
		if fe.Field() == "Scenes" {
			field = "scenes"
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("'%s' is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("'%s' is longer than %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("'%s' failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
