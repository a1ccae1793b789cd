// Package tools implements the MCP tool handlers for story analysis.
//
// Each tool is a struct that receives its dependencies through a
// constructor, returns its schema from Definition() and serves calls in
// Handle(). Bad input never becomes a protocol error: handlers answer
// with mcp.NewToolResultError so the host model can correct the call.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/storybeat/internal/narrative"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// decodeScenes indexes a scenes argument. Some hosts cannot send nested
// arrays, so a string holding a JSON array is accepted too.
func decodeScenes(v any) ([]narrative.Scene, error) {
	if s, ok := v.(string); ok {
		return narrative.ParseScenes([]byte(s))
	}
	return narrative.IndexScenes(v)
}

// jsonBlock renders v as an indented, fenced JSON code block.
func jsonBlock(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("```json\n")
	sb.Write(data)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}

// summaryLines lists the headline numbers of an analysis result.
func summaryLines(result any) []string {
	switch r := result.(type) {
	case narrative.FullAnalysis:
		return []string{
			fmt.Sprintf("- **Completeness**: %d/100", r.Completeness.OverallScore),
			fmt.Sprintf("- **Total duration**: %ds", r.Arc.Pacing.TotalDuration),
			fmt.Sprintf("- **Emotional peaks**: %s", formatIDs(r.EmotionalPeaks)),
			fmt.Sprintf("- **Suggestions**: %d", len(r.Suggestions)),
		}
	case narrative.StoryArc:
		return []string{
			fmt.Sprintf("- **Acts**: %d / %d / %d scenes", len(r.Acts.Act1.Scenes), len(r.Acts.Act2.Scenes), len(r.Acts.Act3.Scenes)),
			fmt.Sprintf("- **Total duration**: %ds", r.Pacing.TotalDuration),
		}
	case narrative.CompletenessReport:
		return []string{
			fmt.Sprintf("- **Completeness**: %d/100", r.OverallScore),
			fmt.Sprintf("- **Character development**: %s", r.CharacterDevelopment),
		}
	case []narrative.Suggestion:
		return []string{fmt.Sprintf("- **Suggestions**: %d", len(r))}
	case []narrative.SceneDuration:
		total := 0
		for _, d := range r {
			total += d.SuggestedDuration
		}
		return []string{fmt.Sprintf("- **Total duration**: %ds", total)}
	case []narrative.TensionPoint:
		highest := 0
		for _, p := range r {
			highest = max(highest, p.TensionLevel)
		}
		return []string{fmt.Sprintf("- **Highest tension**: %d/10", highest)}
	case []int:
		return []string{fmt.Sprintf("- **Emotional peaks**: %s", formatIDs(r))}
	default:
		return nil
	}
}

func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
