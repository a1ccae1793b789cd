package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ProgressPrompt handles the story-progress MCP prompt.
// It instructs the AI to read and present a story's analysis history.
type ProgressPrompt struct{}

// NewProgressPrompt creates a ProgressPrompt.
func NewProgressPrompt() *ProgressPrompt {
	return &ProgressPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ProgressPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("story-progress",
		mcp.WithPromptDescription(
			"See how a story has changed across revisions. "+
				"Shows the recorded completeness scores and what moved.",
		),
		mcp.WithArgument("story_id",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("Story identifier used when the analyses were recorded"),
		),
	)
}

// Handle processes the story-progress prompt request.
func (p *ProgressPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	storyID := strings.TrimSpace(req.Params.Arguments["story_id"])
	if storyID == "" {
		return nil, fmt.Errorf("story_id is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Story progress: %s", storyID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please run `story_history` with story_id='%s'.\n\n"+
						"Then:\n"+
						"1. Show how the completeness score moved between revisions\n"+
						"2. Point out changes in total duration and emotional peaks\n"+
						"3. If the latest run has a snapshot_id, fetch it and list its open suggestions\n"+
						"4. Tell me what to work on next",
					storyID,
				)),
			},
		},
	}, nil
}
