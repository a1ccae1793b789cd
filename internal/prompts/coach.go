// Package prompts implements MCP prompt handlers for storybeat.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a sequence of tool calls. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// CoachPrompt handles the story-coach MCP prompt.
// It asks the AI to run a full analysis and walk the writer through it.
type CoachPrompt struct{}

// NewCoachPrompt creates a CoachPrompt.
func NewCoachPrompt() *CoachPrompt {
	return &CoachPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CoachPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("story-coach",
		mcp.WithPromptDescription(
			"Get structural coaching for your story. "+
				"Runs a full narrative analysis of your scenes and explains "+
				"the arc, tension, pacing and what to fix first.",
		),
		mcp.WithArgument("story_id",
			mcp.ArgumentDescription("Optional story identifier. When set, the analysis is saved so you can track progress"),
		),
	)
}

// Handle processes the story-coach prompt request.
func (p *CoachPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	storyID := strings.TrimSpace(req.Params.Arguments["story_id"])

	call := "`story_analyze` with action='full_analysis' and my scenes in story order"
	description := "Story coaching"
	if storyID != "" {
		call = fmt.Sprintf("`story_analyze` with action='full_analysis', story_id='%s' and my scenes in story order", storyID)
		description = fmt.Sprintf("Story coaching: %s", storyID)
	}

	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I'd like structural feedback on my story.\n\n"+
						"Please:\n"+
						"1. Ask me for my scenes if I haven't shared them (id, title, description, characters)\n"+
						"2. Run %s\n"+
						"3. Summarize the three acts and where the hook, midpoint, climax and resolution land\n"+
						"4. Describe the tension curve and name the emotional peaks\n"+
						"5. Go through the warnings first, then the info suggestions, quoting the scene they refer to\n"+
						"6. Finish with the completeness score and the single change that would raise it most",
					call,
				)),
			},
		},
	}, nil
}
