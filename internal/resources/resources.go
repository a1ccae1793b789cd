// Package resources implements MCP resource handlers for storybeat.
//
// Resources are read-only reference documents the host can load for
// context: the coaching rule catalogue and the beat position table.
// They use URI-based addressing (storybeat://...).
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/storybeat/internal/narrative"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	CoachingRulesURI = "storybeat://coaching/rules"
	BeatsURI         = "storybeat://structure/beats"
)

// Handler serves the storybeat resources.
type Handler struct{}

// NewHandler creates a resource Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// CoachingRulesResource returns the MCP resource definition for the
// coaching rule catalogue.
func (h *Handler) CoachingRulesResource() mcp.Resource {
	return mcp.NewResource(
		CoachingRulesURI,
		"Coaching Rules",
		mcp.WithResourceDescription("The rules behind story_analyze coaching suggestions, in evaluation order"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCoachingRules returns the rule catalogue as JSON.
func (h *Handler) HandleCoachingRules(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, narrative.CoachingRules())
}

// BeatsResource returns the MCP resource definition for the beat table.
func (h *Handler) BeatsResource() mcp.Resource {
	return mcp.NewResource(
		BeatsURI,
		"Story Beats",
		mcp.WithResourceDescription("Where each three-act beat falls in a story of N scenes and its base duration in seconds"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleBeats returns the beat table as JSON.
func (h *Handler) HandleBeats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, narrative.BeatTable())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
