// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it builds the history store and rate
// limiter from config and injects them into the tools, prompts and
// resources. No analysis logic lives here, only wiring.
package server

import (
	"fmt"
	"log/slog"

	"github.com/HendryAvila/storybeat/internal/config"
	"github.com/HendryAvila/storybeat/internal/history"
	"github.com/HendryAvila/storybeat/internal/prompts"
	"github.com/HendryAvila/storybeat/internal/resources"
	"github.com/HendryAvila/storybeat/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// openHistory is a package-level var to allow test injection.
var openHistory = history.New

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the history database and must be
// called on shutdown (typically via defer). It is always non-nil and
// safe to call even if history is disabled.
func New(cfg *config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, noop, fmt.Errorf("invalid configuration: %w", err)
	}
	logger = logger.With("component", "server")

	s := server.NewMCPServer(
		"storybeat",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- History ---
	//
	// History is an independent subsystem: if it fails to open, analysis
	// keeps working. We log a warning and skip the history tools.

	cleanup := noop
	var store *history.Store
	if cfg.History.Enabled {
		var err error
		store, err = openHistory(history.Config{
			DataDir:    cfg.History.DataDir,
			MaxResults: cfg.History.MaxResults,
		})
		if err != nil {
			logger.Warn("history subsystem disabled", "error", err)
			store = nil
		} else {
			cleanup = func() {
				if err := store.Close(); err != nil {
					logger.Warn("history store close", "error", err)
				}
			}
		}
	}

	// --- Tools ---

	limiter := tools.NewLimiter(cfg.Limits)

	analyzeTool := tools.NewAnalyzeTool(cfg.Limits, store, logger)
	s.AddTool(analyzeTool.Definition(), tools.RateLimited(limiter, analyzeTool.Handle))

	batchTool := tools.NewBatchTool(cfg.Limits, store, logger)
	s.AddTool(batchTool.Definition(), tools.RateLimited(limiter, batchTool.Handle))

	if store != nil {
		historyTool := tools.NewHistoryTool(store)
		s.AddTool(historyTool.Definition(), tools.RateLimited(limiter, historyTool.Handle))

		statsTool := tools.NewHistoryStatsTool(store)
		s.AddTool(statsTool.Definition(), tools.RateLimited(limiter, statsTool.Handle))
	}

	// --- Prompts ---

	coachPrompt := prompts.NewCoachPrompt()
	s.AddPrompt(coachPrompt.Definition(), coachPrompt.Handle)

	if store != nil {
		progressPrompt := prompts.NewProgressPrompt()
		s.AddPrompt(progressPrompt.Definition(), progressPrompt.Handle)
	}

	// --- Resources ---

	resourceHandler := resources.NewHandler()
	s.AddResource(resourceHandler.CoachingRulesResource(), resourceHandler.HandleCoachingRules)
	s.AddResource(resourceHandler.BeatsResource(), resourceHandler.HandleBeats)

	logger.Info("server ready",
		"version", Version,
		"history", store != nil,
		"max_scenes", cfg.Limits.MaxScenes,
	)
	return s, cleanup, nil
}

// noop is the default cleanup when history is disabled.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// when and how to use storybeat.
func serverInstructions() string {
	return `You have access to storybeat, a narrative structure analysis server.

## WHEN TO USE storybeat

Suggest it when the user:
- Shares a storyboard, outline, script or list of scenes
- Asks whether a story "works", feels slow, or lacks a climax
- Plans a short video and needs per-scene timings

## HOW IT READS A STORY

Scenes are analyzed in the order given. Scene ids are labels only; the
position of a scene in the list decides its act and beat. The three acts
split at 25% and 75% of the scene count.

## TOOLS

- story_analyze: one action over a scene list. Use full_analysis unless the
  user asked for one aspect (analyze_arc, tension_curve, coaching,
  scene_durations, emotional_peaks, completeness).
- story_batch_analyze: compare several stories or versions side by side.
- story_history / story_history_stats: only available when history is on.
  Pass the same story_id to story_analyze on every revision to build a trend.

## PRESENTING RESULTS

Lead with warnings, then info suggestions. Quote the scene a suggestion
refers to. Never invent scenes the user did not provide. Reference data is
available in the storybeat://coaching/rules and storybeat://structure/beats
resources.`
}
