package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/storybeat/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"
)

// NewLimiter builds the shared tool-call limiter from config.
func NewLimiter(l config.Limits) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(l.RequestsPerMinute)/60.0), l.Burst)
}

// RateLimited wraps a tool handler so every call first waits for a token
// from limiter. A call whose context ends while waiting gets a tool error.
func RateLimited(limiter *rate.Limiter, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := limiter.Wait(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("rate limit: %v", err)), nil
		}
		return next(ctx, req)
	}
}
