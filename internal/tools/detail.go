package tools

import "fmt"

// Detail levels for story_analyze responses.
//   - summary: headline numbers only
//   - standard: headline numbers plus the JSON result
//   - full: standard plus a per-scene timing table
const (
	DetailSummary  = "summary"
	DetailStandard = "standard"
	DetailFull     = "full"
)

// DetailLevelValues returns the enum values for MCP tool definitions.
func DetailLevelValues() []string {
	return []string{DetailSummary, DetailStandard, DetailFull}
}

// ParseDetailLevel normalizes a detail_level string, defaulting to "standard"
// for empty or unrecognized values.
func ParseDetailLevel(s string) string {
	switch s {
	case DetailSummary, DetailFull:
		return s
	default:
		return DetailStandard
	}
}

// summaryFooter points the AI at the fuller levels.
const summaryFooter = "\n---\n💡 Use detail_level: standard or full for the complete result."

// navigationHint returns a one-line footer when a list was capped by a limit.
func navigationHint(showing, total int, hint string) string {
	if total <= 0 || showing >= total {
		return ""
	}
	if hint != "" {
		return fmt.Sprintf("\n📊 Showing %d of %d. %s", showing, total, hint)
	}
	return fmt.Sprintf("\n📊 Showing %d of %d.", showing, total)
}

// estimateTokens approximates the token count of text at four bytes per
// token. Non-empty text is at least one token.
func estimateTokens(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	return max(1, n/4)
}

// tokenFooter reports the estimated size of a response.
func tokenFooter(text string) string {
	return fmt.Sprintf("\n📏 ~%s tokens", formatNumber(estimateTokens(text)))
}

// formatNumber formats an integer with comma separators.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}
	var out []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, byte(c))
	}
	return string(out)
}
