package history

import (
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/storybeat/internal/narrative"
)

// FromResult builds a snapshot from the output of narrative.Run. Metrics
// the action did not compute stay nil.
func FromResult(storyID string, action narrative.Action, sceneCount int, result any) (Snapshot, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return Snapshot{}, fmt.Errorf("history: encoding result: %w", err)
	}

	snap := Snapshot{
		StoryID:    storyID,
		Action:     string(action),
		SceneCount: sceneCount,
		Result:     data,
	}

	switch r := result.(type) {
	case narrative.FullAnalysis:
		snap.OverallScore = ptr(r.Completeness.OverallScore)
		snap.TotalDuration = ptr(r.Arc.Pacing.TotalDuration)
		snap.PeakCount = ptr(len(r.EmotionalPeaks))
		snap.SuggestionCount = ptr(len(r.Suggestions))
	case narrative.CompletenessReport:
		snap.OverallScore = ptr(r.OverallScore)
	case narrative.StoryArc:
		snap.TotalDuration = ptr(r.Pacing.TotalDuration)
	case []narrative.SceneDuration:
		total := 0
		for _, d := range r {
			total += d.SuggestedDuration
		}
		snap.TotalDuration = ptr(total)
	case []narrative.TensionPoint:
		peaks := 0
		for _, pt := range r {
			if pt.EmotionalPeak {
				peaks++
			}
		}
		snap.PeakCount = ptr(peaks)
	case []int:
		if action == narrative.ActionEmotionalPeaks {
			snap.PeakCount = ptr(len(r))
		}
	case []narrative.Suggestion:
		snap.SuggestionCount = ptr(len(r))
	}
	return snap, nil
}

func ptr(v int) *int { return &v }
