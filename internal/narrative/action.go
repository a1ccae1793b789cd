package narrative

import (
	"fmt"
	"strings"
)

// Action selects which analysis to compute.
type Action string

const (
	ActionAnalyzeArc     Action = "analyze_arc"
	ActionTensionCurve   Action = "tension_curve"
	ActionCoaching       Action = "coaching"
	ActionSceneDurations Action = "scene_durations"
	ActionEmotionalPeaks Action = "emotional_peaks"
	ActionCompleteness   Action = "completeness"
	ActionFullAnalysis   Action = "full_analysis"
)

// Actions lists every action in a stable order.
func Actions() []Action {
	return []Action{
		ActionAnalyzeArc,
		ActionTensionCurve,
		ActionCoaching,
		ActionSceneDurations,
		ActionEmotionalPeaks,
		ActionCompleteness,
		ActionFullAnalysis,
	}
}

// ActionNames returns the actions as strings, for enum schemas.
func ActionNames() []string {
	actions := Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return names
}

// ParseAction normalizes and validates an action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Actions() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be one of: %s", ErrUnknownAction, s, strings.Join(ActionNames(), ", "))
}

// Run computes one action over already indexed scenes.
func Run(action Action, scenes []Scene) (any, error) {
	st := NewStory(scenes)
	switch action {
	case ActionAnalyzeArc:
		return st.Arc(), nil
	case ActionTensionCurve:
		return st.TensionCurve(), nil
	case ActionCoaching:
		return st.Coaching(), nil
	case ActionSceneDurations:
		return st.SceneDurations(), nil
	case ActionEmotionalPeaks:
		return st.EmotionalPeaks(), nil
	case ActionCompleteness:
		return st.Completeness(), nil
	case ActionFullAnalysis:
		return st.FullAnalysis(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAction, action)
	}
}

// RunRaw validates an action name and a decoded scenes payload, then
// runs the action. Nothing is computed unless both are valid.
func RunRaw(action string, raw any) (any, error) {
	a, err := ParseAction(action)
	if err != nil {
		return nil, err
	}
	scenes, err := IndexScenes(raw)
	if err != nil {
		return nil, err
	}
	return Run(a, scenes)
}
