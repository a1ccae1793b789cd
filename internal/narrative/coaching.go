package narrative

import (
	"fmt"
	"math"
)

// SuggestionType classifies what a coaching suggestion is about.
type SuggestionType string

const (
	TypePacing    SuggestionType = "pacing"
	TypeTension   SuggestionType = "tension"
	TypeCharacter SuggestionType = "character"
	TypeStructure SuggestionType = "structure"
	TypeEmotion   SuggestionType = "emotion"
)

// Valid reports whether t is one of the defined suggestion types.
func (t SuggestionType) Valid() bool {
	switch t {
	case TypePacing, TypeTension, TypeCharacter, TypeStructure, TypeEmotion:
		return true
	}
	return false
}

// Severity ranks how urgently a suggestion should be addressed.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the defined severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Suggestion is one human-readable coaching finding.
type Suggestion struct {
	Type       SuggestionType `json:"type"`
	Severity   Severity       `json:"severity"`
	SceneID    *int           `json:"sceneId,omitempty"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion"`
	Actionable bool           `json:"actionable"`
}

// Rule thresholds.
const (
	minScenes           = 3
	maxScenes           = 30
	minAct2Share        = 0.35
	maxAct2Share        = 0.65
	detailedStoryScenes = 5
	flatDurationSpread  = 2.0
)

// coachingRule is one independent check. Every rule runs on every call.
type coachingRule struct {
	id          string
	typ         SuggestionType
	severity    Severity
	description string
	check       func(st *Story, r coachingRule) []Suggestion
}

func (r coachingRule) suggest(sceneID *int, message, suggestion string) Suggestion {
	return Suggestion{
		Type:       r.typ,
		Severity:   r.severity,
		SceneID:    sceneID,
		Message:    message,
		Suggestion: suggestion,
		Actionable: true,
	}
}

var coachingRules = []coachingRule{
	{
		id:          "story-too-short",
		typ:         TypeStructure,
		severity:    SeverityWarning,
		description: "Fewer than 3 scenes cannot carry a three-act structure.",
		check: func(st *Story, r coachingRule) []Suggestion {
			if len(st.scenes) >= minScenes {
				return nil
			}
			return []Suggestion{r.suggest(nil,
				fmt.Sprintf("Story has only %d scene(s).", len(st.scenes)),
				"Add scenes until the story has at least a beginning, a middle and an end.",
			)}
		},
	},
	{
		id:          "story-too-long",
		typ:         TypePacing,
		severity:    SeverityInfo,
		description: "More than 30 scenes may be better split into parts.",
		check: func(st *Story, r coachingRule) []Suggestion {
			if len(st.scenes) <= maxScenes {
				return nil
			}
			return []Suggestion{r.suggest(nil,
				fmt.Sprintf("Story has %d scenes.", len(st.scenes)),
				"Consider splitting the story into episodes or chapters.",
			)}
		},
	},
	{
		id:          "act2-too-short",
		typ:         TypeStructure,
		severity:    SeverityWarning,
		description: "Act 2 holds less than 35% of the scenes.",
		check: func(st *Story, r coachingRule) []Suggestion {
			n := len(st.scenes)
			if n == 0 {
				return nil
			}
			share := st.Arc().Acts.Act2.share(n)
			if share >= minAct2Share {
				return nil
			}
			return []Suggestion{r.suggest(nil,
				fmt.Sprintf("Act 2 holds %.0f%% of the scenes.", share*100),
				"Develop the confrontation with more complications before the climax.",
			)}
		},
	},
	{
		id:          "act2-too-long",
		typ:         TypePacing,
		severity:    SeverityWarning,
		description: "Act 2 holds more than 65% of the scenes.",
		check: func(st *Story, r coachingRule) []Suggestion {
			n := len(st.scenes)
			if n == 0 {
				return nil
			}
			share := st.Arc().Acts.Act2.share(n)
			if share <= maxAct2Share {
				return nil
			}
			return []Suggestion{r.suggest(nil,
				fmt.Sprintf("Act 2 holds %.0f%% of the scenes.", share*100),
				"Tighten the middle of the story or move scenes into the setup or resolution.",
			)}
		},
	},
	{
		id:          "one-scene-character",
		typ:         TypeCharacter,
		severity:    SeverityInfo,
		description: "In stories of more than 5 scenes, characters that appear only once.",
		check: func(st *Story, r coachingRule) []Suggestion {
			if len(st.scenes) <= detailedStoryScenes {
				return nil
			}
			var out []Suggestion
			for _, c := range st.characters() {
				if c.Scenes != 1 {
					continue
				}
				id := c.sceneIDs[0]
				out = append(out, r.suggest(&id,
					fmt.Sprintf("%s appears in only one scene.", c.Name),
					fmt.Sprintf("Bring %s back later in the story or merge the role into a recurring character.", c.Name),
				))
			}
			return out
		},
	},
	{
		id:          "no-emotional-peaks",
		typ:         TypeEmotion,
		severity:    SeverityCritical,
		description: "No scene reaches a tension level of 8 or more.",
		check: func(st *Story, r coachingRule) []Suggestion {
			if len(peakIDs(st.TensionCurve())) > 0 {
				return nil
			}
			return []Suggestion{r.suggest(nil,
				"The story has no emotional peaks.",
				"Build toward at least one high-stakes moment in the third act.",
			)}
		},
	},
	{
		id:          "flat-durations",
		typ:         TypePacing,
		severity:    SeverityInfo,
		description: "In stories of more than 5 scenes, every duration is within 2 seconds of the mean.",
		check: func(st *Story, r coachingRule) []Suggestion {
			durations := st.SceneDurations()
			if len(durations) <= detailedStoryScenes || !flatDurations(durations) {
				return nil
			}
			return []Suggestion{r.suggest(nil,
				"Scene durations barely vary.",
				"Vary scene length: linger on key beats and cut transitional scenes short.",
			)}
		},
	},
}

func flatDurations(durations []SceneDuration) bool {
	if len(durations) == 0 {
		return false
	}
	sum := 0
	for _, d := range durations {
		sum += d.SuggestedDuration
	}
	mean := float64(sum) / float64(len(durations))
	for _, d := range durations {
		if math.Abs(float64(d.SuggestedDuration)-mean) > flatDurationSpread {
			return false
		}
	}
	return true
}

func runCoaching(st *Story) []Suggestion {
	out := []Suggestion{}
	for _, r := range coachingRules {
		out = append(out, r.check(st, r)...)
	}
	return out
}

// RuleInfo describes one coaching rule for catalogues and docs.
type RuleInfo struct {
	ID          string         `json:"id"`
	Type        SuggestionType `json:"type"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
}

// CoachingRules lists the rules in evaluation order.
func CoachingRules() []RuleInfo {
	out := make([]RuleInfo, len(coachingRules))
	for i, r := range coachingRules {
		out[i] = RuleInfo{ID: r.id, Type: r.typ, Severity: r.severity, Description: r.description}
	}
	return out
}
