package narrative

// CharacterDevelopment rates how often characters recur across scenes.
type CharacterDevelopment string

const (
	DevelopmentWeak     CharacterDevelopment = "weak"
	DevelopmentModerate CharacterDevelopment = "moderate"
	DevelopmentStrong   CharacterDevelopment = "strong"
)

// CompletenessReport scores whether a story has the structural and
// character markers of a finished narrative.
type CompletenessReport struct {
	HasHook              bool                 `json:"hasHook"`
	HasConflict          bool                 `json:"hasConflict"`
	HasResolution        bool                 `json:"hasResolution"`
	CharacterDevelopment CharacterDevelopment `json:"characterDevelopment"`
	OverallScore         int                  `json:"overallScore"`
}

// Score weights. They sum to 100.
const (
	hookPoints             = 20
	conflictPoints         = 30
	resolutionPoints       = 20
	strongCharacterPoints  = 30
	moderateCharacterPoint = 15
)

func rateDevelopment(avg float64) CharacterDevelopment {
	switch {
	case avg < 2:
		return DevelopmentWeak
	case avg < 4:
		return DevelopmentModerate
	default:
		return DevelopmentStrong
	}
}

func scoreCompleteness(arc StoryArc, counts []characterCount) CompletenessReport {
	r := CompletenessReport{
		HasHook:              arc.Beats.Hook != nil,
		HasConflict:          len(arc.Beats.RisingAction) > 0,
		HasResolution:        arc.Beats.Resolution != nil,
		CharacterDevelopment: rateDevelopment(averageAppearances(counts)),
	}

	if r.HasHook {
		r.OverallScore += hookPoints
	}
	if r.HasConflict {
		r.OverallScore += conflictPoints
	}
	if r.HasResolution {
		r.OverallScore += resolutionPoints
	}
	switch r.CharacterDevelopment {
	case DevelopmentStrong:
		r.OverallScore += strongCharacterPoints
	case DevelopmentModerate:
		r.OverallScore += moderateCharacterPoint
	}
	return r
}
