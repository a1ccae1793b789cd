package narrative

// Duration tuning, in seconds.
const (
	defaultSceneDuration = 5
	maxSceneDuration     = 15

	longDescription     = 200
	longDescriptionBump = 2
	veryLongDescription = 400
	veryLongBump        = 4

	crowdedScene     = 2
	crowdedSceneBump = 1
)

var beatBaseDuration = map[BeatType]int{
	BeatHook:             3,
	BeatIncitingIncident: 6,
	BeatRisingAction:     5,
	BeatMidpoint:         7,
	BeatCrisis:           6,
	BeatClimax:           8,
	BeatResolution:       5,
	BeatScene:            defaultSceneDuration,
}

// SceneDuration is the on-screen time suggested for one scene.
type SceneDuration struct {
	SceneID           int      `json:"sceneId"`
	SuggestedDuration int      `json:"suggestedDuration"`
	BeatType          BeatType `json:"beatType"`
}

// suggestDuration folds beat type, description length and cast size
// into a duration. The description bonus is a single chain: very long
// descriptions get +4, not +2+4.
func suggestDuration(s Scene, beat BeatType) int {
	d, ok := beatBaseDuration[beat]
	if !ok {
		d = defaultSceneDuration
	}

	switch length := s.descriptionLength(); {
	case length > veryLongDescription:
		d += veryLongBump
	case length > longDescription:
		d += longDescriptionBump
	}

	if len(s.Characters) > crowdedScene {
		d += crowdedSceneBump
	}

	return min(d, maxSceneDuration)
}

func buildDurations(scenes []Scene, l layout) []SceneDuration {
	out := make([]SceneDuration, len(scenes))
	for i, s := range scenes {
		beat := l.beatAt(i)
		d := suggestDuration(s, beat)
		if s.Duration != nil && *s.Duration > 0 {
			d = *s.Duration
		}
		out[i] = SceneDuration{SceneID: s.ID, SuggestedDuration: d, BeatType: beat}
	}
	return out
}
