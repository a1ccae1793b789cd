package narrative

// Act is a half-open range [Start, End) of scene positions.
type Act struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Scenes []int  `json:"scenes"`
	Label  string `json:"label"`
}

// Acts partitions the story into setup, confrontation and resolution.
type Acts struct {
	Act1 Act `json:"act1"`
	Act2 Act `json:"act2"`
	Act3 Act `json:"act3"`
}

// Beats maps each narrative beat to a scene ID. Nil means the story has
// no scene for that beat.
type Beats struct {
	Hook             *int  `json:"hook,omitempty"`
	IncitingIncident *int  `json:"incitingIncident,omitempty"`
	RisingAction     []int `json:"risingAction"`
	Midpoint         *int  `json:"midpoint,omitempty"`
	Crisis           *int  `json:"crisis,omitempty"`
	Climax           *int  `json:"climax,omitempty"`
	Resolution       *int  `json:"resolution,omitempty"`
}

// Pacing summarizes on-screen time.
type Pacing struct {
	TotalDuration     int             `json:"totalDuration"`
	SceneDistribution []SceneDuration `json:"sceneDistribution"`
}

// StoryArc is the three-act view of a story.
type StoryArc struct {
	Acts   Acts   `json:"acts"`
	Beats  Beats  `json:"beats"`
	Pacing Pacing `json:"pacing"`
}

const (
	act1Label = "Setup"
	act2Label = "Confrontation"
	act3Label = "Resolution"
)

func buildArc(scenes []Scene, l layout, durations []SceneDuration) StoryArc {
	ids := sceneIDs(scenes)

	arc := StoryArc{
		Acts: Acts{
			Act1: newAct(ids, 0, l.act1End, act1Label),
			Act2: newAct(ids, l.act1End, l.act2End, act2Label),
			Act3: newAct(ids, l.act2End, l.n, act3Label),
		},
		Beats: Beats{RisingAction: []int{}},
	}

	if l.n > 0 {
		arc.Beats.Hook = idAt(ids, l.hook)
		arc.Beats.IncitingIncident = idAt(ids, l.inciting)
		for i := l.risingStart; i < l.risingEnd; i++ {
			arc.Beats.RisingAction = append(arc.Beats.RisingAction, ids[i])
		}
		arc.Beats.Midpoint = idAt(ids, l.midpoint)
		arc.Beats.Crisis = idAt(ids, l.crisis)
		arc.Beats.Climax = idAt(ids, l.climax)
		arc.Beats.Resolution = idAt(ids, l.resolution)
	}

	total := 0
	for _, d := range durations {
		total += d.SuggestedDuration
	}
	arc.Pacing = Pacing{TotalDuration: total, SceneDistribution: durations}
	return arc
}

func newAct(ids []int, start, end int, label string) Act {
	scenes := make([]int, 0, max(0, end-start))
	scenes = append(scenes, ids[start:end]...)
	return Act{Start: start, End: end, Scenes: scenes, Label: label}
}

func idAt(ids []int, pos int) *int {
	if pos < 0 || pos >= len(ids) {
		return nil
	}
	id := ids[pos]
	return &id
}

// share returns the fraction of all scenes that fall in the act.
func (a Act) share(total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(len(a.Scenes)) / float64(total)
}
