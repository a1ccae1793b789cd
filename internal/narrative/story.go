package narrative

// Story is the analysis context for one request. It normalizes the
// scenes once and memoizes derived views for its own lifetime only, so
// sibling operations in a single call share work without any state
// surviving across calls.
//
// A Story is not safe for concurrent use. Returned slices share memory
// with the Story and must be treated as read-only.
type Story struct {
	scenes []Scene
	layout layout

	arc       *StoryArc
	durations []SceneDuration
	tension   []TensionPoint
	counts    []characterCount
	counted   bool
}

// NewStory builds an analysis context over scenes. The input slice is
// copied; the caller's scenes are never modified.
func NewStory(scenes []Scene) *Story {
	normalized := normalizeScenes(scenes)
	return &Story{
		scenes: normalized,
		layout: newLayout(len(normalized)),
	}
}

// Len returns the number of scenes.
func (st *Story) Len() int {
	return len(st.scenes)
}

// Scenes returns the normalized scenes.
func (st *Story) Scenes() []Scene {
	return st.scenes
}

// SceneDurations suggests an on-screen duration per scene, in input order.
func (st *Story) SceneDurations() []SceneDuration {
	if st.durations == nil {
		st.durations = buildDurations(st.scenes, st.layout)
	}
	return st.durations
}

// Arc partitions the story into acts and assigns narrative beats.
func (st *Story) Arc() StoryArc {
	if st.arc == nil {
		arc := buildArc(st.scenes, st.layout, st.SceneDurations())
		st.arc = &arc
	}
	return *st.arc
}

// TensionCurve returns one tension point per scene, in input order.
func (st *Story) TensionCurve() []TensionPoint {
	if st.tension == nil {
		st.tension = buildTensionCurve(st.scenes)
	}
	return st.tension
}

// EmotionalPeaks returns the IDs of scenes whose tension is 8 or more.
func (st *Story) EmotionalPeaks() []int {
	return peakIDs(st.TensionCurve())
}

// Coaching evaluates every coaching rule against the story.
func (st *Story) Coaching() []Suggestion {
	return runCoaching(st)
}

// Completeness scores the story on a 0-100 scale.
func (st *Story) Completeness() CompletenessReport {
	return scoreCompleteness(st.Arc(), st.characters())
}

// FullAnalysis combines every view into one result.
func (st *Story) FullAnalysis() FullAnalysis {
	return FullAnalysis{
		Arc:            st.Arc(),
		TensionCurve:   st.TensionCurve(),
		Suggestions:    st.Coaching(),
		EmotionalPeaks: st.EmotionalPeaks(),
		Completeness:   st.Completeness(),
	}
}

func (st *Story) characters() []characterCount {
	if !st.counted {
		st.counts = countCharacters(st.scenes)
		st.counted = true
	}
	return st.counts
}

// FullAnalysis is the combined result of every analysis action.
type FullAnalysis struct {
	Arc            StoryArc           `json:"arc"`
	TensionCurve   []TensionPoint     `json:"tensionCurve"`
	Suggestions    []Suggestion       `json:"suggestions"`
	EmotionalPeaks []int              `json:"emotionalPeaks"`
	Completeness   CompletenessReport `json:"completeness"`
}

// AnalyzeArc computes the story arc for scenes.
func AnalyzeArc(scenes []Scene) StoryArc {
	return NewStory(scenes).Arc()
}

// TensionCurve computes the tension curve for scenes.
func TensionCurve(scenes []Scene) []TensionPoint {
	return NewStory(scenes).TensionCurve()
}

// SceneDurations computes duration suggestions for scenes.
func SceneDurations(scenes []Scene) []SceneDuration {
	return NewStory(scenes).SceneDurations()
}

// EmotionalPeaks returns the IDs of peak-tension scenes.
func EmotionalPeaks(scenes []Scene) []int {
	return NewStory(scenes).EmotionalPeaks()
}

// Coaching generates coaching suggestions for scenes.
func Coaching(scenes []Scene) []Suggestion {
	return NewStory(scenes).Coaching()
}

// Completeness scores scenes for completeness.
func Completeness(scenes []Scene) CompletenessReport {
	return NewStory(scenes).Completeness()
}

// Analyze runs the full analysis for scenes.
func Analyze(scenes []Scene) FullAnalysis {
	return NewStory(scenes).FullAnalysis()
}
