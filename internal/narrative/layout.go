package narrative

// BeatType names the structural role a scene plays in the arc.
type BeatType string

const (
	BeatHook             BeatType = "hook"
	BeatIncitingIncident BeatType = "incitingIncident"
	BeatRisingAction     BeatType = "risingAction"
	BeatMidpoint         BeatType = "midpoint"
	BeatCrisis           BeatType = "crisis"
	BeatClimax           BeatType = "climax"
	BeatResolution       BeatType = "resolution"
	BeatScene            BeatType = "scene"
)

// Act boundary ratios. Act 1 ends at 25%, Act 2 at 75%.
const (
	act1Ratio = 0.25
	act2Ratio = 0.75
)

// layout holds every position-derived fact about a story of n scenes.
// The arc analyzer and the duration advisor both read from it so act
// boundaries and beat positions are computed in exactly one place.
type layout struct {
	n int

	act1End int
	act2End int

	hook        int
	inciting    int
	risingStart int
	risingEnd   int
	midpoint    int
	crisis      int
	climax      int
	resolution  int
}

func newLayout(n int) layout {
	l := layout{
		n:       n,
		act1End: int(float64(n) * act1Ratio),
		act2End: int(float64(n) * act2Ratio),
	}
	if n == 0 {
		return l
	}
	// A lone scene is the setup; the later acts stay empty.
	if n == 1 {
		l.act1End, l.act2End = 1, 1
	}
	l.hook = 0
	l.inciting = min(2, n-1)
	l.risingStart = min(3, n-1)
	l.risingEnd = n / 2
	l.midpoint = n / 2
	l.crisis = max(0, l.act2End-1)
	l.climax = max(0, n-2)
	l.resolution = n - 1
	return l
}

// inRising reports whether position i lies in [risingStart, risingEnd).
func (l layout) inRising(i int) bool {
	return i >= l.risingStart && i < l.risingEnd
}

// beatAt resolves the beat for position i. When several beats share a
// position the first match in hook, incitingIncident, risingAction,
// midpoint, crisis, climax, resolution order wins.
func (l layout) beatAt(i int) BeatType {
	if l.n == 0 || i < 0 || i >= l.n {
		return BeatScene
	}
	switch {
	case i == l.hook:
		return BeatHook
	case i == l.inciting:
		return BeatIncitingIncident
	case l.inRising(i):
		return BeatRisingAction
	case i == l.midpoint:
		return BeatMidpoint
	case i == l.crisis:
		return BeatCrisis
	case i == l.climax:
		return BeatClimax
	case i == l.resolution:
		return BeatResolution
	default:
		return BeatScene
	}
}

// BeatInfo documents one beat's position rule and base duration.
type BeatInfo struct {
	Beat         BeatType `json:"beat"`
	Position     string   `json:"position"`
	BaseDuration int      `json:"baseDuration"`
}

// BeatTable returns the positional rule and base duration of every beat,
// in evaluation order.
func BeatTable() []BeatInfo {
	return []BeatInfo{
		{Beat: BeatHook, Position: "0", BaseDuration: beatBaseDuration[BeatHook]},
		{Beat: BeatIncitingIncident, Position: "min(2, N-1)", BaseDuration: beatBaseDuration[BeatIncitingIncident]},
		{Beat: BeatRisingAction, Position: "[min(3, N-1), floor(N/2))", BaseDuration: beatBaseDuration[BeatRisingAction]},
		{Beat: BeatMidpoint, Position: "floor(N/2)", BaseDuration: beatBaseDuration[BeatMidpoint]},
		{Beat: BeatCrisis, Position: "max(0, floor(0.75N)-1)", BaseDuration: beatBaseDuration[BeatCrisis]},
		{Beat: BeatClimax, Position: "max(0, N-2)", BaseDuration: beatBaseDuration[BeatClimax]},
		{Beat: BeatResolution, Position: "N-1", BaseDuration: beatBaseDuration[BeatResolution]},
		{Beat: BeatScene, Position: "any other", BaseDuration: defaultSceneDuration},
	}
}
