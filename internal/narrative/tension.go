package narrative

import "math"

// Tension curve shape parameters.
const (
	climaxRiseFraction = 0.3
	climaxFallFraction = 0.7
	climaxRiseSlope    = 3.33
	peakThreshold      = 8
	minTension         = 0
	maxTension         = 10
)

// TensionPoint is the dramatic intensity of one scene on a 0-10 scale.
type TensionPoint struct {
	SceneID       int  `json:"sceneId"`
	TensionLevel  int  `json:"tensionLevel"`
	EmotionalPeak bool `json:"emotionalPeak"`
}

// tensionAt evaluates the dramatic-arc shape function at position index
// of n. It depends only on position, never on scene content.
//
//	Act 1 (p < 0.25):  2 -> 5
//	Act 2 (p < 0.75):  5 -> 9
//	Act 3:             9 -> 10 over the first 30%, then 10 -> 3
func tensionAt(index, n int) int {
	p := float64(index) / float64(n)

	// Divisors stay literal: 1-0.3 is not the same float64 as 0.7, and the
	// difference flips rounding at some breakpoints.
	var v float64
	switch {
	case p < act1Ratio:
		v = 2 + (p/0.25)*3
	case p < act2Ratio:
		v = 5 + ((p-0.25)/0.5)*4
	default:
		q := (p - 0.75) / 0.25
		if q < climaxRiseFraction {
			v = 9 + q*climaxRiseSlope
		} else {
			v = 10 - ((q-climaxRiseFraction)/climaxFallFraction)*7
		}
	}

	level := int(math.Round(v))
	return min(maxTension, max(minTension, level))
}

func buildTensionCurve(scenes []Scene) []TensionPoint {
	n := len(scenes)
	curve := make([]TensionPoint, n)
	for i, s := range scenes {
		level := tensionAt(i, n)
		curve[i] = TensionPoint{
			SceneID:       s.ID,
			TensionLevel:  level,
			EmotionalPeak: level >= peakThreshold,
		}
	}
	return curve
}

func peakIDs(curve []TensionPoint) []int {
	ids := []int{}
	for _, pt := range curve {
		if pt.EmotionalPeak {
			ids = append(ids, pt.SceneID)
		}
	}
	return ids
}
