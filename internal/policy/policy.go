// Package policy maps numeric course scores to grade points.
package policy

// ScoreFunc transforms a raw course score before credit weighting.
type ScoreFunc func(score float64) float64

// band is a half-open score interval [Min, Max) mapped to a grade point.
type band struct {
	Min   float64
	Max   float64
	Point float64
}

// bands is ordered from the highest grade point down. The top band is closed
// at 100.
var bands = []band{
	{95, 100, 4.3},
	{90, 95, 4.0},
	{85, 90, 3.7},
	{80, 85, 3.3},
	{75, 80, 3.0},
	{70, 75, 2.7},
	{67, 70, 2.3},
	{65, 67, 2.0},
	{62, 65, 1.7},
	{60, 62, 1.0},
}

// CreditPoint returns the grade point for a score. Failing and out-of-range
// scores map to 0.
func CreditPoint(score float64) float64 {
	if score == 100 {
		return bands[0].Point
	}
	for _, b := range bands {
		if score >= b.Min && score < b.Max {
			return b.Point
		}
	}
	return 0
}

// Identity returns the score unchanged. It yields the cumulative average.
func Identity(score float64) float64 {
	return score
}
