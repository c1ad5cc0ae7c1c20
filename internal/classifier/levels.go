package classifier

// Performance levels form a closed categorical domain.
const (
	LevelPoor         = "Poor"
	LevelBelowAverage = "Below Average"
	LevelAverage      = "Average"
	LevelGood         = "Good"
	LevelExcellent    = "Excellent"
)

// Quiz-score thresholds for deriving a performance level.
const (
	ExcellentThreshold    = 80.0
	GoodThreshold         = 70.0
	AverageThreshold      = 60.0
	BelowAverageThreshold = 50.0
)

// FallbackLevel maps a quiz score onto a performance level using the
// fixed threshold table. It is used both to derive missing labels at
// training time and as the serving fallback when no model exists.
func FallbackLevel(score float64) string {
	switch {
	case score >= ExcellentThreshold:
		return LevelExcellent
	case score >= GoodThreshold:
		return LevelGood
	case score >= AverageThreshold:
		return LevelAverage
	case score >= BelowAverageThreshold:
		return LevelBelowAverage
	default:
		return LevelPoor
	}
}
