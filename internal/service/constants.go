package service

const (
	// Default used when the profile omits a max heart rate
	DefaultMaxHR = 185

	// Trend windows: this week against the four weeks before it
	TrendRecentDays = 7
	TrendPriorDays  = 28

	// History fetched for load and prediction queries
	LoadHistoryDays       = 35
	PredictionHistoryDays = 90

	// HR validation thresholds for imported workouts
	MinValidHeartRate = 30
	MaxValidHeartRate = 230
)
