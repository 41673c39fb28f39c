package model

// LeaderboardEntry ranks one template survey's app
type LeaderboardEntry struct {
	AppName           string  `json:"app_name"`
	AverageRating     float64 `json:"average_rating"`
	HelpfulPercentage float64 `json:"helpful_percentage"`
	Rank              int     `json:"rank"`
}
