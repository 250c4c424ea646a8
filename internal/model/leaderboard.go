package model

// LeaderboardEntry is one row of the weekly top list. DisplayName is always
// clean of "@" decorations.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	DisplayName string `json:"display_name"`
	TotalStars  int64  `json:"total_stars"`
	TotalUZS    int64  `json:"total_uzs"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Statistics is the admin aggregate view. Missing upstream fields degrade
// to zero values.
type Statistics struct {
	UsersTotal    int64  `json:"users_total"`
	UsersToday    int64  `json:"users_today"`
	StarsSold     int64  `json:"stars_sold"`
	StarsSum      int64  `json:"stars_sum"`
	TurnoverToday int64  `json:"turnover_today"`
	Date          string `json:"date,omitempty"`
}
