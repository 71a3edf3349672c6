package dto

type TourStatsDTO struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"numTours"`
	NumRatings int     `json:"numRatings"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

type MonthlyPlanDTO struct {
	Month    int      `json:"month"`
	NumTours int      `json:"numTourStarts"`
	Tours    []string `json:"tours"`
}
