package model

import "github.com/shopspring/decimal"

// RatingSummary is the aggregate shown next to a book. It is never stored.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewsCount  int     `json:"reviewsCount"`
}

// ComputeRating returns the arithmetic mean of ratings, 0 when there are none.
func ComputeRating(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}

	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r)))
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(ratings)))).Float64()

	return RatingSummary{
		AverageRating: avg,
		ReviewsCount:  len(ratings),
	}
}
