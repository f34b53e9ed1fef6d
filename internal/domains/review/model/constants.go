package model

const (
	// Rating
	MinRating = 1
	MaxRating = 5
)
