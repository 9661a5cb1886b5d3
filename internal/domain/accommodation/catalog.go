package accommodation

import (
	"math"
	"math/rand/v2"
	"slices"
)

var Types = []string{"Entire Unit", "Room", "Whole Villa"}

var Locations = []string{
	"Cape Town", "Paris", "New York", "Tokyo", "London",
	"Barcelona", "Rome", "Sydney", "Dubai", "Bangkok",
}

func IsType(v string) bool {
	return slices.Contains(Types, v)
}

func IsLocation(v string) bool {
	return slices.Contains(Locations, v)
}

const (
	MinImages = 1
	MaxImages = 10
)

// Stats are the placeholder rating and review count given to new listings.
type Stats struct {
	Rating  float64
	Reviews int
}

// MockStats draws a rating in [4.0, 5.0] with one decimal and 1 to 500 reviews.
func MockStats(r *rand.Rand) Stats {
	var rating float64
	var reviews int
	if r == nil {
		rating, reviews = rand.Float64(), rand.IntN(500)
	} else {
		rating, reviews = r.Float64(), r.IntN(500)
	}
	return Stats{
		Rating:  math.Round((4+rating)*10) / 10,
		Reviews: reviews + 1,
	}
}
