package service

import (
	"math"

	"github.com/example/academia/internal/domain"
)

// ProductScore weighs sales, conversion and price into one performance
// number, rounded to two decimals.
func ProductScore(p domain.VideoProduct) float64 {
	score := float64(p.SalesCount)*0.5 + p.ConversionRate*100*0.3 + p.Price*0.2
	return math.Round(score*100) / 100
}
