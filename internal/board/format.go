package board

import (
	"fmt"
	"math"

	"github.com/thevedantmod/stand-clear/internal/model"
)

// arrivingThreshold is the countdown at or below which a train is shown as
// arriving rather than as a number of minutes.
const arrivingThreshold = 60

// Countdown formats seconds-remaining as a board label: "Arriving" at or
// below a minute (negative values included), otherwise whole minutes
// truncated toward zero.
func Countdown(seconds model.Seconds) string {
	if IsArriving(seconds) {
		return "Arriving"
	}
	return fmt.Sprintf("%d min", int64(math.Floor(float64(seconds)/60)))
}

// IsArriving reports whether the countdown is within the arriving window.
func IsArriving(seconds model.Seconds) bool {
	return float64(seconds) <= arrivingThreshold
}
