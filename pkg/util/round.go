package util

import (
    "math"
)

// Round2 rounds to two decimal places (money display).
func Round2(v float64) float64 {
    return math.Round(v*100) / 100
}
