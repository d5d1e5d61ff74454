package quality

import (
	"fmt"
	"math"
)

// Checker flags prices that deviate sharply from the rolling average of
// values seen earlier in the same import. Findings are advisory: the
// pipeline logs them and keeps the row, since negative and extreme prices
// are legal on spot markets.
type Checker struct {
	spikeThreshold float64
	minDataPoints  int
}

// NewChecker creates a checker with the given spike threshold and the
// minimum number of prior values required before flagging anything.
func NewChecker(spikeThreshold float64, minDataPoints int) *Checker {
	return &Checker{
		spikeThreshold: spikeThreshold,
		minDataPoints:  minDataPoints,
	}
}

// Check reports whether the price looks like a spike against the recent
// values, with a human-readable reason.
func (c *Checker) Check(price float64, recent []float64) (bool, string) {
	if len(recent) < c.minDataPoints {
		return false, ""
	}

	sum := 0.0
	for _, v := range recent {
		sum += math.Abs(v)
	}
	average := sum / float64(len(recent))

	if average > 0 && math.Abs(price) > c.spikeThreshold*average {
		return true, fmt.Sprintf("price %.2f exceeds %.1fx rolling average %.2f",
			price, c.spikeThreshold, average)
	}

	return false, ""
}
