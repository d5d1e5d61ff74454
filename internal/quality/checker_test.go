package quality_test

import (
	"testing"

	"github.com/enerflux/market-import-worker/internal/quality"
)

const (
	testSpikeThreshold = 3.0
	testMinDataPoints  = 3
)

func TestCheck_SpikeFlagged(t *testing.T) {
	checker := quality.NewChecker(testSpikeThreshold, testMinDataPoints)

	recent := []float64{250, 260, 245, 255}
	flagged, reason := checker.Check(900.0, recent)

	if !flagged {
		t.Error("expected spike to be flagged")
	}
	if reason == "" {
		t.Error("expected a reason for the flag")
	}
}

func TestCheck_NormalPrice(t *testing.T) {
	checker := quality.NewChecker(testSpikeThreshold, testMinDataPoints)

	recent := []float64{250, 260, 245, 255}
	flagged, reason := checker.Check(262.0, recent)

	if flagged {
		t.Errorf("expected no flag, got: %s", reason)
	}
}

func TestCheck_NegativePriceWithinRangeNotFlagged(t *testing.T) {
	checker := quality.NewChecker(testSpikeThreshold, testMinDataPoints)

	// Negative clearing prices are valid on spot markets.
	recent := []float64{-20, -15, -25}
	flagged, reason := checker.Check(-18.0, recent)

	if flagged {
		t.Errorf("expected no flag for an ordinary negative price, got: %s", reason)
	}
}

func TestCheck_NegativeSpikeFlagged(t *testing.T) {
	checker := quality.NewChecker(testSpikeThreshold, testMinDataPoints)

	recent := []float64{250, 260, 245}
	flagged, _ := checker.Check(-900.0, recent)

	if !flagged {
		t.Error("expected flag for a large negative outlier")
	}
}

func TestCheck_InsufficientData(t *testing.T) {
	checker := quality.NewChecker(testSpikeThreshold, testMinDataPoints)

	flagged, _ := checker.Check(900.0, []float64{250, 260})

	if flagged {
		t.Error("expected no flag with fewer than minDataPoints values")
	}
}
