package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompute_FiveAndAHalfHours(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	out := in.Add(5*time.Hour + 30*time.Minute)

	hours, earnings := Compute(in, out, 20)
	assert.Equal(t, 5.50, hours)
	assert.Equal(t, 110.00, earnings)
}

func TestCompute_FiveHours(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 2, 0, 0, time.UTC)
	out := in.Add(5 * time.Hour)

	hours, earnings := Compute(in, out, 15)
	assert.Equal(t, 5.00, hours)
	assert.Equal(t, 75.00, earnings)
}

func TestCompute_ZeroDuration(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	hours, earnings := Compute(in, in, 20)
	assert.Equal(t, 0.0, hours)
	assert.Equal(t, 0.0, earnings)
}

func TestCompute_EarningsRoundedAfterMultiplication(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	// 100 minutes = 1.666... hours; at 9/hr that is exactly 15.00 only if the
	// multiplication uses the unrounded duration.
	out := in.Add(100 * time.Minute)

	hours, earnings := Compute(in, out, 9)
	assert.Equal(t, 1.67, hours)
	assert.Equal(t, 15.00, earnings)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, 1.0, Round2(0.995))
	assert.Equal(t, -2.68, Round2(-2.675))
	assert.Equal(t, 5.5, Round2(5.5))
}
