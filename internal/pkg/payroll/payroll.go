package payroll

import (
	"math"
	"time"
)

// roundEpsilon absorbs binary float noise so values like 2.675 round up as expected.
const roundEpsilon = 1e-9

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	if v >= 0 {
		return math.Floor(v*100+0.5+roundEpsilon) / 100
	}
	return math.Ceil(v*100-0.5-roundEpsilon) / 100
}

// Compute derives worked hours and earnings from a clock-in/clock-out pair and
// an hourly rate. The caller guarantees clockOut >= clockIn; earnings are
// rounded after the multiplication, not before.
func Compute(clockIn, clockOut time.Time, hourlyRate float64) (totalHours, earnings float64) {
	rawHours := clockOut.Sub(clockIn).Hours()
	totalHours = Round2(rawHours)
	earnings = Round2(rawHours * hourlyRate)
	return totalHours, earnings
}
