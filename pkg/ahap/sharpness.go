package ahap

import (
	"fmt"
	"math"
)

// Frequency bounds of the sharpness scale in Hz
const (
	MinFrequency = 80.0
	MaxFrequency = 230.0
)

// FreqToSharpness converts a frequency in Hz to a sharpness value in [0, 1]
// on a logarithmic scale between MinFrequency and MaxFrequency.
//
// With normalize set, frequencies outside the bounds are clamped to them and
// the call cannot fail. Without it, an out of bounds frequency returns
// ErrOutOfRange. NaN is rejected in both modes.
func FreqToSharpness(freq float64, normalize bool) (float64, error) {
	if math.IsNaN(freq) {
		return 0, fmt.Errorf("%w: frequency is NaN", ErrInvalidArgument)
	}
	if normalize {
		if freq > MaxFrequency {
			freq = MaxFrequency
		}
		if freq < MinFrequency {
			freq = MinFrequency
		}
	}

	if freq < MinFrequency || freq > MaxFrequency {
		return 0, fmt.Errorf("%w: frequency must be between %g and %g, but it is %g",
			ErrOutOfRange, MinFrequency, MaxFrequency, freq)
	}

	r := (math.Log(freq) - math.Log(MinFrequency)) / (math.Log(MaxFrequency) - math.Log(MinFrequency))

	if r < 0 || r > 1 {
		return 0, fmt.Errorf("%w: normalized frequency %g is outside [0, 1]", ErrOutOfRange, r)
	}

	return r, nil
}

// Freq is FreqToSharpness with clamping enabled
func Freq(freq float64) float64 {
	// clamped input keeps r inside [0, 1]
	r, _ := FreqToSharpness(freq, true)
	return r
}
