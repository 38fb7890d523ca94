package ahap

import (
	"fmt"
	"math"
)

// DefaultSteps is the number of control points a curve segment gets when the caller has no preference
const DefaultSteps = 10

// MaxSteps bounds the control points of one generated segment
const MaxSteps = 10000

func checkSteps(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("%w: curve needs a positive step count, got %d", ErrInvalidArgument, steps)
	}
	if steps > MaxSteps {
		return fmt.Errorf("%w: curve step count %d exceeds %d", ErrInvalidArgument, steps, MaxSteps)
	}
	return nil
}

// CreateCurve creates steps control points on a straight line from
// (startTime, startValue) to (endTime, endValue). The start point itself is
// not emitted, the last point lands on the end point.
func CreateCurve(startTime, endTime, startValue, endValue float64, steps int) ([]ControlPoint, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}

	timeStep := (endTime - startTime) / float64(steps)
	valueStep := (endValue - startValue) / float64(steps)

	points := make([]ControlPoint, steps)
	for i := 1; i <= steps; i++ {
		points[i-1] = ControlPoint{
			Time:           startTime + timeStep*float64(i),
			ParameterValue: startValue + valueStep*float64(i),
		}
	}
	return points, nil
}

// LinearInterpolation creates a linear curve between two points
func LinearInterpolation(start, end ControlPoint, steps int) ([]ControlPoint, error) {
	return CreateCurve(start.Time, end.Time, start.ParameterValue, end.ParameterValue, steps)
}

// EaseInOut creates a smoothstep curve between two points.
// Times advance uniformly, values follow t*t*(3-2t).
func EaseInOut(start, end ControlPoint, steps int) ([]ControlPoint, error) {
	return shapedCurve(start, end, steps, func(t float64) float64 {
		return t * t * (3.0 - 2.0*t)
	})
}

// Exponential creates a curve whose value follows t^exponent
func Exponential(start, end ControlPoint, steps int, exponent float64) ([]ControlPoint, error) {
	if exponent <= 0 || math.IsNaN(exponent) || math.IsInf(exponent, 0) {
		return nil, fmt.Errorf("%w: exponent must be a positive finite number, got %g", ErrInvalidArgument, exponent)
	}
	return shapedCurve(start, end, steps, func(t float64) float64 {
		return math.Pow(t, exponent)
	})
}

func shapedCurve(start, end ControlPoint, steps int, shape func(float64) float64) ([]ControlPoint, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}

	timeDiff := end.Time - start.Time
	valueDiff := end.ParameterValue - start.ParameterValue

	points := make([]ControlPoint, steps)
	for i := 0; i < steps; i++ {
		t := float64(i+1) / float64(steps)
		points[i] = ControlPoint{
			Time:           start.Time + timeDiff*t,
			ParameterValue: start.ParameterValue + valueDiff*shape(t),
		}
	}
	return points, nil
}
