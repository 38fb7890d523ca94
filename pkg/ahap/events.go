package ahap

import (
	"fmt"
	"math"
)

// Defaults used by the builders when the caller has no preference
const (
	DefaultIntensity = 0.5
	DefaultSharpness = 0.5
	DefaultDuration  = 1.0
	DefaultVolume    = 0.75
)

// Intensity, sharpness and volume are passed through as given. Keeping them
// in [0, 1] is the caller's job; only NaN and infinities are rejected, since
// JSON cannot encode them.

// AddHapticTransient adds a haptic transient event
func (a *AHAP) AddHapticTransient(time, intensity, sharpness float64) error {
	if err := checkTime(time); err != nil {
		return err
	}
	if err := checkValues(intensity, sharpness); err != nil {
		return err
	}
	a.AddEvent(EventTypeHapticTransient, time, []EventParameter{
		{ParameterID: ParamHapticIntensity, ParameterValue: intensity},
		{ParameterID: ParamHapticSharpness, ParameterValue: sharpness},
	}, nil, nil)
	return nil
}

// AddHapticContinuous adds a haptic continuous event
func (a *AHAP) AddHapticContinuous(time, duration, intensity, sharpness float64) error {
	if err := checkTime(time); err != nil {
		return err
	}
	if err := checkDuration(duration); err != nil {
		return err
	}
	if err := checkValues(intensity, sharpness); err != nil {
		return err
	}
	a.AddEvent(EventTypeHapticContinuous, time, []EventParameter{
		{ParameterID: ParamHapticIntensity, ParameterValue: intensity},
		{ParameterID: ParamHapticSharpness, ParameterValue: sharpness},
	}, &duration, nil)
	return nil
}

// AddAudioCustom adds a custom audio event playing a waveform file
func (a *AHAP) AddAudioCustom(time float64, waveformPath string, volume float64) error {
	if err := checkTime(time); err != nil {
		return err
	}
	if waveformPath == "" {
		return fmt.Errorf("%w: audio custom event needs a waveform path", ErrInvalidArgument)
	}
	if err := checkValues(volume); err != nil {
		return err
	}
	a.AddEvent(EventTypeAudioCustom, time, []EventParameter{
		{ParameterID: ParamAudioVolume, ParameterValue: volume},
	}, nil, &waveformPath)
	return nil
}

// AddAudioContinuous adds an audio continuous event
func (a *AHAP) AddAudioContinuous(time, duration, volume float64) error {
	if err := checkTime(time); err != nil {
		return err
	}
	if err := checkDuration(duration); err != nil {
		return err
	}
	if err := checkValues(volume); err != nil {
		return err
	}
	a.AddEvent(EventTypeAudioContinuous, time, []EventParameter{
		{ParameterID: ParamAudioVolume, ParameterValue: volume},
	}, &duration, nil)
	return nil
}

func checkTime(t float64) error {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: time must be a finite non-negative number, got %g", ErrInvalidArgument, t)
	}
	return nil
}

func checkDuration(d float64) error {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidArgument, d)
	}
	return nil
}

func checkValues(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: parameter value must be finite, got %g", ErrInvalidArgument, v)
		}
	}
	return nil
}
