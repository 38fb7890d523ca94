package ahap

import (
	"fmt"
)

// Quantity is a physical quantity that can be set on an event or driven by a curve
type Quantity int

// Quantities in the order the catalog lists them
const (
	HapticIntensity Quantity = iota
	HapticSharpness
	HapticAttackTime
	HapticDecayTime
	HapticReleaseTime
	AudioBrightness
	AudioPan
	AudioPitch
	AudioVolume
	AudioAttackTime
	AudioDecayTime
	AudioReleaseTime
	numQuantities
)

// ParamID identifies a parameter inside Event.EventParameters
type ParamID string

// CurveParamID identifies the parameter a ParameterCurve drives
type CurveParamID string

const curveSuffix = "Control"

// quantityNames is the single source for both ID spaces.
// The event form is the bare name, the curve form appends curveSuffix.
var quantityNames = [numQuantities]string{
	HapticIntensity:   "HapticIntensity",
	HapticSharpness:   "HapticSharpness",
	HapticAttackTime:  "HapticAttackTime",
	HapticDecayTime:   "HapticDecayTime",
	HapticReleaseTime: "HapticReleaseTime",
	AudioBrightness:   "AudioBrightness",
	AudioPan:          "AudioPan",
	AudioPitch:        "AudioPitch",
	AudioVolume:       "AudioVolume",
	AudioAttackTime:   "AudioAttackTime",
	AudioDecayTime:    "AudioDecayTime",
	AudioReleaseTime:  "AudioReleaseTime",
}

// Event parameter IDs
const (
	ParamHapticIntensity   ParamID = "HapticIntensity"
	ParamHapticSharpness   ParamID = "HapticSharpness"
	ParamHapticAttackTime  ParamID = "HapticAttackTime"
	ParamHapticDecayTime   ParamID = "HapticDecayTime"
	ParamHapticReleaseTime ParamID = "HapticReleaseTime"
	ParamAudioBrightness   ParamID = "AudioBrightness"
	ParamAudioPan          ParamID = "AudioPan"
	ParamAudioPitch        ParamID = "AudioPitch"
	ParamAudioVolume       ParamID = "AudioVolume"
	ParamAudioAttackTime   ParamID = "AudioAttackTime"
	ParamAudioDecayTime    ParamID = "AudioDecayTime"
	ParamAudioReleaseTime  ParamID = "AudioReleaseTime"
)

// Curve parameter IDs
const (
	CurveHapticIntensity   CurveParamID = "HapticIntensityControl"
	CurveHapticSharpness   CurveParamID = "HapticSharpnessControl"
	CurveHapticAttackTime  CurveParamID = "HapticAttackTimeControl"
	CurveHapticDecayTime   CurveParamID = "HapticDecayTimeControl"
	CurveHapticReleaseTime CurveParamID = "HapticReleaseTimeControl"
	CurveAudioBrightness   CurveParamID = "AudioBrightnessControl"
	CurveAudioPan          CurveParamID = "AudioPanControl"
	CurveAudioPitch        CurveParamID = "AudioPitchControl"
	CurveAudioVolume       CurveParamID = "AudioVolumeControl"
	CurveAudioAttackTime   CurveParamID = "AudioAttackTimeControl"
	CurveAudioDecayTime    CurveParamID = "AudioDecayTimeControl"
	CurveAudioReleaseTime  CurveParamID = "AudioReleaseTimeControl"
)

// Quantities returns every quantity in catalog order
func Quantities() []Quantity {
	qs := make([]Quantity, 0, numQuantities)
	for q := Quantity(0); q < numQuantities; q++ {
		qs = append(qs, q)
	}
	return qs
}

// Valid reports whether q is a catalog entry
func (q Quantity) Valid() bool {
	return q >= 0 && q < numQuantities
}

// String returns the quantity name without any suffix
func (q Quantity) String() string {
	if !q.Valid() {
		return fmt.Sprintf("Quantity(%d)", int(q))
	}
	return quantityNames[q]
}

// Param returns the event parameter ID for q
func (q Quantity) Param() ParamID {
	if !q.Valid() {
		return ""
	}
	return ParamID(quantityNames[q])
}

// Curve returns the curve parameter ID for q
func (q Quantity) Curve() CurveParamID {
	if !q.Valid() {
		return ""
	}
	return CurveParamID(quantityNames[q] + curveSuffix)
}

// Quantity returns the quantity an event parameter ID names
func (p ParamID) Quantity() (Quantity, bool) {
	for q := Quantity(0); q < numQuantities; q++ {
		if q.Param() == p {
			return q, true
		}
	}
	return 0, false
}

// Valid reports whether p is a known event parameter ID
func (p ParamID) Valid() bool {
	_, ok := p.Quantity()
	return ok
}

// Quantity returns the quantity a curve parameter ID names
func (c CurveParamID) Quantity() (Quantity, bool) {
	for q := Quantity(0); q < numQuantities; q++ {
		if q.Curve() == c {
			return q, true
		}
	}
	return 0, false
}

// Valid reports whether c is a known curve parameter ID
func (c CurveParamID) Valid() bool {
	_, ok := c.Quantity()
	return ok
}

// ParseParamID converts an untyped string into an event parameter ID.
// Curve IDs are rejected so the two spaces never mix.
func ParseParamID(s string) (ParamID, error) {
	p := ParamID(s)
	if p.Valid() {
		return p, nil
	}
	if CurveParamID(s).Valid() {
		return "", fmt.Errorf("%w: %q is a curve parameter, not an event parameter", ErrInvalidArgument, s)
	}
	return "", fmt.Errorf("%w: unknown event parameter %q", ErrInvalidArgument, s)
}

// ParseCurveParamID converts an untyped string into a curve parameter ID.
// Event IDs are rejected so the two spaces never mix.
func ParseCurveParamID(s string) (CurveParamID, error) {
	c := CurveParamID(s)
	if c.Valid() {
		return c, nil
	}
	if ParamID(s).Valid() {
		return "", fmt.Errorf("%w: %q is an event parameter, not a curve parameter", ErrInvalidArgument, s)
	}
	return "", fmt.Errorf("%w: unknown curve parameter %q", ErrInvalidArgument, s)
}
