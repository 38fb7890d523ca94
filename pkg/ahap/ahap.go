// Package ahap builds Apple Haptic and Audio Pattern (AHAP) documents
package ahap

import (
	"time"
)

// Version is the only AHAP format version this package writes
const Version = 1.0

// Project is the fixed project name written into document metadata
const Project = "Basis"

// CreatedLayout is the timestamp layout of Metadata.Created
const CreatedLayout = "2006-01-02 15:04:05.000000"

// AHAP represents a complete haptic pattern document.
//
// The pattern list is append only: entries are copied in on append and
// copied out by Patterns, so nothing outside the document can change them.
// An AHAP is not safe for concurrent mutation; callers sharing one across
// goroutines must guard the builder calls themselves.
type AHAP struct {
	Version  float64
	Metadata Metadata
	pattern  []Pattern
}

// Metadata contains file metadata
type Metadata struct {
	Project     string `json:"Project"`
	Created     string `json:"Created"`
	Description string `json:"Description"`
	CreatedBy   string `json:"Created By"`
}

// Pattern is one entry of the document: either an Event or a ParameterCurve
type Pattern struct {
	Event          *Event          `json:"Event,omitempty"`
	ParameterCurve *ParameterCurve `json:"ParameterCurve,omitempty"`
}

// EventType names the kind of an Event
type EventType string

// Event types
const (
	EventTypeHapticTransient  EventType = "HapticTransient"
	EventTypeHapticContinuous EventType = "HapticContinuous"
	EventTypeAudioCustom      EventType = "AudioCustom"
	EventTypeAudioContinuous  EventType = "AudioContinuous"
)

// Event represents a haptic or audio event
type Event struct {
	Time              float64          `json:"Time"`
	EventType         EventType        `json:"EventType"`
	EventParameters   []EventParameter `json:"EventParameters"`
	EventDuration     *float64         `json:"EventDuration,omitempty"`
	EventWaveformPath *string          `json:"EventWaveformPath,omitempty"`
}

// EventParameter represents a parameter of an event
type EventParameter struct {
	ParameterID    ParamID `json:"ParameterID"`
	ParameterValue float64 `json:"ParameterValue"`
}

// ParameterCurve represents a dynamic parameter change over time
type ParameterCurve struct {
	ParameterID                 CurveParamID   `json:"ParameterID"`
	Time                        float64        `json:"Time"`
	ParameterCurveControlPoints []ControlPoint `json:"ParameterCurveControlPoints"`
}

// ControlPoint represents a point in a parameter curve
type ControlPoint struct {
	Time           float64 `json:"Time"`
	ParameterValue float64 `json:"ParameterValue"`
}

// Option configures a new document
type Option func(*AHAP)

// WithClock sets the time source used for Metadata.Created
func WithClock(now func() time.Time) Option {
	return func(a *AHAP) {
		a.Metadata.Created = now().Format(CreatedLayout)
	}
}

// New creates a new AHAP with default metadata
func New(description, createdBy string, opts ...Option) *AHAP {
	a := &AHAP{
		Version: Version,
		Metadata: Metadata{
			Project:     Project,
			Created:     time.Now().Format(CreatedLayout),
			Description: description,
			CreatedBy:   createdBy,
		},
		pattern: make([]Pattern, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Len returns the number of pattern entries
func (a *AHAP) Len() int {
	return len(a.pattern)
}

// Patterns returns a copy of the pattern entries in insertion order
func (a *AHAP) Patterns() []Pattern {
	out := make([]Pattern, len(a.pattern))
	for i, p := range a.pattern {
		out[i] = p.clone()
	}
	return out
}

// AddEvent appends an event verbatim. Neither the event type nor the
// parameters are checked; the typed helpers in events.go are the validated
// way in.
func (a *AHAP) AddEvent(eventType EventType, t float64, params []EventParameter, duration *float64, waveformPath *string) {
	ev := Event{
		Time:              t,
		EventType:         eventType,
		EventParameters:   params,
		EventDuration:     duration,
		EventWaveformPath: waveformPath,
	}
	a.append(Pattern{Event: &ev})
}

// AddParameterCurve appends a parameter curve starting at startTime.
// Control points are usually produced by CreateCurve but may be supplied
// directly.
func (a *AHAP) AddParameterCurve(id CurveParamID, startTime float64, points []ControlPoint) error {
	if err := checkTime(startTime); err != nil {
		return err
	}
	a.append(Pattern{ParameterCurve: &ParameterCurve{
		ParameterID:                 id,
		Time:                        startTime,
		ParameterCurveControlPoints: points,
	}})
	return nil
}

func (a *AHAP) append(p Pattern) {
	a.pattern = append(a.pattern, p.clone())
}

// UnsafeConcat returns a new document holding the entries of a followed by
// the entries of b, with a's metadata. Timestamps are NOT re-based: b's
// entries keep their own times and land on top of a's, so the result is
// generally not a valid overlay of the two patterns.
func UnsafeConcat(a, b *AHAP) *AHAP {
	out := New(a.Metadata.Description, a.Metadata.CreatedBy)
	for _, p := range a.pattern {
		out.append(p)
	}
	for _, p := range b.pattern {
		out.append(p)
	}
	return out
}

func (p Pattern) clone() Pattern {
	var out Pattern
	if p.Event != nil {
		ev := *p.Event
		ev.EventParameters = append([]EventParameter(nil), p.Event.EventParameters...)
		if ev.EventParameters == nil {
			ev.EventParameters = []EventParameter{}
		}
		if p.Event.EventDuration != nil {
			d := *p.Event.EventDuration
			ev.EventDuration = &d
		}
		if p.Event.EventWaveformPath != nil {
			w := *p.Event.EventWaveformPath
			ev.EventWaveformPath = &w
		}
		out.Event = &ev
	}
	if p.ParameterCurve != nil {
		c := *p.ParameterCurve
		c.ParameterCurveControlPoints = append([]ControlPoint(nil), p.ParameterCurve.ParameterCurveControlPoints...)
		if c.ParameterCurveControlPoints == nil {
			c.ParameterCurveControlPoints = []ControlPoint{}
		}
		out.ParameterCurve = &c
	}
	return out
}
