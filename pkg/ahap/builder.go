package ahap

import (
	"fmt"
)

// Builder provides a fluent API for creating AHAP documents.
//
// Chained calls cannot return errors, so the builder keeps the first one it
// hits and skips every later add. Build and Export report it.
type Builder struct {
	ahap    *AHAP
	musical *MusicalContext
	err     error
}

// NewBuilder creates a new AHAP builder
func NewBuilder(description, creator string, opts ...Option) *Builder {
	return &Builder{
		ahap: New(description, creator, opts...),
	}
}

func (b *Builder) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// musicalContext returns the musical context, creating the 120 BPM 4/4 default on first use
func (b *Builder) musicalContext() *MusicalContext {
	if b.musical == nil {
		b.musical = NewMusicalContext(DefaultBPM, DefaultNumerator, DefaultDenominator)
	}
	return b.musical
}

// WithBPM sets the BPM for musical timing
func (b *Builder) WithBPM(bpm float64) *Builder {
	if bpm <= 0 {
		b.fail(fmt.Errorf("%w: BPM must be positive, got %g", ErrInvalidArgument, bpm))
		return b
	}
	b.musicalContext().BPM = bpm
	return b
}

// WithTimeSignature sets the time signature
func (b *Builder) WithTimeSignature(numerator, denominator int) *Builder {
	if numerator <= 0 || denominator <= 0 {
		b.fail(fmt.Errorf("%w: invalid time signature %d/%d", ErrInvalidArgument, numerator, denominator))
		return b
	}
	b.musicalContext().TimeSignature = TimeSignature{
		Numerator:   numerator,
		Denominator: denominator,
	}
	return b
}

// WithMusicalContext sets the complete musical context
func (b *Builder) WithMusicalContext(musical *MusicalContext) *Builder {
	b.musical = musical
	return b
}

// MusicalContext returns the builder's musical context
func (b *Builder) MusicalContext() *MusicalContext {
	return b.musicalContext()
}

// BeatsPerBar returns the number of beats in one bar of the current time signature
func (b *Builder) BeatsPerBar() int {
	return b.musicalContext().BeatsPerBar()
}

// Transient creates a transient event builder
func (b *Builder) Transient(time float64) *TransientBuilder {
	return &TransientBuilder{
		builder:   b,
		time:      time,
		intensity: DefaultIntensity,
		sharpness: DefaultSharpness,
	}
}

// Continuous creates a continuous event builder
func (b *Builder) Continuous(time, duration float64) *ContinuousBuilder {
	return &ContinuousBuilder{
		builder:   b,
		time:      time,
		duration:  duration,
		intensity: DefaultIntensity,
		sharpness: DefaultSharpness,
	}
}

// AudioCustom creates a custom audio event builder
func (b *Builder) AudioCustom(time float64, waveformPath string) *AudioCustomBuilder {
	return &AudioCustomBuilder{
		builder:      b,
		time:         time,
		waveformPath: waveformPath,
		volume:       DefaultVolume,
	}
}

// AtBeat creates an event builder at a specific beat
func (b *Builder) AtBeat(beat Beat) *EventBuilder {
	return &EventBuilder{
		builder: b,
		time:    b.musicalContext().BeatToSeconds(beat),
	}
}

// AtBar creates an event builder at a specific bar
func (b *Builder) AtBar(bar Bar) *EventBuilder {
	return &EventBuilder{
		builder: b,
		time:    b.musicalContext().BarToSeconds(bar),
	}
}

// At creates an event builder at beat of bar, both counted from zero
func (b *Builder) At(bar, beat int) *EventBuilder {
	m := b.musicalContext()
	return &EventBuilder{
		builder: b,
		time:    m.BarToSeconds(Bar(bar)) + m.BeatToSeconds(Beat(beat)),
	}
}

// Curve creates a parameter curve builder
func (b *Builder) Curve(parameterID CurveParamID) *CurveBuilder {
	return &CurveBuilder{
		builder:     b,
		parameterID: parameterID,
		points:      make([]ControlPoint, 0),
	}
}

// Err returns the first error recorded by the builder
func (b *Builder) Err() error {
	return b.err
}

// Build returns the final AHAP
func (b *Builder) Build() (*AHAP, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.ahap, nil
}

// Export writes the AHAP to a file
func (b *Builder) Export(filename string, opts ...ExportOption) error {
	if b.err != nil {
		return b.err
	}
	return b.ahap.Export(filename, opts...)
}

// TransientBuilder builds a transient event
type TransientBuilder struct {
	builder   *Builder
	time      float64
	intensity float64
	sharpness float64
}

// Intensity sets the intensity
func (tb *TransientBuilder) Intensity(intensity float64) *TransientBuilder {
	tb.intensity = intensity
	return tb
}

// Sharpness sets the sharpness
func (tb *TransientBuilder) Sharpness(sharpness float64) *TransientBuilder {
	tb.sharpness = sharpness
	return tb
}

// Add adds the transient event and returns the builder
func (tb *TransientBuilder) Add() *Builder {
	b := tb.builder
	if b.err == nil {
		b.fail(b.ahap.AddHapticTransient(tb.time, tb.intensity, tb.sharpness))
	}
	return b
}

// ContinuousBuilder builds a continuous event
type ContinuousBuilder struct {
	builder   *Builder
	time      float64
	duration  float64
	intensity float64
	sharpness float64
}

// Intensity sets the intensity
func (cb *ContinuousBuilder) Intensity(intensity float64) *ContinuousBuilder {
	cb.intensity = intensity
	return cb
}

// Sharpness sets the sharpness
func (cb *ContinuousBuilder) Sharpness(sharpness float64) *ContinuousBuilder {
	cb.sharpness = sharpness
	return cb
}

// Add adds the continuous event and returns the builder
func (cb *ContinuousBuilder) Add() *Builder {
	b := cb.builder
	if b.err == nil {
		b.fail(b.ahap.AddHapticContinuous(cb.time, cb.duration, cb.intensity, cb.sharpness))
	}
	return b
}

// AudioCustomBuilder builds a custom audio event
type AudioCustomBuilder struct {
	builder      *Builder
	time         float64
	waveformPath string
	volume       float64
}

// Volume sets the volume
func (ab *AudioCustomBuilder) Volume(volume float64) *AudioCustomBuilder {
	ab.volume = volume
	return ab
}

// Add adds the audio event and returns the builder
func (ab *AudioCustomBuilder) Add() *Builder {
	b := ab.builder
	if b.err == nil {
		b.fail(b.ahap.AddAudioCustom(ab.time, ab.waveformPath, ab.volume))
	}
	return b
}

// EventBuilder builds events at musical positions
type EventBuilder struct {
	builder *Builder
	time    float64
}

// Time returns the position in seconds
func (eb *EventBuilder) Time() float64 {
	return eb.time
}

// Transient creates a transient event at this time
func (eb *EventBuilder) Transient() *TransientBuilder {
	return eb.builder.Transient(eb.time)
}

// Continuous creates a continuous event at this time
func (eb *EventBuilder) Continuous(duration float64) *ContinuousBuilder {
	return eb.builder.Continuous(eb.time, duration)
}

// ContinuousBars creates a continuous event at this time with duration in bars
func (eb *EventBuilder) ContinuousBars(bars Bar) *ContinuousBuilder {
	return eb.builder.Continuous(eb.time, eb.builder.musicalContext().BarToSeconds(bars))
}

// ContinuousBeats creates a continuous event at this time with duration in beats
func (eb *EventBuilder) ContinuousBeats(beats Beat) *ContinuousBuilder {
	return eb.builder.Continuous(eb.time, eb.builder.musicalContext().BeatToSeconds(beats))
}

// Curve creates a parameter curve starting at this time
func (eb *EventBuilder) Curve(parameterID CurveParamID) *CurveBuilder {
	return eb.builder.Curve(parameterID).At(eb.time)
}

// CurveBuilder builds parameter curves
type CurveBuilder struct {
	builder     *Builder
	parameterID CurveParamID
	startTime   float64
	points      []ControlPoint
}

// At sets the start time
func (cb *CurveBuilder) At(time float64) *CurveBuilder {
	cb.startTime = time
	return cb
}

// From sets the start point and begins defining the curve
func (cb *CurveBuilder) From(time, value float64) *CurveFromBuilder {
	return &CurveFromBuilder{
		curveBuilder: cb,
		start:        ControlPoint{Time: time, ParameterValue: value},
	}
}

// AddPoint adds a single control point
func (cb *CurveBuilder) AddPoint(time, value float64) *CurveBuilder {
	cb.points = append(cb.points, ControlPoint{
		Time:           time,
		ParameterValue: value,
	})
	return cb
}

// Points sets all control points at once
func (cb *CurveBuilder) Points(points []ControlPoint) *CurveBuilder {
	cb.points = append(cb.points[:0], points...)
	return cb
}

// Add adds the curve to the AHAP and returns the builder
func (cb *CurveBuilder) Add() *Builder {
	b := cb.builder
	if b.err == nil {
		b.fail(b.ahap.AddParameterCurve(cb.parameterID, cb.startTime, cb.points))
	}
	return b
}

// CurveFromBuilder holds the start point of an interpolated segment
type CurveFromBuilder struct {
	curveBuilder *CurveBuilder
	start        ControlPoint
}

// To defines the end point of the segment
func (cfb *CurveFromBuilder) To(endTime, endValue float64) *CurveToBuilder {
	return &CurveToBuilder{
		curveBuilder: cfb.curveBuilder,
		start:        cfb.start,
		end:          ControlPoint{Time: endTime, ParameterValue: endValue},
	}
}

// CurveToBuilder picks the shape of a segment
type CurveToBuilder struct {
	curveBuilder *CurveBuilder
	start        ControlPoint
	end          ControlPoint
}

func (ctb *CurveToBuilder) extend(points []ControlPoint, err error) *CurveBuilder {
	cb := ctb.curveBuilder
	if err != nil {
		cb.builder.fail(err)
		return cb
	}
	cb.points = append(cb.points, points...)
	return cb
}

// Steps creates linear interpolation with specified steps
func (ctb *CurveToBuilder) Steps(steps int) *CurveBuilder {
	return ctb.extend(LinearInterpolation(ctb.start, ctb.end, steps))
}

// EaseInOut creates ease-in-out interpolation
func (ctb *CurveToBuilder) EaseInOut(steps int) *CurveBuilder {
	return ctb.extend(EaseInOut(ctb.start, ctb.end, steps))
}

// Exponential creates exponential interpolation
func (ctb *CurveToBuilder) Exponential(steps int, exponent float64) *CurveBuilder {
	return ctb.extend(Exponential(ctb.start, ctb.end, steps, exponent))
}

// SequenceBuilder helps build sequences of events across multiple bars/beats
type SequenceBuilder struct {
	builder *Builder
}

// Sequence creates a new sequence builder for creating patterns
func (b *Builder) Sequence() *SequenceBuilder {
	b.musicalContext()
	return &SequenceBuilder{builder: b}
}

// TransientsOnBeats adds transient events on specific beats across a range of bars.
// TransientsOnBeats([]Beat{0, 2}, 5, 8, ...) adds transients on beats 0 and 2 in bars 5-8.
func (sb *SequenceBuilder) TransientsOnBeats(beats []Beat, startBar, endBar int, intensity, sharpness float64) *Builder {
	m := sb.builder.musicalContext()
	for bar := startBar; bar <= endBar; bar++ {
		barTime := m.BarToSeconds(Bar(bar))
		for _, beat := range beats {
			sb.builder.Transient(barTime + m.BeatToSeconds(beat)).
				Intensity(intensity).
				Sharpness(sharpness).
				Add()
		}
	}
	return sb.builder
}

// TransientsOnBeatsInBar adds transient events on specific beats within a single bar
func (sb *SequenceBuilder) TransientsOnBeatsInBar(beats []Beat, bar int, intensity, sharpness float64) *Builder {
	return sb.TransientsOnBeats(beats, bar, bar, intensity, sharpness)
}

// EveryBeat adds a transient on every beat for a range of bars
func (sb *SequenceBuilder) EveryBeat(startBar, endBar int, intensity, sharpness float64) *Builder {
	return sb.EveryNthBeat(1, startBar, endBar, intensity, sharpness)
}

// EveryNthBeat adds a transient on every nth beat for a range of bars, counting across bar lines
func (sb *SequenceBuilder) EveryNthBeat(n int, startBar, endBar int, intensity, sharpness float64) *Builder {
	if n <= 0 {
		sb.builder.fail(fmt.Errorf("%w: beat interval must be positive, got %d", ErrInvalidArgument, n))
		return sb.builder
	}
	m := sb.builder.musicalContext()
	beatsPerBar := m.BeatsPerBar()
	if beatsPerBar <= 0 {
		sb.builder.fail(fmt.Errorf("%w: time signature has no beats per bar", ErrInvalidArgument))
		return sb.builder
	}
	totalBeats := (endBar - startBar + 1) * beatsPerBar

	for i := 0; i < totalBeats; i += n {
		bar := startBar + i/beatsPerBar
		beat := i % beatsPerBar
		sb.builder.At(bar, beat).Transient().
			Intensity(intensity).
			Sharpness(sharpness).
			Add()
	}
	return sb.builder
}

// Pattern calls fn once per bar in the range; fn adds that bar's events
func (sb *SequenceBuilder) Pattern(startBar, endBar int, fn func(b *Builder, bar int)) *Builder {
	for bar := startBar; bar <= endBar; bar++ {
		fn(sb.builder, bar)
	}
	return sb.builder
}
