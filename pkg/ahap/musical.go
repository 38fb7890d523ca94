package ahap

// Beat represents a position or length in beats
type Beat float64

// Bar represents a position or length in bars
type Bar float64

// TimeSignature represents musical time signature
type TimeSignature struct {
	Numerator   int // Beats per bar
	Denominator int // Note value (4 = quarter note)
}

// MusicalContext converts musical time to seconds
type MusicalContext struct {
	BPM           float64
	TimeSignature TimeSignature
}

// Default musical context values
const (
	DefaultBPM         = 120.0
	DefaultNumerator   = 4
	DefaultDenominator = 4
)

// NewMusicalContext creates a new musical context
func NewMusicalContext(bpm float64, numerator, denominator int) *MusicalContext {
	return &MusicalContext{
		BPM: bpm,
		TimeSignature: TimeSignature{
			Numerator:   numerator,
			Denominator: denominator,
		},
	}
}

func (m *MusicalContext) secondsPerBeat() float64 {
	return 60.0 / m.BPM
}

// BeatToSeconds converts beat to seconds
func (m *MusicalContext) BeatToSeconds(beat Beat) float64 {
	return float64(beat) * m.secondsPerBeat()
}

// BarToSeconds converts bar to seconds
func (m *MusicalContext) BarToSeconds(bar Bar) float64 {
	return float64(bar) * float64(m.TimeSignature.Numerator) * m.secondsPerBeat()
}

// BeatDuration returns the duration of one beat in seconds
func (m *MusicalContext) BeatDuration() float64 {
	return m.BeatToSeconds(1)
}

// BarDuration returns the duration of one bar in seconds
func (m *MusicalContext) BarDuration() float64 {
	return m.BarToSeconds(1)
}

// BeatsPerBar returns the number of beats per bar
func (m *MusicalContext) BeatsPerBar() int {
	return m.TimeSignature.Numerator
}

// SecondsToBeats converts seconds to beats
func (m *MusicalContext) SecondsToBeats(seconds float64) Beat {
	return Beat(seconds / m.secondsPerBeat())
}

// SecondsToBars converts seconds to bars
func (m *MusicalContext) SecondsToBars(seconds float64) Bar {
	return Bar(seconds / (float64(m.TimeSignature.Numerator) * m.secondsPerBeat()))
}
