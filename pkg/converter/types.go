// Package converter turns MIDI files and haptrack scores into AHAP documents
package converter

import (
	"log/slog"
)

// NoteEvent is one note-on or note-off at an absolute time
type NoteEvent struct {
	Time     float64 // seconds from the start of the file
	Channel  uint8   // 0-15
	Key      uint8   // MIDI note number (0-127)
	Velocity uint8   // 0 for note-off
	On       bool
}

// DrumHit describes the transient a percussion note becomes
type DrumHit struct {
	Name      string
	Intensity float64
	Sharpness float64
}

// DrumKit maps percussion notes on one channel to transient haptics
type DrumKit interface {
	Name() string
	ID() string
	Channel() uint8
	Lookup(key uint8) (DrumHit, bool)
}

// Stats counts what a conversion produced and skipped
type Stats struct {
	Melodic           int // continuous events from note pairs
	Drums             int // transient events from percussion
	UnmappedDrums     int // percussion notes missing from the kit
	UnmatchedNoteOffs int // note-offs without an open note-on
	ZeroLength        int // note pairs with no duration
	Unterminated      int // note-ons never closed
	Compiled          int // events compiled from a haptrack score
}

// Total returns the number of events added to the document
func (s Stats) Total() int {
	return s.Melodic + s.Drums + s.Compiled
}

// Options configures a Converter
type Options struct {
	Description string
	CreatedBy   string
	// Drums turns notes on the kit's channel into transients; nil treats every channel as melodic
	Drums DrumKit
	// VelocityIntensity scales intensity by note velocity instead of using full intensity
	VelocityIntensity bool
	Indent            bool
	Logger            *slog.Logger
}

// Converter handles format conversions
type Converter struct {
	opts   Options
	logger *slog.Logger
}

// New creates a new Converter
func New(opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{opts: opts, logger: logger}
}

// DrumKit returns the current drum kit, nil when drum detection is off
func (c *Converter) DrumKit() DrumKit {
	return c.opts.Drums
}

// SetDrumKit sets the drum kit used for percussion notes
func (c *Converter) SetDrumKit(kit DrumKit) {
	c.opts.Drums = kit
}
