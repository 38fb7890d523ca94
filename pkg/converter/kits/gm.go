// Package kits provides drum kit tables for percussion to haptic mapping
package kits

import (
	"fmt"
	"sort"
	"strings"

	"github.com/james-see/midi2ahap/pkg/converter"
)

// General MIDI constants
const (
	GMDrumChannel = 9 // channel 10, zero based
	GMKitID       = "gm"
)

// generalMIDI maps GM percussion notes to transient haptics
var generalMIDI = map[uint8]converter.DrumHit{
	// Bass drums
	35: {Name: "Acoustic Bass Drum", Intensity: 1.0, Sharpness: 0.2},
	36: {Name: "Bass Drum 1", Intensity: 1.0, Sharpness: 0.2},

	// Snares
	38: {Name: "Acoustic Snare", Intensity: 0.95, Sharpness: 0.85},
	40: {Name: "Electric Snare", Intensity: 0.9, Sharpness: 0.9},

	// Toms
	41: {Name: "Low Floor Tom", Intensity: 0.85, Sharpness: 0.4},
	43: {Name: "High Floor Tom", Intensity: 0.85, Sharpness: 0.45},
	45: {Name: "Low Tom", Intensity: 0.85, Sharpness: 0.5},
	47: {Name: "Low-Mid Tom", Intensity: 0.85, Sharpness: 0.55},
	48: {Name: "Hi-Mid Tom", Intensity: 0.85, Sharpness: 0.6},
	50: {Name: "High Tom", Intensity: 0.85, Sharpness: 0.65},

	// Hi-hats
	42: {Name: "Closed Hi-Hat", Intensity: 0.5, Sharpness: 1.0},
	44: {Name: "Pedal Hi-Hat", Intensity: 0.55, Sharpness: 0.95},
	46: {Name: "Open Hi-Hat", Intensity: 0.6, Sharpness: 0.9},

	// Cymbals
	49: {Name: "Crash Cymbal 1", Intensity: 0.9, Sharpness: 0.85},
	51: {Name: "Ride Cymbal 1", Intensity: 0.7, Sharpness: 0.75},
	52: {Name: "Chinese Cymbal", Intensity: 0.85, Sharpness: 0.8},
	53: {Name: "Ride Bell", Intensity: 0.65, Sharpness: 0.7},
	55: {Name: "Splash Cymbal", Intensity: 0.8, Sharpness: 0.9},
	57: {Name: "Crash Cymbal 2", Intensity: 0.9, Sharpness: 0.85},
	59: {Name: "Ride Cymbal 2", Intensity: 0.7, Sharpness: 0.75},

	// Percussion
	37: {Name: "Side Stick", Intensity: 0.7, Sharpness: 0.95},
	39: {Name: "Hand Clap", Intensity: 0.75, Sharpness: 0.8},
	54: {Name: "Tambourine", Intensity: 0.65, Sharpness: 0.85},
	56: {Name: "Cowbell", Intensity: 0.7, Sharpness: 0.7},
	58: {Name: "Vibraslap", Intensity: 0.7, Sharpness: 0.75},
	60: {Name: "Hi Bongo", Intensity: 0.75, Sharpness: 0.6},
	61: {Name: "Low Bongo", Intensity: 0.75, Sharpness: 0.5},
	62: {Name: "Mute Hi Conga", Intensity: 0.75, Sharpness: 0.65},
	63: {Name: "Open Hi Conga", Intensity: 0.75, Sharpness: 0.6},
	64: {Name: "Low Conga", Intensity: 0.75, Sharpness: 0.55},
	65: {Name: "High Timbale", Intensity: 0.8, Sharpness: 0.7},
	66: {Name: "Low Timbale", Intensity: 0.8, Sharpness: 0.65},
	67: {Name: "High Agogo", Intensity: 0.7, Sharpness: 0.8},
	68: {Name: "Low Agogo", Intensity: 0.7, Sharpness: 0.75},
	69: {Name: "Cabasa", Intensity: 0.65, Sharpness: 0.7},
	70: {Name: "Maracas", Intensity: 0.6, Sharpness: 0.85},
	71: {Name: "Short Whistle", Intensity: 0.6, Sharpness: 0.9},
	72: {Name: "Long Whistle", Intensity: 0.6, Sharpness: 0.85},
	73: {Name: "Short Guiro", Intensity: 0.65, Sharpness: 0.75},
	74: {Name: "Long Guiro", Intensity: 0.65, Sharpness: 0.7},
	75: {Name: "Claves", Intensity: 0.7, Sharpness: 0.95},
	76: {Name: "Hi Wood Block", Intensity: 0.7, Sharpness: 0.8},
	77: {Name: "Low Wood Block", Intensity: 0.7, Sharpness: 0.75},
	78: {Name: "Mute Cuica", Intensity: 0.65, Sharpness: 0.7},
	79: {Name: "Open Cuica", Intensity: 0.65, Sharpness: 0.75},
	80: {Name: "Mute Triangle", Intensity: 0.6, Sharpness: 0.9},
	81: {Name: "Open Triangle", Intensity: 0.6, Sharpness: 0.95},
}

// GeneralMIDI implements converter.DrumKit for the GM percussion map
type GeneralMIDI struct{}

// NewGeneralMIDI creates the General MIDI drum kit
func NewGeneralMIDI() *GeneralMIDI {
	return &GeneralMIDI{}
}

// Name returns the kit name
func (g *GeneralMIDI) Name() string {
	return "General MIDI"
}

// ID returns the kit ID
func (g *GeneralMIDI) ID() string {
	return GMKitID
}

// Channel returns the percussion channel
func (g *GeneralMIDI) Channel() uint8 {
	return GMDrumChannel
}

// Lookup returns the haptic for a percussion note
func (g *GeneralMIDI) Lookup(key uint8) (converter.DrumHit, bool) {
	hit, ok := generalMIDI[key]
	return hit, ok
}

// Notes returns the mapped notes in ascending order
func (g *GeneralMIDI) Notes() []uint8 {
	notes := make([]uint8, 0, len(generalMIDI))
	for n := range generalMIDI {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return notes
}

// Get returns a kit by ID. "none" and "" return nil, which disables drum detection.
func Get(id string) (converter.DrumKit, error) {
	switch strings.ToLower(id) {
	case "", "none", "off":
		return nil, nil
	case GMKitID, "general-midi", "generalmidi":
		return NewGeneralMIDI(), nil
	default:
		return nil, fmt.Errorf("unknown drum kit %q (available: %s)", id, strings.Join(IDs(), ", "))
	}
}

// IDs lists the available kit IDs
func IDs() []string {
	return []string{GMKitID, "none"}
}
