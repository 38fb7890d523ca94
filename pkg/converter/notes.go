package converter

import (
	"fmt"
	"iter"
	"log/slog"
	"math"

	"github.com/james-see/midi2ahap/pkg/ahap"
)

// Sharpness used for percussion notes the kit does not know
const unmappedDrumSharpness = 0.7

// NoteToFrequency converts MIDI note number to frequency in Hz (A4 = 69 = 440 Hz)
func NoteToFrequency(note uint8) float64 {
	return 440.0 * math.Pow(2.0, (float64(note)-69.0)/12.0)
}

type noteKey struct {
	channel uint8
	key     uint8
}

type openNote struct {
	start    float64
	velocity uint8
}

// ApplyNotes adds haptic events for a time ordered note stream.
//
// Every matched note-on/note-off pair becomes a continuous event from the
// note-on time with sharpness taken from the note's pitch. With a drum kit
// set, note-ons on the kit's channel become transients instead. Note-offs
// without an open note-on are logged and skipped.
func (c *Converter) ApplyNotes(doc *ahap.AHAP, notes iter.Seq[NoteEvent]) (Stats, error) {
	var stats Stats
	open := make(map[noteKey]openNote)
	kit := c.opts.Drums

	for ev := range notes {
		k := noteKey{ev.Channel, ev.Key}
		drum := kit != nil && ev.Channel == kit.Channel()

		if ev.On {
			if !drum {
				open[k] = openNote{start: ev.Time, velocity: ev.Velocity}
				continue
			}
			hit, ok := kit.Lookup(ev.Key)
			if !ok {
				hit = DrumHit{Name: "unmapped", Intensity: 1.0, Sharpness: unmappedDrumSharpness}
				stats.UnmappedDrums++
				c.logger.Debug("drum note not in kit", slog.String("kit", kit.ID()), slog.Int("note", int(ev.Key)))
			}
			intensity := hit.Intensity * float64(ev.Velocity) / 127.0
			if err := doc.AddHapticTransient(ev.Time, intensity, hit.Sharpness); err != nil {
				return stats, fmt.Errorf("drum note %d at %.3fs: %w", ev.Key, ev.Time, err)
			}
			stats.Drums++
			continue
		}

		if drum {
			continue
		}

		on, ok := open[k]
		if !ok {
			c.logger.Warn("note_off without a corresponding note_on",
				slog.Int("note", int(ev.Key)),
				slog.Int("channel", int(ev.Channel)),
				slog.Float64("time", ev.Time))
			stats.UnmatchedNoteOffs++
			continue
		}
		delete(open, k)

		duration := ev.Time - on.start
		if duration <= 0 {
			c.logger.Debug("skipping zero length note", slog.Int("note", int(ev.Key)), slog.Float64("time", ev.Time))
			stats.ZeroLength++
			continue
		}

		intensity := 1.0
		if c.opts.VelocityIntensity {
			intensity = float64(on.velocity) / 127.0
		}
		sharpness := ahap.Freq(NoteToFrequency(ev.Key))
		if err := doc.AddHapticContinuous(on.start, duration, intensity, sharpness); err != nil {
			return stats, fmt.Errorf("note %d at %.3fs: %w", ev.Key, on.start, err)
		}
		stats.Melodic++
	}

	for k, on := range open {
		c.logger.Warn("note_on never released",
			slog.Int("note", int(k.key)),
			slog.Int("channel", int(k.channel)),
			slog.Float64("time", on.start))
		stats.Unterminated++
	}

	return stats, nil
}
