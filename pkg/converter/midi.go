package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// 120 BPM, the MIDI default until a tempo meta event says otherwise
const defaultMicrosecondsPerQuarter = 500000.0

// MIDIReader extracts note events from standard MIDI files
type MIDIReader struct {
	ticksPerQuarter uint16
}

// NewMIDIReader creates a new MIDI reader
func NewMIDIReader() *MIDIReader {
	return &MIDIReader{
		ticksPerQuarter: 480,
	}
}

// ReadFile reads a MIDI file and returns its note events in time order
func (m *MIDIReader) ReadFile(filename string) ([]NoteEvent, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.Read(data)
}

type tempoChange struct {
	tick         int64
	usPerQuarter float64
}

type tickedNote struct {
	tick  int64
	track int
	seq   int
	note  NoteEvent
}

// Read parses MIDI data and returns the note events of all tracks merged
// into one time ordered sequence. Tempo changes on any track apply to all.
func (m *MIDIReader) Read(data []byte) ([]NoteEvent, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.New("unsupported MIDI time format: only metric ticks are supported")
	}
	if res := mt.Resolution(); res > 0 {
		m.ticksPerQuarter = res
	}

	var tempos []tempoChange
	var notes []tickedNote

	for trackNo, track := range s.Tracks {
		var currentTick int64
		for i, ev := range track {
			currentTick += int64(ev.Delta)
			msg := ev.Message

			var bpm float64
			if msg.GetMetaTempo(&bpm) && bpm > 0 {
				tempos = append(tempos, tempoChange{tick: currentTick, usPerQuarter: 60000000.0 / bpm})
				continue
			}

			var channel, key, velocity uint8
			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				notes = append(notes, tickedNote{currentTick, trackNo, i, NoteEvent{
					Channel: channel, Key: key, Velocity: velocity, On: true,
				}})
			case msg.GetNoteEnd(&channel, &key):
				notes = append(notes, tickedNote{currentTick, trackNo, i, NoteEvent{
					Channel: channel, Key: key,
				}})
			}
		}
	}

	sort.SliceStable(tempos, func(i, j int) bool { return tempos[i].tick < tempos[j].tick })
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if a.tick != b.tick {
			return a.tick < b.tick
		}
		if a.track != b.track {
			return a.track < b.track
		}
		return a.seq < b.seq
	})

	events := make([]NoteEvent, len(notes))
	for i, n := range notes {
		n.note.Time = m.seconds(n.tick, tempos)
		events[i] = n.note
	}
	return events, nil
}

// seconds converts an absolute tick to seconds, walking the tempo changes before it
func (m *MIDIReader) seconds(tick int64, tempos []tempoChange) float64 {
	ticksPerQuarter := float64(m.ticksPerQuarter)
	usPerQuarter := defaultMicrosecondsPerQuarter
	var lastTick int64
	var us float64

	for _, tc := range tempos {
		if tc.tick >= tick {
			break
		}
		us += float64(tc.tick-lastTick) / ticksPerQuarter * usPerQuarter
		lastTick = tc.tick
		usPerQuarter = tc.usPerQuarter
	}
	us += float64(tick-lastTick) / ticksPerQuarter * usPerQuarter
	return us / 1000000.0
}
