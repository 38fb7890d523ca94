package haptrack

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/james-see/midi2ahap/pkg/ahap"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const score = `# drum groove
bpm = 120
time = 4/4
s = snare, 1.0, 0.9, down, 60
k = kick, 1.0, 0.2
h = hihat, 0.6, 1.0

begin
track1
k4s4k4s4
track2
h8h8-4h8
`

func TestParseScore(t *testing.T) {
	p := NewParser(quietLogger())
	if err := p.Parse(strings.NewReader(score)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(p.Definitions()) != 3 {
		t.Errorf("Expected 3 definitions, got %d", len(p.Definitions()))
	}
	if p.BPM() != 120 {
		t.Errorf("BPM() = %g, want 120", p.BPM())
	}
	if n, d := p.TimeSignature(); n != 4 || d != 4 {
		t.Errorf("TimeSignature() = %d/%d, want 4/4", n, d)
	}
	if p.Tracks() != 2 {
		t.Errorf("Tracks() = %d, want 2", p.Tracks())
	}

	snare := p.Definitions()['s']
	if !snare.HasCurve || !snare.CurveDown || snare.CurveDur != 0.06 {
		t.Errorf("snare definition = %+v", snare)
	}

	doc, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// 4 track1 hits, 2 snare curves, 3 track2 hits
	patterns := doc.Patterns()
	if len(patterns) != 9 {
		t.Fatalf("Expected 9 entries, got %d", len(patterns))
	}

	var times []float64
	for _, p := range patterns {
		if p.Event != nil {
			times = append(times, p.Event.Time)
		}
	}
	// quarter notes at 120 BPM are 0.5s apart; track2 restarts at 0 with eighths and a quarter rest
	want := []float64{0, 0.5, 1.0, 1.5, 0, 0.25, 1.0}
	if len(times) != len(want) {
		t.Fatalf("event times = %v, want %v", times, want)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Errorf("event %d at %g, want %g", i, times[i], want[i])
		}
	}

	curve := patterns[2].ParameterCurve
	if curve == nil {
		t.Fatalf("Expected snare curve after the first snare, got %+v", patterns[2])
	}
	if curve.ParameterID != ahap.CurveHapticSharpness || curve.Time != 0.5 {
		t.Errorf("curve = %s at %g, want HapticSharpnessControl at 0.5", curve.ParameterID, curve.Time)
	}
	points := curve.ParameterCurveControlPoints
	if len(points) != 5 {
		t.Fatalf("Expected 5 control points, got %d", len(points))
	}
	last := points[len(points)-1]
	if last.Time < 0.06-1e-9 || last.Time > 0.06+1e-9 || last.ParameterValue < 0.27-1e-9 || last.ParameterValue > 0.27+1e-9 {
		t.Errorf("last point = %+v, want {0.06 0.27}", last)
	}
}

func TestParseContinuesTrackAcrossLines(t *testing.T) {
	p := NewParser(quietLogger())
	src := "k = kick, 1, 0.2\nbegin\ntrack1\nk4\nk4\n"
	if err := p.Parse(strings.NewReader(src)); err != nil {
		t.Fatal(err)
	}
	doc, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	ps := doc.Patterns()
	if ps[1].Event.Time != 0.5 {
		t.Errorf("second line should continue the track, got time %g", ps[1].Event.Time)
	}
}

func TestBuildWithoutBegin(t *testing.T) {
	p := NewParser(quietLogger())
	if err := p.Parse(strings.NewReader("bpm = 100\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Build(); !errors.Is(err, ahap.ErrInvalidArgument) {
		t.Errorf("Build() error = %v, want ErrInvalidArgument", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad bpm", "bpm = fast\n"},
		{"zero bpm", "bpm = 0\n"},
		{"bad time", "time = 4\n"},
		{"bad denominator", "time = 4/x\n"},
		{"short definition", "k = kick, 1\n"},
		{"bad intensity", "k = kick, loud, 0.2\n"},
		{"bad curve direction", "k = kick, 1, 0.2, sideways, 60\n"},
		{"multi letter key", "kk = kick, 1, 0.2\n"},
		{"zero note value", "k = kick, 1, 0.2\nbegin\nk0\n"},
		{"duplicate begin", "begin\nbegin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(quietLogger())
			if err := p.Parse(strings.NewReader(tt.src)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLooksLikeScore(t *testing.T) {
	if !LooksLikeScore([]byte(score)) {
		t.Error("score not recognized")
	}
	if LooksLikeScore([]byte(`{"Version":1}`)) {
		t.Error("JSON recognized as a score")
	}
}

func TestBeatDuration(t *testing.T) {
	tests := []struct {
		noteValue, denominator int
		want                   float64
	}{
		{1, 4, 4},
		{2, 4, 2},
		{4, 4, 1},
		{8, 4, 0.5},
		{16, 4, 0.25},
		{8, 8, 1},
	}
	for _, tt := range tests {
		if got := BeatDuration(tt.noteValue, tt.denominator); got != tt.want {
			t.Errorf("BeatDuration(%d, %d) = %g, want %g", tt.noteValue, tt.denominator, got, tt.want)
		}
	}
}
