package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/james-see/midi2ahap/pkg/converter"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuNavigation(t *testing.T) {
	m := New(converter.Options{})

	next, _ := m.Update(key("down"))
	m = next.(Model)
	if m.menuIndex != 1 {
		t.Fatalf("menuIndex = %d, want 1", m.menuIndex)
	}

	next, _ = m.Update(key("enter"))
	m = next.(Model)
	if m.state != StateFilePicker {
		t.Fatalf("state = %v, want StateFilePicker", m.state)
	}
	if m.conversion.FromFormat != converter.FormatHaptrack {
		t.Errorf("conversion = %v, want haptrack", m.conversion.FromFormat)
	}
	if strings.Join(m.filePicker.AllowedTypes, ",") != ".hap,.haptrack" {
		t.Errorf("AllowedTypes = %v", m.filePicker.AllowedTypes)
	}

	next, _ = m.Update(key("esc"))
	m = next.(Model)
	if m.state != StateMenu {
		t.Errorf("state = %v, want StateMenu after esc", m.state)
	}
}

func TestMenuExit(t *testing.T) {
	m := New(converter.Options{})
	for range len(menuItems) {
		next, _ := m.Update(key("down"))
		m = next.(Model)
	}
	if _, cmd := m.Update(key("enter")); cmd == nil {
		t.Error("selecting Exit should return a quit command")
	}
}

func TestPerformConversion(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "beat.hap")
	if err := os.WriteFile(input, []byte("k = kick, 1.0, 0.2\nbegin\nk4k4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := New(converter.Options{})
	m.selectedFile = input
	msg := m.performConversion()()

	done, ok := msg.(conversionDoneMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if done.err != nil {
		t.Fatalf("conversion failed: %v", done.err)
	}
	if done.outputFile != filepath.Join(dir, "beat.ahap") || done.stats.Compiled != 2 {
		t.Errorf("result = %+v", done)
	}

	next, _ := m.Update(done)
	m = next.(Model)
	if m.state != StateResult || !strings.Contains(m.View(), "beat.ahap") {
		t.Errorf("result view missing output file")
	}
}

func TestResultViewCounts(t *testing.T) {
	tests := []struct {
		name    string
		stats   converter.Stats
		want    []string
		missing []string
	}{
		{
			name:    "midi",
			stats:   converter.Stats{Melodic: 12, Drums: 5, UnmatchedNoteOffs: 2},
			want:    []string{"17 EVENTS WRITTEN", "continuous (melodic)", "12", "transient (drums)", "unmatched note-offs"},
			missing: []string{"compiled from score", "unterminated notes"},
		},
		{
			name:    "haptrack",
			stats:   converter.Stats{Compiled: 4},
			want:    []string{"4 EVENTS WRITTEN", "compiled from score"},
			missing: []string{"continuous (melodic)", "transient (drums)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(converter.Options{CreatedBy: "tui test"})
			m.selectedFile = "in.mid"
			next, _ := m.Update(conversionDoneMsg{outputFile: "in.ahap", stats: tt.stats})
			view := next.(Model).View()

			for _, s := range tt.want {
				if !strings.Contains(view, s) {
					t.Errorf("view missing %q", s)
				}
			}
			for _, s := range tt.missing {
				if strings.Contains(view, s) {
					t.Errorf("view shows zero count %q", s)
				}
			}
		})
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name   string
		opts   converter.Options
		format converter.Format
		want   string
	}{
		{"drums off", converter.Options{}, converter.FormatMIDI, "drum kit: off • fixed intensity • created by " + converter.DefaultMIDICreator},
		{"velocity", converter.Options{VelocityIntensity: true, CreatedBy: "me"}, converter.FormatMIDI, "drum kit: off • velocity intensity • created by me"},
		{"score", converter.Options{CreatedBy: "me"}, converter.FormatHaptrack, "score compile • created by me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.opts)
			m.conversion = MenuItem{FromFormat: tt.format}
			if got := m.statusLine(); got != tt.want {
				t.Errorf("statusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
