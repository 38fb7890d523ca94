// Package tui provides a terminal user interface for midi2ahap
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/midi2ahap/pkg/converter"
)

// Haptic color scheme
var (
	pulseBlue  = lipgloss.Color("#4FC3F7")
	amber      = lipgloss.Color("#FFC107")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pulseBlue).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(pulseBlue).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(amber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(pulseBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pulseBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	FromFormat  converter.Format
	Extensions  []string
}

var menuItems = []MenuItem{
	{Title: "MIDI → AHAP", Description: "Convert a MIDI file to a haptic pattern", FromFormat: converter.FormatMIDI, Extensions: []string{".mid", ".midi"}},
	{Title: "Haptrack → AHAP", Description: "Compile a haptrack score to a haptic pattern", FromFormat: converter.FormatHaptrack, Extensions: []string{".hap", ".haptrack"}},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	opts         converter.Options
	selectedFile string
	outputFile   string
	stats        converter.Stats
	conversion   MenuItem
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile string
	stats      converter.Stats
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model. Converter warnings are discarded unless
// opts.Logger is set, since stderr output would tear the screen.
func New(opts converter.Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Initialize file picker
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi", ".hap", ".haptrack"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Pulse
	s.Style = lipgloss.NewStyle().Foreground(pulseBlue)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		opts:       opts,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// the picker needs every message, including its own directory reads
	if m.state == StateFilePicker {
		return m.updateFilePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.stats = msg.stats
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateFilePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = StateMenu
			return m, nil
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)
	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.selectedFile = path
		m.state = StateConverting
		return m, tea.Batch(m.spinner.Tick, m.performConversion())
	}
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.conversion = menuItems[m.menuIndex]
		m.state = StateFilePicker
		m.filePicker.AllowedTypes = m.conversion.Extensions
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		m.stats = converter.Stats{}
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	input := m.selectedFile
	opts := m.opts
	return func() tea.Msg {
		output := converter.OutputPath(input)
		stats, err := converter.New(opts).ConvertFile(input, output)
		if err != nil {
			return conversionDoneMsg{err: err}
		}
		return conversionDoneMsg{outputFile: output, stats: stats}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	// Header
	header := asciiLogo()
	s.WriteString(header)
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	if m.state == StateMenu {
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))
	}

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT CONVERSION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(amber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s FILE ", strings.ToUpper(string(m.conversion.FromFormat)))))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s %s → %s\n", m.spinner.View(), filepath.Base(m.selectedFile), converter.FormatAHAP))
	s.WriteString(statusStyle.Render(m.statusLine()))

	return boxStyle.Render(s.String())
}

// statusLine names the settings the converter runs with
func (m Model) statusLine() string {
	if m.conversion.FromFormat == converter.FormatHaptrack {
		return fmt.Sprintf("score compile • created by %s", m.createdBy())
	}
	kit := "off"
	if m.opts.Drums != nil {
		kit = m.opts.Drums.Name()
	}
	shaping := "fixed intensity"
	if m.opts.VelocityIntensity {
		shaping = "velocity intensity"
	}
	return fmt.Sprintf("drum kit: %s • %s • created by %s", kit, shaping, m.createdBy())
}

func (m Model) createdBy() string {
	switch {
	case m.opts.CreatedBy != "":
		return m.opts.CreatedBy
	case m.conversion.FromFormat == converter.FormatHaptrack:
		return converter.DefaultHaptrackCreator
	default:
		return converter.DefaultMIDICreator
	}
}

// eventLines lists the per kind counts of a finished conversion, skipping zeros
func eventLines(stats converter.Stats) []string {
	rows := []struct {
		label string
		n     int
	}{
		{"continuous (melodic)", stats.Melodic},
		{"transient (drums)", stats.Drums},
		{"compiled from score", stats.Compiled},
		{"unmapped drum notes", stats.UnmappedDrums},
		{"unmatched note-offs", stats.UnmatchedNoteOffs},
		{"unterminated notes", stats.Unterminated},
		{"zero-length notes", stats.ZeroLength},
	}
	var lines []string
	for _, r := range rows {
		if r.n > 0 {
			lines = append(lines, fmt.Sprintf("%-22s %5d", r.label, r.n))
		}
	}
	return lines
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %s", filepath.Base(m.selectedFile), m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(fmt.Sprintf(" %d EVENTS WRITTEN ", m.stats.Total())))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render(fmt.Sprintf("✓ %s → %s", filepath.Base(m.selectedFile), filepath.Base(m.outputFile))))
		s.WriteString("\n\n")
		s.WriteString(strings.Join(eventLines(m.stats), "\n"))
		s.WriteString("\n")
		s.WriteString(statusStyle.Render(m.statusLine()))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("enter/esc: back to menu • q: quit"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
            _     _ _ ____        _
  _ __ ___ (_) __| (_)___ \  __ _| |__   __ _ _ __
 | '_ ` + "`" + ` _ \| |/ _` + "`" + ` | | __) |/ _` + "`" + ` | '_ \ / _` + "`" + ` | '_ \
 | | | | | | | (_| | |/ __/| (_| | | | | (_| | |_) |
 |_| |_| |_|_|\__,_|_|_____|\__,_|_| |_|\__,_| .__/
                                             |_|
`
	return lipgloss.NewStyle().Foreground(pulseBlue).Render(logo)
}

// Run starts the TUI application
func Run(opts converter.Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
