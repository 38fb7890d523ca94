// Package haptrack compiles haptrack scores into AHAP documents.
//
// A score has a definition section followed by tracks:
//
//	# Comments start with #
//	bpm = 120
//	time = 4/4
//	s = snare, 1.0, 0.9, down, 60
//	k = kick, 1.0, 0.2
//
//	begin
//	track1
//	k8k8s8k8k8k8s8k8
//	track2
//	h8h8h8h8-4h8h8
//
// Each letter plays its definition as a transient; the number after it is the
// note value (1 whole, 2 half, 4 quarter, 8 eighth, 16 sixteenth, default 8).
// A dash is a rest. Definitions with up/down add a sharpness curve lasting
// the given number of milliseconds.
package haptrack

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/james-see/midi2ahap/pkg/ahap"
)

// Defaults for scores that do not set them
const (
	DefaultDescription = "Haptrack Pattern"
	DefaultCreatedBy   = "Haptrack DSL"
	defaultNoteValue   = 8
	curveSteps         = 5
)

// Definition defines what a letter represents
type Definition struct {
	Name      string
	Intensity float64
	Sharpness float64
	HasCurve  bool
	CurveDown bool    // if true, sharpness falls over the curve
	CurveDur  float64 // seconds
}

// Parser parses and executes haptrack scores
type Parser struct {
	Description string
	CreatedBy   string

	definitions map[rune]Definition
	bpm         float64
	numerator   int
	denominator int
	builder     *ahap.Builder
	logger      *slog.Logger

	track  int
	cursor float64 // beats from the start of the current track
	line   int
}

// NewParser creates a new parser
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		Description: DefaultDescription,
		CreatedBy:   DefaultCreatedBy,
		definitions: make(map[rune]Definition),
		bpm:         ahap.DefaultBPM,
		numerator:   ahap.DefaultNumerator,
		denominator: ahap.DefaultDenominator,
		logger:      logger,
	}
}

// LooksLikeScore reports whether data has a begin marker line
func LooksLikeScore(data []byte) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if strings.EqualFold(string(bytes.TrimSpace(line)), "begin") {
			return true
		}
	}
	return false
}

// ParseFile parses a haptrack file
func (p *Parser) ParseFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open haptrack file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return p.Parse(file)
}

// Parse parses a haptrack score
func (p *Parser) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.EqualFold(line, "begin") {
			if p.builder != nil {
				return p.errorf("duplicate begin marker")
			}
			p.builder = ahap.NewBuilder(p.Description, p.CreatedBy).
				WithBPM(p.bpm).
				WithTimeSignature(p.numerator, p.denominator)
			if err := p.builder.Err(); err != nil {
				return p.errorf("%w", err)
			}
			continue
		}

		if p.builder == nil {
			if err := p.parseDefinitionLine(line); err != nil {
				return err
			}
			continue
		}

		if strings.HasPrefix(strings.ToLower(line), "track") {
			p.track++
			p.cursor = 0
			continue
		}
		if err := p.parseTrack(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Build returns the compiled document
func (p *Parser) Build() (*ahap.AHAP, error) {
	if p.builder == nil {
		return nil, fmt.Errorf("%w: no tracks found (missing 'begin' marker?)", ahap.ErrInvalidArgument)
	}
	return p.builder.Build()
}

// Definitions returns a copy of the letter definitions
func (p *Parser) Definitions() map[rune]Definition {
	out := make(map[rune]Definition, len(p.definitions))
	for k, v := range p.definitions {
		out[k] = v
	}
	return out
}

// BPM returns the tempo of the score
func (p *Parser) BPM() float64 {
	return p.bpm
}

// TimeSignature returns the time signature of the score
func (p *Parser) TimeSignature() (numerator, denominator int) {
	return p.numerator, p.denominator
}

// Tracks returns the number of track markers seen
func (p *Parser) Tracks() int {
	return p.track
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: "+format, append([]any{p.line}, args...)...)
}

// parseDefinitionLine handles `bpm = 120`, `time = 4/4` and `x = name, intensity, sharpness [, up|down, ms]`
func (p *Parser) parseDefinitionLine(line string) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		p.logger.Warn("ignoring line without '='", slog.Int("line", p.line), slog.String("text", line))
		return nil
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch strings.ToLower(key) {
	case "bpm":
		bpm, err := strconv.ParseFloat(value, 64)
		if err != nil || bpm <= 0 {
			return p.errorf("invalid BPM: %q", value)
		}
		p.bpm = bpm
		return nil
	case "time":
		num, denom, ok := strings.Cut(value, "/")
		if !ok {
			return p.errorf("invalid time signature: %s", value)
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil || n <= 0 {
			return p.errorf("invalid time signature numerator: %q", num)
		}
		d, err := strconv.Atoi(strings.TrimSpace(denom))
		if err != nil || d <= 0 {
			return p.errorf("invalid time signature denominator: %q", denom)
		}
		p.numerator = n
		p.denominator = d
		return nil
	}

	letters := []rune(key)
	if len(letters) != 1 || letters[0] == '-' || isDigit(letters[0]) {
		return p.errorf("definition key must be a single letter, got %q", key)
	}
	def, err := p.parseDefinition(value)
	if err != nil {
		return err
	}
	p.definitions[letters[0]] = def
	return nil
}

func (p *Parser) parseDefinition(value string) (Definition, error) {
	def := Definition{}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 3 {
		return def, p.errorf("definition needs at least name, intensity, sharpness")
	}

	def.Name = parts[0]

	intensity, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return def, p.errorf("invalid intensity: %q", parts[1])
	}
	def.Intensity = intensity

	sharpness, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return def, p.errorf("invalid sharpness: %q", parts[2])
	}
	def.Sharpness = sharpness

	if len(parts) >= 5 {
		dir := strings.ToLower(parts[3])
		if dir != "up" && dir != "down" {
			return def, p.errorf("curve direction must be up or down, got %q", parts[3])
		}
		durMs, err := strconv.ParseFloat(parts[4], 64)
		if err != nil || durMs <= 0 {
			return def, p.errorf("invalid curve duration: %q", parts[4])
		}
		def.HasCurve = true
		def.CurveDown = dir == "down"
		def.CurveDur = durMs / 1000.0
	}

	return def, nil
}

// parseTrack plays one pattern line, continuing from where the track left off
func (p *Parser) parseTrack(pattern string) error {
	runes := []rune(pattern)
	i := 0

	for i < len(runes) {
		char := runes[i]
		i++

		if char == '-' {
			noteValue, err := p.noteValue(runes, &i)
			if err != nil {
				return err
			}
			p.cursor += BeatDuration(noteValue, p.denominator)
			continue
		}

		def, ok := p.definitions[char]
		if !ok {
			if char != ' ' && char != '|' {
				p.logger.Debug("skipping undefined character", slog.Int("line", p.line), slog.String("char", string(char)))
			}
			continue
		}

		noteValue, err := p.noteValue(runes, &i)
		if err != nil {
			return err
		}

		at := p.builder.AtBeat(ahap.Beat(p.cursor))
		at.Transient().
			Intensity(def.Intensity).
			Sharpness(def.Sharpness).
			Add()

		if def.HasCurve {
			end := def.Sharpness * 1.5
			if def.CurveDown {
				end = def.Sharpness * 0.3
			} else if end > 1.0 {
				end = 1.0
			}
			at.Curve(ahap.CurveHapticSharpness).
				From(0, def.Sharpness).
				To(def.CurveDur, end).
				Steps(curveSteps).
				Add()
		}

		if err := p.builder.Err(); err != nil {
			return p.errorf("%w", err)
		}
		p.cursor += BeatDuration(noteValue, p.denominator)
	}

	return nil
}

func (p *Parser) noteValue(runes []rune, index *int) (int, error) {
	start := *index
	for *index < len(runes) && isDigit(runes[*index]) {
		*index++
	}
	if start == *index {
		return defaultNoteValue, nil
	}
	n, err := strconv.Atoi(string(runes[start:*index]))
	if err != nil || n <= 0 {
		return 0, p.errorf("invalid note value %q", string(runes[start:*index]))
	}
	return n, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// BeatDuration returns how many beats a note value lasts when the time
// signature's denominator gets one beat. In 4/4 a quarter (4) is one beat and
// an eighth (8) half a beat.
func BeatDuration(noteValue, denominator int) float64 {
	return float64(denominator) / float64(noteValue)
}
