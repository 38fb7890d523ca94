package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/james-see/midi2ahap/pkg/ahap"
	"github.com/james-see/midi2ahap/pkg/haptrack"
)

// Format represents a file format
type Format string

const (
	FormatMIDI     Format = "midi"
	FormatHaptrack Format = "hap"
	FormatAHAP     Format = "ahap"
	FormatUnknown  Format = "unknown"
)

// Default metadata for converted documents
const (
	DefaultMIDICreator     = "midi to haptic generator"
	DefaultHaptrackCreator = haptrack.DefaultCreatedBy
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".hap", ".haptrack":
		return FormatHaptrack
	case ".ahap", ".json":
		return FormatAHAP
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' {
		return FormatAHAP
	}
	if haptrack.LooksLikeScore(trimmed) {
		return FormatHaptrack
	}
	return FormatUnknown
}

// OutputPath derives the AHAP output path by replacing the input's extension
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".ahap"
}

// ConvertFile converts a MIDI or haptrack file to an AHAP file.
// An empty outputPath is derived from inputPath.
func (c *Converter) ConvertFile(inputPath, outputPath string) (Stats, error) {
	if outputPath == "" {
		outputPath = OutputPath(inputPath)
	}
	if DetectFormat(outputPath) != FormatAHAP {
		return Stats{}, errors.New("output must be an .ahap file")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}

	name := filepath.Base(inputPath)
	var doc *ahap.AHAP
	var stats Stats

	switch inputFormat {
	case FormatMIDI:
		doc, stats, err = c.MIDIToAHAP(name, data)
	case FormatHaptrack:
		doc, err = c.HaptrackToAHAP(data)
		if doc != nil {
			stats.Compiled = doc.Len()
		}
	default:
		return Stats{}, fmt.Errorf("unsupported conversion: %s to %s", inputFormat, FormatAHAP)
	}
	if err != nil {
		return stats, fmt.Errorf("conversion failed: %w", err)
	}

	if err := doc.Export(outputPath, c.exportOptions()...); err != nil {
		return stats, fmt.Errorf("failed to write output file: %w", err)
	}
	return stats, nil
}

// MIDIToAHAP converts MIDI data to an AHAP document. name is used for the
// default description.
func (c *Converter) MIDIToAHAP(name string, midiData []byte) (*ahap.AHAP, Stats, error) {
	events, err := NewMIDIReader().Read(midiData)
	if err != nil {
		return nil, Stats{}, err
	}

	description := c.opts.Description
	if description == "" {
		description = fmt.Sprintf("midi file %s", name)
	}
	createdBy := c.opts.CreatedBy
	if createdBy == "" {
		createdBy = DefaultMIDICreator
	}

	doc := ahap.New(description, createdBy)
	stats, err := c.ApplyNotes(doc, slices.Values(events))
	if err != nil {
		return nil, stats, err
	}
	return doc, stats, nil
}

// HaptrackToAHAP compiles a haptrack score to an AHAP document
func (c *Converter) HaptrackToAHAP(score []byte) (*ahap.AHAP, error) {
	p := haptrack.NewParser(c.logger)
	if c.opts.Description != "" {
		p.Description = c.opts.Description
	}
	if c.opts.CreatedBy != "" {
		p.CreatedBy = c.opts.CreatedBy
	}
	if err := p.Parse(bytes.NewReader(score)); err != nil {
		return nil, err
	}
	return p.Build()
}

// Encode renders a document with the converter's formatting options
func (c *Converter) Encode(doc *ahap.AHAP) ([]byte, error) {
	return doc.ToJSON(c.exportOptions()...)
}

func (c *Converter) exportOptions() []ahap.ExportOption {
	if c.opts.Indent {
		return []ahap.ExportOption{ahap.Indented()}
	}
	return nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"midi -> ahap",
		"hap -> ahap",
	}
}
