package ahap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// document is the on-disk shape of an AHAP file
type document struct {
	Version  float64   `json:"Version"`
	Metadata Metadata  `json:"Metadata"`
	Pattern  []Pattern `json:"Pattern"`
}

type exportConfig struct {
	indent bool
	prefix string
	step   string
}

// ExportOption controls formatting of the exported JSON. Options never change
// the data content.
type ExportOption func(*exportConfig)

// WithIndent formats the output like json.MarshalIndent
func WithIndent(prefix, indent string) ExportOption {
	return func(c *exportConfig) {
		c.indent = true
		c.prefix = prefix
		c.step = indent
	}
}

// Indented is WithIndent("", "  ")
func Indented() ExportOption {
	return WithIndent("", "  ")
}

func (a *AHAP) wire() document {
	pattern := a.pattern
	if pattern == nil {
		pattern = []Pattern{}
	}
	return document{
		Version:  a.Version,
		Metadata: a.Metadata,
		Pattern:  pattern,
	}
}

// MarshalJSON encodes the document in AHAP layout
func (a *AHAP) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.wire())
}

// UnmarshalJSON decodes an AHAP document, replacing the receiver's contents
func (a *AHAP) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for i, p := range doc.Pattern {
		if (p.Event == nil) == (p.ParameterCurve == nil) {
			return fmt.Errorf("%w: pattern entry %d must hold exactly one of Event or ParameterCurve", ErrInvalidArgument, i)
		}
	}
	a.Version = doc.Version
	a.Metadata = doc.Metadata
	a.pattern = make([]Pattern, 0, len(doc.Pattern))
	for _, p := range doc.Pattern {
		a.append(p)
	}
	return nil
}

// ToJSON returns the AHAP as JSON bytes
func (a *AHAP) ToJSON(opts ...ExportOption) ([]byte, error) {
	var cfg exportConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.indent {
		return json.MarshalIndent(a.wire(), cfg.prefix, cfg.step)
	}
	return json.Marshal(a.wire())
}

// Encode writes the AHAP JSON to w
func (a *AHAP) Encode(w io.Writer, opts ...ExportOption) error {
	data, err := a.ToJSON(opts...)
	if err != nil {
		return fmt.Errorf("failed to encode AHAP: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write AHAP: %w", err)
	}
	return nil
}

// Export writes the AHAP to a file
func (a *AHAP) Export(filename string, opts ...ExportOption) error {
	data, err := a.ToJSON(opts...)
	if err != nil {
		return fmt.Errorf("failed to encode AHAP: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write AHAP file: %w", err)
	}
	return nil
}

// Parse decodes AHAP JSON
func Parse(data []byte) (*AHAP, error) {
	a := &AHAP{}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("failed to parse AHAP: %w", err)
	}
	return a, nil
}

// ReadFile reads and decodes an AHAP file
func ReadFile(filename string) (*AHAP, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read AHAP file: %w", err)
	}
	return Parse(data)
}
