package ahap

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestTransientJSONShape(t *testing.T) {
	a := New("shape", "test")
	if err := a.AddHapticTransient(1.5, 0.8, 0.2); err != nil {
		t.Fatal(err)
	}
	data, err := a.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"Version", "Metadata", "Pattern"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top level key %q", key)
		}
	}
	meta := raw["Metadata"].(map[string]any)
	for _, key := range []string{"Project", "Created", "Description", "Created By"} {
		if _, ok := meta[key]; !ok {
			t.Errorf("missing metadata key %q", key)
		}
	}

	entry := raw["Pattern"].([]any)[0].(map[string]any)
	event, ok := entry["Event"].(map[string]any)
	if !ok {
		t.Fatalf("entry is not an Event: %v", entry)
	}
	if _, ok := entry["ParameterCurve"]; ok {
		t.Error("event entry must not carry a ParameterCurve key")
	}
	if event["Time"] != 1.5 || event["EventType"] != "HapticTransient" {
		t.Errorf("unexpected event %v", event)
	}
	if _, ok := event["EventDuration"]; ok {
		t.Error("transient event must not have EventDuration")
	}
	if _, ok := event["EventWaveformPath"]; ok {
		t.Error("transient event must not have EventWaveformPath")
	}
	params := event["EventParameters"].([]any)
	first := params[0].(map[string]any)
	second := params[1].(map[string]any)
	if first["ParameterID"] != "HapticIntensity" || first["ParameterValue"] != 0.8 {
		t.Errorf("first parameter = %v", first)
	}
	if second["ParameterID"] != "HapticSharpness" || second["ParameterValue"] != 0.2 {
		t.Errorf("second parameter = %v", second)
	}
}

func TestCurveJSONShape(t *testing.T) {
	a := New("shape", "test")
	points, _ := CreateCurve(0, 1, 0, 1, 2)
	if err := a.AddParameterCurve(CurveHapticSharpness, 1.0, points); err != nil {
		t.Fatal(err)
	}
	data, err := a.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"ParameterCurve":{"ParameterID":"HapticSharpnessControl","Time":1,"ParameterCurveControlPoints":[{"Time":0.5,"ParameterValue":0.5},{"Time":1,"ParameterValue":1}]}}`
	if !strings.Contains(string(data), want) {
		t.Errorf("ToJSON() = %s\nwant it to contain %s", data, want)
	}
}

func TestEmptyDocumentJSON(t *testing.T) {
	data, err := New("empty", "test").ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Pattern":[]`) {
		t.Errorf("empty pattern must encode as [], got %s", data)
	}
}

func TestRoundTrip(t *testing.T) {
	a := New("round trip", "test")
	_ = a.AddHapticTransient(0, 1, 0.5)
	_ = a.AddHapticContinuous(0.5, 2, 0.7, 0.3)
	_ = a.AddAudioCustom(1, "a.wav", 0.9)
	points, _ := CreateCurve(0, 2, 0.3, 0.8, 10)
	_ = a.AddParameterCurve(CurveHapticIntensity, 0.5, points)

	data, err := a.ToJSON(Indented())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if b.Version != a.Version || b.Metadata != a.Metadata {
		t.Errorf("header mismatch: %+v vs %+v", b.Metadata, a.Metadata)
	}
	want, got := a.Patterns(), b.Patterns()
	if len(got) != len(want) {
		t.Fatalf("Expected %d patterns, got %d", len(want), len(got))
	}
	again, err := b.ToJSON(Indented())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("re-encoded document differs:\n%s\n%s", data, again)
	}
	if *got[2].Event.EventWaveformPath != "a.wav" {
		t.Errorf("waveform path lost: %+v", got[2].Event)
	}
	if got[3].ParameterCurve.ParameterID != CurveHapticIntensity {
		t.Errorf("curve ID lost: %+v", got[3].ParameterCurve)
	}
}

func TestIndentDoesNotChangeData(t *testing.T) {
	a := New("indent", "test")
	_ = a.AddHapticTransient(0, 1, 1)

	compact, _ := a.ToJSON()
	indented, _ := a.ToJSON(WithIndent("", "    "))
	var buf bytes.Buffer
	if err := json.Compact(&buf, indented); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), compact) {
		t.Errorf("indent changed content:\n%s\n%s", buf.Bytes(), compact)
	}
	if !bytes.Contains(indented, []byte("\n    \"Version\"")) {
		t.Errorf("expected four space indent, got %s", indented)
	}
}

func TestExport(t *testing.T) {
	a := New("test export", "test creator")
	_ = a.AddHapticTransient(0.0, 1.0, 0.5)

	tmpFile := filepath.Join(t.TempDir(), "test_export.ahap")

	if err := a.Export(tmpFile, Indented()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	// exporting twice is fine and does not touch the document
	if err := a.Export(tmpFile); err != nil {
		t.Fatalf("second Export failed: %v", err)
	}
	if a.Len() != 1 {
		t.Errorf("Export modified the document")
	}

	decoded, err := ReadFile(tmpFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if decoded.Version != 1.0 {
		t.Errorf("Expected version 1.0, got %g", decoded.Version)
	}
	if decoded.Len() != 1 {
		t.Errorf("Expected 1 pattern, got %d", decoded.Len())
	}
}

func TestExportMissingDirectory(t *testing.T) {
	a := New("test", "test")
	err := a.Export(filepath.Join(t.TempDir(), "missing", "x.ahap"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	a := New("encode", "test")
	_ = a.AddHapticTransient(0, 1, 1)
	var buf bytes.Buffer
	if err := a.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(buf.Bytes()); err != nil {
		t.Errorf("Encode output not parseable: %v", err)
	}
}

func TestParseRejectsAmbiguousEntry(t *testing.T) {
	data := []byte(`{"Version":1,"Metadata":{},"Pattern":[{}]}`)
	if _, err := Parse(data); !IsInvalidArgument(err) {
		t.Errorf("Parse() error = %v, want ErrInvalidArgument", err)
	}
}
