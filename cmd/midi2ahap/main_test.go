package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/james-see/midi2ahap/pkg/ahap"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	outputFile, description, author = "", "", ""
	if args == nil {
		// nil would make cobra fall back to os.Args
		args = []string{}
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"midi2ahap", "hap2ahap", "convert", "sharpness", "curve", "inspect", "tui", "serve"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestMissingArgument(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"root", []string{}},
		{"root with two inputs", []string{"a.mid", "b.mid"}},
		{"midi2ahap", []string{"midi2ahap"}},
		{"hap2ahap", []string{"hap2ahap"}},
		{"convert", []string{"convert"}},
		{"sharpness", []string{"sharpness"}},
		{"inspect", []string{"inspect"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}

func TestRootConvertsInput(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("beat.hap", []byte("k = kick, 1.0, 0.2\nbegin\nk4k4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		args   []string
		output string
	}{
		{"default output", []string{"beat.hap"}, "beat.ahap"},
		{"explicit output", []string{"beat.hap", "-o", "out.ahap"}, "out.ahap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err != nil {
				t.Fatalf("%v failed: %v", tt.args, err)
			}
			doc, err := ahap.ReadFile(tt.output)
			if err != nil {
				t.Fatalf("output not readable: %v", err)
			}
			if doc.Len() != 2 {
				t.Errorf("got %d patterns, want 2", doc.Len())
			}
		})
	}
}

func TestHaptrackCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("beat.hap", []byte("k = kick, 1.0, 0.2\nbegin\nk4k4k4k4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "hap2ahap", "beat.hap", "--author", "cli test"); err != nil {
		t.Fatalf("hap2ahap failed: %v", err)
	}

	doc, err := ahap.ReadFile(filepath.Join(".", "beat.ahap"))
	if err != nil {
		t.Fatalf("output not readable: %v", err)
	}
	if doc.Len() != 4 || doc.Metadata.CreatedBy != "cli test" {
		t.Errorf("doc = %d patterns by %q", doc.Len(), doc.Metadata.CreatedBy)
	}

	if err := execute(t, "inspect", "beat.ahap"); err != nil {
		t.Errorf("inspect failed: %v", err)
	}
}

func TestWrongInputKind(t *testing.T) {
	if err := execute(t, "midi2ahap", "beat.hap"); err == nil {
		t.Error("midi2ahap should reject a haptrack input")
	}
}

func TestSharpnessCommand(t *testing.T) {
	if err := execute(t, "sharpness", "155"); err != nil {
		t.Errorf("sharpness failed: %v", err)
	}
	if err := execute(t, "sharpness", "1000", "--normalize=false"); err == nil {
		t.Error("out of range frequency without clamping should fail")
	}
	normalize = true
}

func TestCurveCommand(t *testing.T) {
	if err := execute(t, "curve", "0", "1", "0", "1", "--steps", "4"); err != nil {
		t.Errorf("curve failed: %v", err)
	}
	for _, steps := range []string{"0", "10001", "4611686018427387904"} {
		t.Run("steps="+steps, func(t *testing.T) {
			if err := execute(t, "curve", "0", "1", "0", "1", "--steps", steps); err == nil {
				t.Errorf("--steps %s should fail", steps)
			}
		})
	}
	curveSteps = ahap.DefaultSteps
}
