// Package main is the entry point for the midi2ahap CLI
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/james-see/midi2ahap/pkg/ahap"
	"github.com/james-see/midi2ahap/pkg/api"
	"github.com/james-see/midi2ahap/pkg/config"
	"github.com/james-see/midi2ahap/pkg/converter"
	"github.com/james-see/midi2ahap/pkg/converter/kits"
	"github.com/james-see/midi2ahap/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile  string
	description string
	author      string
	kitName     string
	drums       bool
	velocity    bool
	indent      bool
	verbose     bool
	normalize   bool
	curveSteps  int
	serverPort  int
)

var (
	cfg    config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "midi2ahap",
	Short: "Author Apple Haptic and Audio Pattern (AHAP) files",
	Long: `midi2ahap builds AHAP haptic pattern documents from MIDI files and
haptrack scores, and exposes the sharpness and curve helpers used to
author them.

Called with a single input it behaves like convert.

Examples:
  midi2ahap song.mid
  midi2ahap midi2ahap song.mid -o song.ahap
  midi2ahap hap2ahap beat.hap --indent
  midi2ahap convert song.mid
  midi2ahap sharpness 155
  midi2ahap curve 0 1 0.2 0.8 --steps 4
  midi2ahap inspect song.ahap
  midi2ahap tui
  midi2ahap serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: setup,
	RunE:              runConvert,
}

var midi2ahapCmd = &cobra.Command{
	Use:   "midi2ahap <input.mid>",
	Short: "Convert a MIDI file to AHAP",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var hap2ahapCmd = &cobra.Command{
	Use:   "hap2ahap <input.hap>",
	Short: "Compile a haptrack score to AHAP",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect the input format and convert to AHAP",
	Long:  `Detects MIDI or haptrack input by extension, falling back to the file content.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var sharpnessCmd = &cobra.Command{
	Use:   "sharpness <frequency>",
	Short: "Map a frequency in Hz to haptic sharpness",
	Args:  cobra.ExactArgs(1),
	RunE:  runSharpness,
}

var curveCmd = &cobra.Command{
	Use:   "curve <startTime> <endTime> <startValue> <endValue>",
	Short: "Print the control points of a linear curve segment",
	Args:  cobra.ExactArgs(4),
	RunE:  runCurve,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.ahap>",
	Short: "Summarize an AHAP document",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&indent, "indent", false, "Pretty-print output JSON")

	// Conversion flags
	for _, cmd := range []*cobra.Command{rootCmd, midi2ahapCmd, hap2ahapCmd, convertCmd} {
		cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .ahap file path (default: input with .ahap extension)")
		cmd.Flags().StringVar(&description, "description", "", "Metadata description")
		cmd.Flags().StringVar(&author, "author", "", "Metadata \"Created By\"")
	}
	for _, cmd := range []*cobra.Command{rootCmd, midi2ahapCmd, convertCmd} {
		cmd.Flags().BoolVar(&drums, "drums", true, "Map percussion notes to transients")
		cmd.Flags().StringVar(&kitName, "kit", kits.GMKitID, "Drum kit used with --drums")
		cmd.Flags().BoolVar(&velocity, "velocity", false, "Scale intensity by note velocity")
	}

	// sharpness command
	sharpnessCmd.Flags().BoolVar(&normalize, "normalize", true, "Clamp the frequency to the 80-230 Hz range")

	// curve command
	curveCmd.Flags().IntVar(&curveSteps, "steps", ahap.DefaultSteps, "Number of control points")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", config.DefaultPort, "Server port")

	// Add commands
	rootCmd.AddCommand(midi2ahapCmd)
	rootCmd.AddCommand(hap2ahapCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(sharpnessCmd)
	rootCmd.AddCommand(curveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	return slog.New(h)
}

// setup loads .env defaults; explicit flags win over them
func setup(cmd *cobra.Command, args []string) error {
	logger = newLogger(verbose)
	slog.SetDefault(logger)

	var err error
	cfg, err = config.Load(logger)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("indent") {
		cfg.Indent = indent
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = serverPort
	}
	if author != "" {
		cfg.Author = author
	}
	return nil
}

func converterOptions(cmd *cobra.Command) (converter.Options, error) {
	opts := converter.Options{
		Description:       description,
		CreatedBy:         cfg.Author,
		VelocityIntensity: velocity,
		Indent:            cfg.Indent,
		Logger:            logger,
	}
	if cmd.Flags().Lookup("drums") != nil && drums {
		kit, err := kits.Get(kitName)
		if err != nil {
			return opts, err
		}
		opts.Drums = kit
	}
	return opts, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := outputFile
	if output == "" {
		output = converter.OutputPath(input)
	}

	// the root command shares its name with midi2ahap but auto-detects
	switch {
	case !cmd.HasParent():
	case cmd.Name() == "midi2ahap":
		if converter.DetectFormat(input) != converter.FormatMIDI {
			return fmt.Errorf("expected a .mid or .midi input, got %s", input)
		}
	case cmd.Name() == "hap2ahap":
		if converter.DetectFormat(input) != converter.FormatHaptrack {
			return fmt.Errorf("expected a .hap input, got %s", input)
		}
	}

	opts, err := converterOptions(cmd)
	if err != nil {
		return err
	}
	conv := converter.New(opts)

	fmt.Printf("Converting %s -> %s\n", input, output)
	stats, err := conv.ConvertFile(input, output)
	if err != nil {
		return err
	}

	if stats.Compiled > 0 {
		fmt.Printf("Compiled %d patterns\n", stats.Compiled)
	} else {
		fmt.Printf("Wrote %d events (%d melodic, %d drums)\n", stats.Total(), stats.Melodic, stats.Drums)
	}
	if stats.UnmatchedNoteOffs > 0 || stats.Unterminated > 0 {
		fmt.Printf("Skipped %d unmatched note-offs, %d unterminated notes\n", stats.UnmatchedNoteOffs, stats.Unterminated)
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runSharpness(cmd *cobra.Command, args []string) error {
	freq, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid frequency %q: %w", args[0], err)
	}
	sharpness, err := ahap.FreqToSharpness(freq, normalize)
	if err != nil {
		return err
	}
	fmt.Printf("%g Hz -> sharpness %.4f\n", freq, sharpness)
	return nil
}

func runCurve(cmd *cobra.Command, args []string) error {
	var values [4]float64
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", arg, err)
		}
		values[i] = v
	}

	points, err := ahap.CreateCurve(values[0], values[1], values[2], values[3], curveSteps)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if cfg.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(points)
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := ahap.ReadFile(args[0])
	if err != nil {
		return err
	}

	counts := make(map[ahap.EventType]int)
	var curves int
	var end float64
	for _, p := range doc.Patterns() {
		switch {
		case p.Event != nil:
			counts[p.Event.EventType]++
			stop := p.Event.Time
			if p.Event.EventDuration != nil {
				stop += *p.Event.EventDuration
			}
			end = max(end, stop)
		case p.ParameterCurve != nil:
			curves++
			for _, cp := range p.ParameterCurve.ParameterCurveControlPoints {
				end = max(end, p.ParameterCurve.Time+cp.Time)
			}
		}
	}

	fmt.Printf("File:        %s\n", args[0])
	fmt.Printf("Version:     %g\n", doc.Version)
	fmt.Printf("Description: %s\n", doc.Metadata.Description)
	fmt.Printf("Created By:  %s\n", doc.Metadata.CreatedBy)
	fmt.Printf("Created:     %s\n", doc.Metadata.Created)
	fmt.Printf("Patterns:    %d\n", doc.Len())
	for _, t := range []ahap.EventType{
		ahap.EventTypeHapticTransient,
		ahap.EventTypeHapticContinuous,
		ahap.EventTypeAudioCustom,
		ahap.EventTypeAudioContinuous,
	} {
		if counts[t] > 0 {
			fmt.Printf("  %-18s %d\n", t, counts[t])
		}
	}
	if curves > 0 {
		fmt.Printf("  %-18s %d\n", "ParameterCurve", curves)
	}
	fmt.Printf("Duration:    %.3fs\n", end)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := converter.Options{
		CreatedBy: cfg.Author,
		Drums:     kits.NewGeneralMIDI(),
		Indent:    cfg.Indent,
		Logger:    logger,
	}
	return tui.Run(opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", cfg.Port)
	return api.StartServer(cfg, logger)
}
