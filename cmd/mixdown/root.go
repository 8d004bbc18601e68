// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/spf13/cobra"

	"mixdown"
	"mixdown/internal/config"
	"mixdown/internal/logging"
	"mixdown/layout"
)

// version is stamped at build time; "dev" otherwise.
var version = "dev"

type exportFlags struct {
	input  string
	output string
	target string
	format string

	upconvert  bool
	matrix     int
	smoothness float64

	muteBed    bool
	muteGround bool
	roomX      float64
	roomY      float64
	roomZ      float64

	virtualizer bool
	force24     bool
	quiet       bool
	updateRate  int
}

func newRootCommand() *cobra.Command {
	var flags exportFlags
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mixdown",
		Short: "Render spatial audio sessions into channel or object files",
		Long: `Render spatial audio sessions into channel or object files.

Mixdown reads a channel bed or an object scene, renders it against a
target speaker layout and writes the result in the chosen output
format. Object formats skip the speaker render and carry the dry lanes
with their motion paths instead.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, &flags, configPath)
		},
	}

	fl := rootCmd.Flags()
	fl.StringVarP(&flags.input, "input", "i", "", "Input audio or scene file")
	fl.StringVarP(&flags.output, "output", "o", "", "Output file path")
	fl.StringVarP(&flags.target, "target", "t", "", "Target speaker layout (see 'mixdown layouts')")
	fl.StringVarP(&flags.format, "format", "f", "", "Output format tag (see 'mixdown formats')")
	fl.BoolVarP(&flags.upconvert, "upconvert", "u", false, "Spread bed channels across the full target layout")
	fl.IntVar(&flags.matrix, "matrix", 0, "Upconvert matrix mode, 0 to 5")
	fl.Float64Var(&flags.smoothness, "smoothness", 0, "Upconvert gain easing between ticks, 0.0 to 1.0")
	fl.BoolVar(&flags.muteBed, "mute-bed", false, "Silence objects sitting on the integer room grid")
	fl.BoolVar(&flags.muteGround, "mute-ground", false, "Silence objects at ground level")
	fl.Float64Var(&flags.roomX, "room-x", 0, "Room extent on the X axis for the mute rules")
	fl.Float64Var(&flags.roomY, "room-y", 0, "Room extent on the Y axis for the mute rules")
	fl.Float64Var(&flags.roomZ, "room-z", 0, "Room extent on the Z axis for the mute rules")
	fl.BoolVar(&flags.virtualizer, "virtualizer", false, "Render a binaural headphone mix")
	fl.BoolVar(&flags.force24, "force-24bit", false, "Write 24 bit output samples instead of 16")
	fl.IntVar(&flags.updateRate, "update-rate", 0, "Renderer tick length in frames")
	fl.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress progress and info output")
	fl.StringVarP(&configPath, "config", "c", "", "Defaults file path")

	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(newLayoutsCommand())
	rootCmd.AddCommand(newFormatsCommand())

	return rootCmd
}

func runExport(cmd *cobra.Command, flags *exportFlags, configPath string) error {
	cfg, loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.New(logging.Options{Quiet: flags.quiet})
	if loaded != "" {
		log.Info("defaults loaded", "path", loaded)
	}

	opts := buildOptions(flags, cmd.Flags().Changed, cfg)

	printer := newProgressPrinter(cmd.OutOrStdout(), flags.quiet)
	defer printer.finish()

	return mixdown.Export(opts, printer.update, log)
}

// buildOptions merges the command line with the defaults file: an
// explicit flag always wins, anything left unset falls back to the
// config value.
func buildOptions(flags *exportFlags, changed func(string) bool, cfg *config.Config) mixdown.ProcessingOptions {
	opts := mixdown.ProcessingOptions{
		InputPath:   flags.input,
		OutputPath:  flags.output,
		Layout:      flags.target,
		Format:      flags.format,
		Upconvert:   flags.upconvert,
		MatrixMode:  flags.matrix,
		Smoothness:  flags.smoothness,
		MuteBed:     flags.muteBed,
		MuteGround:  flags.muteGround,
		Room:        layout.Vector{X: float32(flags.roomX), Y: float32(flags.roomY), Z: float32(flags.roomZ)},
		Virtualizer: flags.virtualizer,
		Force24:     flags.force24,
		Quiet:       flags.quiet,
		UpdateRate:  flags.updateRate,
	}

	if opts.Layout == "" {
		opts.Layout = cfg.Render.Layout
	}
	if opts.Format == "" {
		opts.Format = cfg.Output.Format
	}
	if !changed("force-24bit") {
		opts.Force24 = cfg.Output.BitDepth == 24
	}
	if !changed("update-rate") {
		opts.UpdateRate = cfg.Render.UpdateRate
	}
	if !changed("room-x") && !changed("room-y") && !changed("room-z") {
		opts.Room = layout.Vector{
			X: float32(cfg.Room.X),
			Y: float32(cfg.Room.Y),
			Z: float32(cfg.Room.Z),
		}
	}
	return opts
}
