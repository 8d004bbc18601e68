// SPDX-License-Identifier: EPL-2.0

package mixdown

import (
	"fmt"
	"strings"

	"mixdown/layout"
	"mixdown/render"
)

// ProcessingOptions is the immutable request for one export run.
// Layout and Format are registry tokens; unknown ones fail inside
// Export with the registry's own error.
type ProcessingOptions struct {
	InputPath  string
	OutputPath string
	// Layout is the target layout token, e.g. "5.1".
	Layout string
	// Format is the output format tag, e.g. "wav".
	Format string

	// Upconvert spreads bed material across a larger target layout
	// using the passive matrix selected by MatrixMode.
	Upconvert  bool
	MatrixMode int
	// Smoothness in [0, 1] eases matrix gain changes between ticks.
	Smoothness float64

	MuteBed    bool
	MuteGround bool
	// Room is the environment extent the mute rules normalize object
	// positions by. Axes at or below zero count as 1.
	Room layout.Vector

	Virtualizer bool
	// Force24 selects 24 bit output samples instead of 16.
	Force24 bool
	Quiet   bool

	// UpdateRate is the renderer tick length in frames; 0 means the
	// engine default.
	UpdateRate int
}

// Validate checks the option invariants that do not need any file
// access. Export calls it first.
func (o ProcessingOptions) Validate() error {
	if strings.TrimSpace(o.InputPath) == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidOptions)
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidOptions)
	}
	if strings.TrimSpace(o.Layout) == "" {
		return fmt.Errorf("%w: target layout is required", ErrInvalidOptions)
	}
	if strings.TrimSpace(o.Format) == "" {
		return fmt.Errorf("%w: output format is required", ErrInvalidOptions)
	}
	if o.MatrixMode < 0 || o.MatrixMode > 5 {
		return fmt.Errorf("%w: matrix mode must be between 0 and 5, got %d", ErrInvalidOptions, o.MatrixMode)
	}
	if o.Smoothness < 0 || o.Smoothness > 1 {
		return fmt.Errorf("%w: smoothness must be between 0.0 and 1.0, got %g", ErrInvalidOptions, o.Smoothness)
	}
	if o.UpdateRate < 0 {
		return fmt.Errorf("%w: update rate must not be negative, got %d", ErrInvalidOptions, o.UpdateRate)
	}
	return nil
}

func (o ProcessingOptions) upmix() render.UpmixSettings {
	return render.UpmixSettings{
		Enabled:    o.Upconvert,
		Matrix:     o.MatrixMode,
		Smoothness: o.Smoothness,
	}
}
