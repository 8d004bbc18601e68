// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"
	"math"

	"mixdown/audio"
	"mixdown/dsp"
	"mixdown/layout"
)

// ListenerOptions is the per-run listener policy distilled from the
// processing options. SampleRate 0 keeps the track's own rate.
type ListenerOptions struct {
	SampleRate  int
	ObjectLanes bool
	Virtualize  bool
	Upmix       UpmixSettings
}

// Setup is the configured shape of a run, handed to the export loops.
// RenderChannels is the lane count of a render tick; OutputChannels is
// the lane count the sink stores, smaller than RenderChannels when the
// chain folds lanes away. VirtualizerWarning is set instead of an
// error when virtualization was requested but could not be built; the
// run proceeds without it.
type Setup struct {
	SampleRate     int
	TotalFrames    int64
	RenderChannels int
	OutputChannels int

	Chain              []dsp.Processor
	VirtualizerWarning error
}

// ConfigureListener attaches the track and fixes the renderer output
// for one run, then derives the post chain.
//
// A virtualized run renders the full target lane set, folds it to a
// binaural pair and rides a normalizer over the fold, so the sink
// stores two lanes out of RenderChannels. The virtualizer's delay
// table is fixed at 48 kHz, so virtualized runs default to that rate
// and the renderer resamples off-rate tracks; an explicit SampleRate
// still wins, downgrading virtualization to a warning when it cannot
// be built. Virtualization never applies to object lane runs.
func ConfigureListener(r Renderer, track *audio.Track, target layout.Layout, opts ListenerOptions) (*Setup, error) {
	if err := r.Attach(track, opts.Upmix); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	rate := opts.SampleRate
	if rate <= 0 {
		rate = track.SampleRate()
		if opts.Virtualize && !opts.ObjectLanes {
			rate = dsp.VirtualizerRate
		}
	}

	cfg := ListenerConfig{
		SampleRate:  rate,
		Channels:    target.Channels,
		ObjectLanes: opts.ObjectLanes,
	}
	if err := r.Configure(cfg); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	setup := &Setup{
		SampleRate:     rate,
		TotalFrames:    scaledLength(track, rate),
		RenderChannels: r.Channels(),
		OutputChannels: r.Channels(),
	}

	if opts.Virtualize && !opts.ObjectLanes {
		v, err := dsp.NewVirtualizer(rate, target.Channels)
		if err != nil {
			setup.VirtualizerWarning = fmt.Errorf("%w: %w", ErrVirtualizerSetup, err)
		} else {
			decay := float32(10*r.UpdateRate()) / float32(rate)
			setup.Chain = []dsp.Processor{v, dsp.NewNormalizer(decay)}
			setup.OutputChannels = 2
		}
	}

	return setup, nil
}

// scaledLength converts the track length to the output clock, rounding
// up the same way the resampler does. An undeclared length stays 0.
func scaledLength(track *audio.Track, rate int) int64 {
	length := track.Length()
	if length <= 0 || rate == track.SampleRate() {
		return length
	}
	return int64(math.Ceil(float64(length) * float64(rate) / float64(track.SampleRate())))
}
