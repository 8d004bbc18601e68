// SPDX-License-Identifier: EPL-2.0

package render

import (
	"mixdown/audio"
	"mixdown/layout"
)

// Object is a spatial render entity. The renderer owns the slice and keeps
// Position current tick by tick; the export loops read Position and write
// Mute, nothing else.
type Object struct {
	Name     string
	Position layout.Vector
	Mute     bool
}

// UpmixSettings steer how bed material spreads across a larger target
// layout. Matrix picks one of six spread strengths (0 none, 5 full room)
// and only applies when Enabled; Smoothness in [0, 1] eases gain changes
// between ticks, 0 meaning instant.
type UpmixSettings struct {
	Enabled    bool
	Matrix     int
	Smoothness float64
}

// ListenerConfig fixes the renderer output for one run. ObjectLanes
// switches the renderer from speaker mixing to one dry lane per object,
// which is what environment sinks consume.
type ListenerConfig struct {
	SampleRate  int
	Channels    []layout.Channel
	ObjectLanes bool
}

// Renderer turns an attached track into fixed-size interleaved ticks.
//
// The call order is Attach, Configure, then Render until the source is
// exhausted. Render hands out one tick of UpdateRate frames times
// Channels lanes; the final tick is zero padded past the end of the
// source and the call after it fails with io.EOF. The returned buffer is
// reused, so callers consume it before the next call.
type Renderer interface {
	Attach(track *audio.Track, upmix UpmixSettings) error
	Configure(cfg ListenerConfig) error
	UpdateRate() int
	Channels() int
	Render() ([]float32, error)
	Objects() []*Object
}
