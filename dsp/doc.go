// SPDX-License-Identifier: EPL-2.0

/*
Package dsp holds the post processing chain applied to rendered blocks
before they reach a sink.

# Processors

Every stage implements the Processor interface and mutates interleaved
float32 samples in place:

	type Processor interface {
		Process(buf []float32)
	}

Stages are stateful across calls. A run builds its chain once, feeds
every flushed block through it in order, and discards it afterwards.

# Virtualizer

The Virtualizer folds a multichannel block into a binaural pair on the
first two lanes. Each source channel gets a constant power gain pair
from its azimuth plus a small interaural delay on the far ear, with
mild shading for rear and height positions. The delay table is tuned
for 48 kHz; construction fails with ErrUnsupportedRate at any other
rate so callers can fall back to a plain channel limited export.

# Normalizer

The Normalizer is a gain riding peak limiter. Attack is instant: a
block whose scaled peak would clip pins the gain to land that peak at
full scale. Recovery adds a fixed decay per block, derived by the
caller from the run's tick length, and the gain never rises above
unity.

# Chain Order

When both stages are active the virtualizer runs first so the
normalizer limits the folded pair rather than the discarded lanes.
*/
package dsp
