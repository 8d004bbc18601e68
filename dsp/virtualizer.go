// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"math"

	"mixdown/layout"
)

// VirtualizerRate is the only sample rate the ear delay table is tuned
// for. Callers wanting virtualization on a track at any other rate
// resample to this first.
const VirtualizerRate = 48000

const (
	// maxEarDelay is the interaural delay in samples for a fully
	// lateral channel at 48 kHz, roughly 0.67 ms.
	maxEarDelay = 32

	rearShade     = 0.9
	heightShade   = 0.85
	centerBalance = math.Sqrt2 / 2
)

// Virtualizer folds a multichannel block into a binaural stereo pair
// on lanes 0 and 1. Every input lane contributes to both ears with a
// gain pair derived from the channel's azimuth and a small interaural
// delay on the far ear. Lanes beyond the first two are left untouched;
// the channel limited write discards them.
type Virtualizer struct {
	lanes int

	gainL []float32
	gainR []float32
	tapL  []delayLine
	tapR  []delayLine
}

// delayLine is a fixed length ring buffer. A zero length line passes
// samples through unchanged.
type delayLine struct {
	buf []float32
	pos int
}

func (d *delayLine) feed(s float32) float32 {
	if len(d.buf) == 0 {
		return s
	}
	out := d.buf[d.pos]
	d.buf[d.pos] = s
	d.pos++
	if d.pos == len(d.buf) {
		d.pos = 0
	}
	return out
}

// NewVirtualizer builds a binaural fold for the given channel set. The
// delay table is tuned for 48 kHz only; any other rate fails with
// ErrUnsupportedRate so the caller can fall back to a plain channel
// limited export.
func NewVirtualizer(sampleRate int, channels []layout.Channel) (*Virtualizer, error) {
	if sampleRate != VirtualizerRate {
		return nil, fmt.Errorf("%w: got %d Hz", ErrUnsupportedRate, sampleRate)
	}
	if len(channels) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewLanes, len(channels))
	}

	v := &Virtualizer{
		lanes: len(channels),
		gainL: make([]float32, len(channels)),
		gainR: make([]float32, len(channels)),
		tapL:  make([]delayLine, len(channels)),
		tapR:  make([]delayLine, len(channels)),
	}

	// Headroom scale keeps the folded pair near the source loudness
	// instead of summing every lane at full level.
	headroom := 1.0
	if v.lanes > 2 {
		headroom = math.Sqrt(2 / float64(v.lanes))
	}

	for i, ch := range channels {
		l, r, lateral := earGains(ch)
		v.gainL[i] = float32(l * headroom)
		v.gainR[i] = float32(r * headroom)

		delay := int(math.Round(math.Abs(lateral) * maxEarDelay))
		if delay > 0 {
			// The far ear hears a lateral source late.
			if lateral > 0 {
				v.tapL[i] = delayLine{buf: make([]float32, delay)}
			} else {
				v.tapR[i] = delayLine{buf: make([]float32, delay)}
			}
		}
	}
	return v, nil
}

// earGains maps a channel position to a constant power gain pair and
// the lateral component used for the ear delay. Lateral runs from -1
// (hard left) to +1 (hard right).
func earGains(ch layout.Channel) (left, right, lateral float64) {
	if ch.LFE {
		return centerBalance, centerBalance, 0
	}

	x := float64(ch.Pos.X)
	z := float64(ch.Pos.Z)
	if plane := math.Hypot(x, z); plane > 0 {
		lateral = x / plane
	}

	theta := (lateral + 1) * math.Pi / 4
	left = math.Cos(theta)
	right = math.Sin(theta)

	if z < 0 {
		left *= rearShade
		right *= rearShade
	}
	if ch.Pos.Y > 0 {
		left *= heightShade
		right *= heightShade
	}
	return left, right, lateral
}

// Process folds buf in place. The buffer length must be a multiple of
// the lane count the virtualizer was built for.
func (v *Virtualizer) Process(buf []float32) {
	frames := len(buf) / v.lanes
	for f := 0; f < frames; f++ {
		base := f * v.lanes
		var left, right float32
		for c := 0; c < v.lanes; c++ {
			s := buf[base+c]
			left += v.gainL[c] * v.tapL[c].feed(s)
			right += v.gainR[c] * v.tapR[c].feed(s)
		}
		buf[base] = left
		buf[base+1] = right
	}
}
