// SPDX-License-Identifier: EPL-2.0

package dsp

// Normalizer is a gain riding peak limiter. It scans each block for
// the loudest sample, drops its gain instantly whenever the scaled
// peak would leave the [-1, 1] range, and recovers toward unity by a
// fixed amount per block. Gain never exceeds 1, so quiet material
// passes through untouched.
type Normalizer struct {
	gain  float32
	decay float32
}

// NewNormalizer returns a Normalizer that recovers gain by decay per
// processed block. The caller derives decay from the run's tick length
// so that recovery time stays constant in wall clock terms regardless
// of sample rate.
func NewNormalizer(decay float32) *Normalizer {
	return &Normalizer{gain: 1, decay: decay}
}

// Gain reports the current gain factor.
func (n *Normalizer) Gain() float32 {
	return n.gain
}

// Process scales buf in place by the riding gain.
func (n *Normalizer) Process(buf []float32) {
	var peak float32
	for _, s := range buf {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak*n.gain > 1 {
		n.gain = 1 / peak
	}
	if n.gain != 1 {
		for i := range buf {
			buf[i] *= n.gain
		}
	}
	n.gain += n.decay
	if n.gain > 1 {
		n.gain = 1
	}
}
