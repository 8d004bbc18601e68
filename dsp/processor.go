// SPDX-License-Identifier: EPL-2.0

package dsp

// Processor mutates a block of interleaved float32 samples in place.
//
// Processors are stateful and constructed for a single run with the
// rate and channel set they will see, so Process carries only the
// samples. Blocks may vary in length between calls; the final block of
// a run is usually shorter than the rest.
type Processor interface {
	Process(buf []float32)
}
