// SPDX-License-Identifier: EPL-2.0

package render

// BlockSink receives channel-based audio in writer-sized blocks. Offset
// and length are in samples, not frames. Close must be safe to call
// twice; the loop closes on success and the caller's cleanup may close
// again after a failure.
type BlockSink interface {
	WriteHeader() error
	WriteBlock(buf []float32, offset, length int) error

	// WriteChannelLimitedBlock writes the first outChannels lanes of
	// each totalChannels-wide frame in buf[offset:offset+length],
	// dropping the rest. Used when the render path carries lanes that
	// exist only for in-chain spatialization.
	WriteChannelLimitedBlock(buf []float32, outChannels, totalChannels, offset, length int) error

	Close() error
}

// EnvironmentSink receives object-based audio one render tick at a
// time; the sink does its own buffering and serialization.
type EnvironmentSink interface {
	WriteHeader() error
	WriteFrame(buf []float32) error
	Close() error
}

// MetadataSink is an EnvironmentSink that runs a metadata finalization
// pass inside Close. FinalFeedback registers a callback the sink drives
// with a fraction in [0, 1] during that pass; FinalFeedbackStart tells
// the sink where on the overall progress scale its pass begins so both
// sides agree on the phase boundary.
type MetadataSink interface {
	EnvironmentSink
	FinalFeedback(fn func(fraction float64))
	FinalFeedbackStart(boundary float64)
}
