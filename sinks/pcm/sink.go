// SPDX-License-Identifier: EPL-2.0

// Package pcm writes channel-based render output as raw interleaved
// little-endian PCM with no container. Headerless output suits piping
// into tools that take bare sample streams; rate, lane order and depth
// travel out of band.
package pcm

import (
	"errors"
	"fmt"
	"io"

	"mixdown/sinks"
	"mixdown/utils"
)

var ErrUnsupportedBitDepth = errors.New("pcm sink supports 16 and 24 bit only")

// Sink streams blocks straight to the writer. There is no header and
// no finalization, so WriteHeader and Close are no-ops and the output
// is valid after any prefix of writes.
type Sink struct {
	w        io.Writer
	channels int
	bitDepth int
	byteBuf  []byte
}

// NewSink builds a raw PCM sink for spec writing to w. Supported
// depths are 16 and 24 bit; 0 selects 16.
func NewSink(w io.Writer, spec sinks.Spec) (*Sink, error) {
	depth := spec.BitDepth
	if depth == 0 {
		depth = 16
	}
	switch depth {
	case 16, 24:
	default:
		return nil, fmt.Errorf("%w: %d bit", ErrUnsupportedBitDepth, depth)
	}

	return &Sink{w: w, channels: spec.Channels, bitDepth: depth}, nil
}

func (s *Sink) WriteHeader() error { return nil }

func (s *Sink) WriteBlock(buf []float32, offset, length int) error {
	return s.WriteChannelLimitedBlock(buf, s.channels, s.channels, offset, length)
}

// WriteChannelLimitedBlock keeps the first outChannels lanes of each
// totalChannels-wide frame in buf[offset:offset+length], serializes
// them little-endian at the sink's depth and writes the block in one
// call.
func (s *Sink) WriteChannelLimitedBlock(buf []float32, outChannels, totalChannels, offset, length int) error {
	frames := length / totalChannels
	width := s.bitDepth / 8
	need := frames * outChannels * width

	if cap(s.byteBuf) < need {
		s.byteBuf = make([]byte, need)
	}
	out := s.byteBuf[:need]

	pos := 0
	for f := range frames {
		src := offset + f*totalChannels
		for c := range outChannels {
			v := buf[src+c]
			if s.bitDepth == 24 {
				i := utils.Float32ToInt24(v)
				out[pos] = byte(i)
				out[pos+1] = byte(i >> 8)
				out[pos+2] = byte(i >> 16)
			} else {
				i := utils.Float32ToInt16(v)
				out[pos] = byte(i)
				out[pos+1] = byte(i >> 8)
			}
			pos += width
		}
	}

	if _, err := s.w.Write(out); err != nil {
		return fmt.Errorf("writing pcm block: %w", err)
	}
	return nil
}

func (s *Sink) Close() error { return nil }
