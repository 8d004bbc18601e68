// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"mixdown/sinks"
	"mixdown/utils"
)

const pcmFormat = 1

// Sink encodes channel blocks as integer PCM WAV through go-audio's
// encoder. The encoder lays the header down with the first data write
// and patches the RIFF and data chunk sizes on Close, so WriteHeader
// has nothing left to do.
type Sink struct {
	enc      *gowav.Encoder
	channels int
	bitDepth int
	intBuf   *goaudio.IntBuffer
	closed   bool
}

// NewSink builds a WAV sink for spec writing to w. Supported depths
// are 16 and 24 bit; 0 selects 16.
func NewSink(w io.WriteSeeker, spec sinks.Spec) (*Sink, error) {
	depth := spec.BitDepth
	if depth == 0 {
		depth = 16
	}
	switch depth {
	case 16, 24:
	default:
		return nil, fmt.Errorf("%w: %d bit", ErrUnsupportedBitDepth, depth)
	}

	return &Sink{
		enc:      gowav.NewEncoder(w, spec.SampleRate, depth, spec.Channels, pcmFormat),
		channels: spec.Channels,
		bitDepth: depth,
		intBuf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: spec.Channels,
				SampleRate:  spec.SampleRate,
			},
			SourceBitDepth: depth,
		},
	}, nil
}

func (s *Sink) WriteHeader() error { return nil }

func (s *Sink) WriteBlock(buf []float32, offset, length int) error {
	return s.WriteChannelLimitedBlock(buf, s.channels, s.channels, offset, length)
}

// WriteChannelLimitedBlock keeps the first outChannels lanes of each
// totalChannels-wide frame in buf[offset:offset+length] and encodes
// them at the sink's depth.
func (s *Sink) WriteChannelLimitedBlock(buf []float32, outChannels, totalChannels, offset, length int) error {
	frames := length / totalChannels
	samples := frames * outChannels

	if cap(s.intBuf.Data) < samples {
		s.intBuf.Data = make([]int, samples)
	}
	s.intBuf.Data = s.intBuf.Data[:samples]

	for f := range frames {
		src := offset + f*totalChannels
		dst := f * outChannels
		for c := range outChannels {
			s.intBuf.Data[dst+c] = s.convert(buf[src+c])
		}
	}

	if err := s.enc.Write(s.intBuf); err != nil {
		return fmt.Errorf("writing wav block: %w", err)
	}
	return nil
}

func (s *Sink) convert(v float32) int {
	if s.bitDepth == 24 {
		return int(utils.Float32ToInt24(v))
	}
	return int(utils.Float32ToInt16(v))
}

// Close finalizes the encoder. Safe to call twice; the underlying
// writer stays open for the caller.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}
