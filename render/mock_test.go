// SPDX-License-Identifier: EPL-2.0

package render

import (
	"io"

	"mixdown/audio"
)

// scriptedRenderer hands out a fixed number of ticks and then io.EOF.
// fill, when set, writes the tick content; mute flags are logged at
// every Render call so tests can check predicate ordering.
type scriptedRenderer struct {
	update int
	lanes  int
	ticks  int // ticks before io.EOF; 0 means unlimited
	served int

	fill      func(tick int, buf []float32)
	objects   []*Object
	renderErr error
	muteLog   [][]bool

	buf []float32
}

func (r *scriptedRenderer) Attach(*audio.Track, UpmixSettings) error { return nil }
func (r *scriptedRenderer) Configure(ListenerConfig) error           { return nil }
func (r *scriptedRenderer) UpdateRate() int                          { return r.update }
func (r *scriptedRenderer) Channels() int                            { return r.lanes }
func (r *scriptedRenderer) Objects() []*Object                       { return r.objects }

func (r *scriptedRenderer) Render() ([]float32, error) {
	if r.renderErr != nil {
		return nil, r.renderErr
	}
	if r.ticks > 0 && r.served >= r.ticks {
		return nil, io.EOF
	}

	if len(r.objects) > 0 {
		mutes := make([]bool, len(r.objects))
		for i, o := range r.objects {
			mutes[i] = o.Mute
		}
		r.muteLog = append(r.muteLog, mutes)
	}

	if r.buf == nil {
		r.buf = make([]float32, r.update*r.lanes)
	}
	for i := range r.buf {
		r.buf[i] = 0
	}
	if r.fill != nil {
		r.fill(r.served, r.buf)
	}
	r.served++
	return r.buf, nil
}

type limitedWrite struct {
	out, total, length int
}

// captureBlockSink records every write. samples holds the stored
// stream after channel limiting, in write order.
type captureBlockSink struct {
	headers int
	closes  int
	blocks  []int
	limited []limitedWrite
	samples []float32

	headerErr error
	writeErr  error
	closeErr  error
}

func (s *captureBlockSink) WriteHeader() error {
	s.headers++
	return s.headerErr
}

func (s *captureBlockSink) WriteBlock(buf []float32, offset, length int) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.blocks = append(s.blocks, length)
	s.samples = append(s.samples, buf[offset:offset+length]...)
	return nil
}

func (s *captureBlockSink) WriteChannelLimitedBlock(buf []float32, outChannels, totalChannels, offset, length int) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.limited = append(s.limited, limitedWrite{out: outChannels, total: totalChannels, length: length})
	for f := 0; f+totalChannels <= length; f += totalChannels {
		s.samples = append(s.samples, buf[offset+f:offset+f+outChannels]...)
	}
	return nil
}

func (s *captureBlockSink) Close() error {
	s.closes++
	return s.closeErr
}

// captureEnvSink records frames and the order of lifecycle events.
type captureEnvSink struct {
	events []string
	frames [][]float32

	writeErr error
	closeErr error
}

func (s *captureEnvSink) WriteHeader() error {
	s.events = append(s.events, "header")
	return nil
}

func (s *captureEnvSink) WriteFrame(buf []float32) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	frame := make([]float32, len(buf))
	copy(frame, buf)
	s.frames = append(s.frames, frame)
	return nil
}

func (s *captureEnvSink) Close() error {
	s.events = append(s.events, "close")
	return s.closeErr
}

// metadataCaptureSink drives its registered callback with the scripted
// fractions during Close, like a sink writing a metadata chunk.
type metadataCaptureSink struct {
	captureEnvSink
	boundary  float64
	fractions []float64
	fb        func(fraction float64)
}

func (s *metadataCaptureSink) FinalFeedback(fn func(fraction float64)) {
	s.fb = fn
	s.events = append(s.events, "feedback")
}

func (s *metadataCaptureSink) FinalFeedbackStart(boundary float64) {
	s.boundary = boundary
	s.events = append(s.events, "feedback-start")
}

func (s *metadataCaptureSink) Close() error {
	for _, f := range s.fractions {
		if s.fb != nil {
			s.fb(f)
		}
	}
	return s.captureEnvSink.Close()
}

// gainStage is a trivial post chain stage for wiring tests.
type gainStage struct {
	factor float32
	calls  int
}

func (g *gainStage) Process(buf []float32) {
	g.calls++
	for i := range buf {
		buf[i] *= g.factor
	}
}

func collectProgress(dst *[]int) ProgressFunc {
	return func(percent int) {
		*dst = append(*dst, percent)
	}
}
