// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"mixdown/layout"
	"mixdown/sinks"
)

// RIFF/WAVE container with float32 object lanes in the data chunk and
// an "oamd" chunk indexing position keyframes after it. Fixed header:
// 12 bytes RIFF, 24 bytes fmt, 8 bytes data chunk header.
const (
	waveFloatFormat = 3

	riffSizeOff = 4
	dataSizeOff = 40
)

// IndexedSink writes an indexed object scene. Audio streams during the
// run while position keyframes are collected in memory; the index is
// serialized during Close's metadata pass, which drives the registered
// finalization callback once per object. It implements
// render.MetadataSink.
type IndexedSink struct {
	w    io.WriteSeeker
	spec sinks.Spec

	written   int64
	byteBuf   []byte
	keyframes [][]keyframe
	last      []layout.Vector

	feedback func(fraction float64)
	boundary float64

	closed bool
}

type keyframe struct {
	frame int64
	pos   layout.Vector
}

func NewIndexedSink(w io.WriteSeeker, spec sinks.Spec) (*IndexedSink, error) {
	if err := checkSceneSpec(spec); err != nil {
		return nil, err
	}

	lanes := spec.Channels
	return &IndexedSink{
		w:         w,
		spec:      spec,
		byteBuf:   make([]byte, spec.UpdateRate*lanes*4),
		keyframes: make([][]keyframe, lanes),
		last:      make([]layout.Vector, lanes),
	}, nil
}

// FinalFeedback registers the callback driven during Close's index
// pass with a fraction in [0, 1].
func (s *IndexedSink) FinalFeedback(fn func(fraction float64)) { s.feedback = fn }

// FinalFeedbackStart records where on the overall progress scale the
// index pass begins. The sink reports plain fractions of its own pass;
// the boundary is kept so both sides of the callback agree on what
// those fractions mean.
func (s *IndexedSink) FinalFeedbackStart(boundary float64) { s.boundary = boundary }

// WriteHeader lays down the RIFF, fmt and data chunk headers with zero
// sizes; Close patches them once the chunk lengths are known.
func (s *IndexedSink) WriteHeader() error {
	lanes := s.spec.Channels

	hdr := make([]byte, 0, 44)
	hdr = append(hdr, "RIFF"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 0)
	hdr = append(hdr, "WAVE"...)
	hdr = append(hdr, "fmt "...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 16)
	hdr = binary.LittleEndian.AppendUint16(hdr, waveFloatFormat)
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(lanes))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(s.spec.SampleRate))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(s.spec.SampleRate*lanes*4))
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(lanes*4))
	hdr = binary.LittleEndian.AppendUint16(hdr, 32)
	hdr = append(hdr, "data"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 0)
	if _, err := s.w.Write(hdr); err != nil {
		return fmt.Errorf("writing scene container: %w", err)
	}
	return nil
}

// WriteFrame records a keyframe for every object whose position moved
// since the previous tick, then streams the tick's samples as float32.
// The final tick is trimmed to a declared total.
func (s *IndexedSink) WriteFrame(buf []float32) error {
	start := s.written
	for i, obj := range s.spec.Objects {
		pos := *obj.Pos
		if start == 0 || pos != s.last[i] {
			s.keyframes[i] = append(s.keyframes[i], keyframe{frame: start, pos: pos})
			s.last[i] = pos
		}
	}

	frames := int64(s.spec.UpdateRate)
	if total := s.spec.TotalFrames; total > 0 && total-s.written < frames {
		frames = total - s.written
	}

	samples := int(frames) * s.spec.Channels
	raw := s.byteBuf[:samples*4]
	for i := range samples {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(buf[i]))
	}
	if _, err := s.w.Write(raw); err != nil {
		return fmt.Errorf("writing scene audio: %w", err)
	}

	s.written += frames
	return nil
}

// Close appends the oamd index and patches the container sizes. Safe
// to call twice; only the first call runs the metadata pass.
func (s *IndexedSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.writeIndex(); err != nil {
		return err
	}
	return s.patchSizes()
}

// writeIndex serializes the oamd payload: updateRate uint32,
// objectCount uint16, then per object a length-prefixed name, keyframe
// count uint32 and keyframes as { frame uint64, 3 x float32 }. The
// finalization callback is driven after each object.
func (s *IndexedSink) writeIndex() error {
	payload := make([]byte, 0, 64)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(s.spec.UpdateRate))
	payload = binary.LittleEndian.AppendUint16(payload, uint16(len(s.spec.Objects)))

	count := len(s.spec.Objects)
	for i, obj := range s.spec.Objects {
		payload = append(payload, byte(len(obj.Name)))
		payload = append(payload, obj.Name...)
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(s.keyframes[i])))
		for _, kf := range s.keyframes[i] {
			payload = binary.LittleEndian.AppendUint64(payload, uint64(kf.frame))
			payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(kf.pos.X))
			payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(kf.pos.Y))
			payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(kf.pos.Z))
		}
		if s.feedback != nil {
			s.feedback(float64(i+1) / float64(count))
		}
	}

	chunk := make([]byte, 0, 8+len(payload)+1)
	chunk = append(chunk, "oamd"...)
	chunk = binary.LittleEndian.AppendUint32(chunk, uint32(len(payload)))
	chunk = append(chunk, payload...)
	if len(payload)%2 == 1 {
		// RIFF chunks are word aligned; the pad byte is outside the size.
		chunk = append(chunk, 0)
	}

	if _, err := s.w.Write(chunk); err != nil {
		return fmt.Errorf("writing scene index: %w", err)
	}
	return nil
}

func (s *IndexedSink) patchSizes() error {
	end, err := s.w.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("finalizing scene container: %w", err)
	}

	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(end-8))
	if _, err := s.w.Seek(riffSizeOff, io.SeekStart); err != nil {
		return fmt.Errorf("finalizing scene container: %w", err)
	}
	if _, err := s.w.Write(size[:]); err != nil {
		return fmt.Errorf("finalizing scene container: %w", err)
	}

	binary.LittleEndian.PutUint32(size[:], uint32(s.written*int64(s.spec.Channels)*4))
	if _, err := s.w.Seek(dataSizeOff, io.SeekStart); err != nil {
		return fmt.Errorf("finalizing scene container: %w", err)
	}
	if _, err := s.w.Write(size[:]); err != nil {
		return fmt.Errorf("finalizing scene container: %w", err)
	}
	return nil
}
