// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"mixdown/sinks"
)

// Mirror of the container formats/scene reads, all little-endian:
//
//	magic "OSF1", version uint16, objectCount uint16,
//	sampleRate uint32, updateRate uint32, totalFrames uint64,
//	objectCount x { nameLen uint8, name bytes },
//	then one record per tick: objectCount x 3 float32 positions
//	followed by the tick's samples, length-limited on the final tick.
const (
	osfMagic   = "OSF1"
	osfVersion = 1

	// totalFrames field offset, patched on Close for undeclared totals.
	osfTotalOff = 16
)

// StreamSink writes OSF scenes one tick at a time: every object's
// current position, then the tick's samples. Nothing is buffered
// beyond one serialized tick, so the file grows as the run renders.
type StreamSink struct {
	w    io.WriteSeeker
	spec sinks.Spec

	written int64
	byteBuf []byte
	closed  bool
}

func NewStreamSink(w io.WriteSeeker, spec sinks.Spec) (*StreamSink, error) {
	if err := checkSceneSpec(spec); err != nil {
		return nil, err
	}

	size := spec.UpdateRate * spec.Channels * 4
	if posSize := spec.Channels * 12; posSize > size {
		size = posSize
	}

	return &StreamSink{w: w, spec: spec, byteBuf: make([]byte, size)}, nil
}

func checkSceneSpec(spec sinks.Spec) error {
	if len(spec.Objects) == 0 {
		return fmt.Errorf("%w: no objects", ErrInvalidSceneSpec)
	}
	if spec.Channels != len(spec.Objects) {
		return fmt.Errorf("%w: %d lanes for %d objects",
			ErrInvalidSceneSpec, spec.Channels, len(spec.Objects))
	}
	if spec.SampleRate <= 0 || spec.UpdateRate <= 0 {
		return fmt.Errorf("%w: missing rates", ErrInvalidSceneSpec)
	}
	for _, obj := range spec.Objects {
		if obj.Pos == nil {
			return fmt.Errorf("%w: object %q has no position", ErrInvalidSceneSpec, obj.Name)
		}
		if len(obj.Name) > 255 {
			return fmt.Errorf("%w: object name %q longer than 255 bytes",
				ErrInvalidSceneSpec, obj.Name)
		}
	}
	return nil
}

// WriteHeader writes the fixed header and the object name table.
func (s *StreamSink) WriteHeader() error {
	hdr := make([]byte, 0, 24)
	hdr = append(hdr, osfMagic...)
	hdr = binary.LittleEndian.AppendUint16(hdr, osfVersion)
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(len(s.spec.Objects)))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(s.spec.SampleRate))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(s.spec.UpdateRate))
	hdr = binary.LittleEndian.AppendUint64(hdr, uint64(s.spec.TotalFrames))
	if _, err := s.w.Write(hdr); err != nil {
		return fmt.Errorf("writing scene header: %w", err)
	}

	for _, obj := range s.spec.Objects {
		name := append([]byte{byte(len(obj.Name))}, obj.Name...)
		if _, err := s.w.Write(name); err != nil {
			return fmt.Errorf("writing scene header: %w", err)
		}
	}
	return nil
}

// WriteFrame serializes one tick. With a declared total the final tick
// is trimmed to the remaining frames, keeping the render loop's zero
// padding out of the file.
func (s *StreamSink) WriteFrame(buf []float32) error {
	lanes := s.spec.Channels

	pos := s.byteBuf[:lanes*12]
	for i, obj := range s.spec.Objects {
		off := i * 12
		binary.LittleEndian.PutUint32(pos[off:], math.Float32bits(obj.Pos.X))
		binary.LittleEndian.PutUint32(pos[off+4:], math.Float32bits(obj.Pos.Y))
		binary.LittleEndian.PutUint32(pos[off+8:], math.Float32bits(obj.Pos.Z))
	}
	if _, err := s.w.Write(pos); err != nil {
		return fmt.Errorf("writing scene positions: %w", err)
	}

	frames := int64(s.spec.UpdateRate)
	if total := s.spec.TotalFrames; total > 0 && total-s.written < frames {
		frames = total - s.written
	}

	samples := int(frames) * lanes
	raw := s.byteBuf[:samples*4]
	for i := range samples {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(buf[i]))
	}
	if _, err := s.w.Write(raw); err != nil {
		return fmt.Errorf("writing scene samples: %w", err)
	}

	s.written += frames
	return nil
}

// Close patches the header's total when it differs from what was
// streamed, which covers undeclared-length runs. Safe to call twice.
func (s *StreamSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.written == s.spec.TotalFrames {
		return nil
	}

	if _, err := s.w.Seek(osfTotalOff, io.SeekStart); err != nil {
		return fmt.Errorf("finalizing scene: %w", err)
	}
	var total [8]byte
	binary.LittleEndian.PutUint64(total[:], uint64(s.written))
	if _, err := s.w.Write(total[:]); err != nil {
		return fmt.Errorf("finalizing scene: %w", err)
	}
	return nil
}
