// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"mixdown/audio"
	"mixdown/layout"
	"mixdown/utils"
)

// OSF container layout, all little-endian:
//
//	magic "OSF1", version uint16, objectCount uint16,
//	sampleRate uint32, updateRate uint32, totalFrames uint64,
//	objectCount x { nameLen uint8, name bytes },
//	then one record per tick: objectCount x 3 float32 positions
//	followed by frames x objectCount float32 samples, where frames is
//	updateRate except on the final, length-limited tick.
const (
	osfMagic   = "OSF1"
	osfVersion = 1
)

// header is the parsed fixed-size portion of an OSF file.
type header struct {
	objectCount int
	sampleRate  int
	updateRate  int
	totalFrames int64
}

type source struct {
	r io.ReadSeeker

	sampleRate  int
	channels    int // object lanes
	updateRate  int
	totalFrames int64

	served  int64 // frames handed out so far
	posSkip int64 // position block bytes per tick

	byteBuf []byte
	tickBuf []float32
	tickLen int
	tickOff int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Length() int64   { return s.totalFrames }
func (s *source) BufSize() int    { return s.updateRate * s.channels }
func (s *source) Close() error    { return nil }

// loadTick skips the tick's position block and decodes its audio samples
// into tickBuf.
func (s *source) loadTick() error {
	if s.served >= s.totalFrames {
		return io.EOF
	}

	if _, err := s.r.Seek(s.posSkip, io.SeekCurrent); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptScene, err)
	}

	frames := int64(s.updateRate)
	if remaining := s.totalFrames - s.served; remaining < frames {
		frames = remaining
	}

	samples := int(frames) * s.channels
	raw := s.byteBuf[:samples*4]
	if _, err := io.ReadFull(s.r, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptScene, err)
	}

	for i := 0; i < samples; i++ {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		s.tickBuf[i] = math.Float32frombits(bits)
	}

	s.served += frames
	s.tickLen = samples
	s.tickOff = 0
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	written := 0
	for written < len(dst) {
		if s.tickOff >= s.tickLen {
			if err := s.loadTick(); err != nil {
				if err == io.EOF && written > 0 {
					return written, nil
				}
				return written, err
			}
		}

		n := copy(dst[written:], s.tickBuf[s.tickOff:s.tickLen])
		s.tickOff += n
		written += n
	}

	return written, nil
}

// Decoder reads OSF object-scene files. It implements both audio.Decoder
// (bare lanes) and audio.TrackDecoder (lanes plus object metadata).
type Decoder struct{}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	track, err := d.DecodeTrack(r)
	if err != nil {
		return nil, err
	}
	return track.Source(), nil
}

// DecodeTrack parses the container in two passes: a metadata scan that
// collects each object's position keyframes, then a rewind so the returned
// source streams the audio lanes.
func (Decoder) DecodeTrack(r io.Reader) (*audio.Track, error) {
	rs, err := utils.EnsureReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading scene data: %w", err)
	}

	hdr, names, err := readHeader(rs)
	if err != nil {
		return nil, err
	}

	dataStart, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptScene, err)
	}

	// Validate payload size before scanning: ticks * positions + audio
	ticks := (hdr.totalFrames + int64(hdr.updateRate) - 1) / int64(hdr.updateRate)
	expected := ticks*int64(hdr.objectCount)*12 + hdr.totalFrames*int64(hdr.objectCount)*4
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptScene, err)
	}
	if end-dataStart < expected {
		return nil, fmt.Errorf("%w: payload holds %d of %d bytes",
			ErrCorruptScene, end-dataStart, expected)
	}
	if _, err := rs.Seek(dataStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptScene, err)
	}

	objects, err := scanKeyframes(rs, hdr, names)
	if err != nil {
		return nil, err
	}

	if _, err := rs.Seek(dataStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptScene, err)
	}

	src := &source{
		r:           rs,
		sampleRate:  hdr.sampleRate,
		channels:    hdr.objectCount,
		updateRate:  hdr.updateRate,
		totalFrames: hdr.totalFrames,
		posSkip:     int64(hdr.objectCount) * 12,
		byteBuf:     make([]byte, hdr.updateRate*hdr.objectCount*4),
		tickBuf:     make([]float32, hdr.updateRate*hdr.objectCount),
	}

	return audio.NewTrack(src, objects), nil
}

func readHeader(r io.Reader) (header, []string, error) {
	var hdr header

	fixed := make([]byte, 24)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return hdr, nil, ErrNotSceneFile
	}

	if string(fixed[:4]) != osfMagic {
		return hdr, nil, ErrNotSceneFile
	}

	if binary.LittleEndian.Uint16(fixed[4:6]) != osfVersion {
		return hdr, nil, ErrUnsupportedSceneVersion
	}

	hdr.objectCount = int(binary.LittleEndian.Uint16(fixed[6:8]))
	hdr.sampleRate = int(binary.LittleEndian.Uint32(fixed[8:12]))
	hdr.updateRate = int(binary.LittleEndian.Uint32(fixed[12:16]))
	hdr.totalFrames = int64(binary.LittleEndian.Uint64(fixed[16:24]))

	if hdr.objectCount == 0 || hdr.sampleRate == 0 || hdr.updateRate == 0 || hdr.totalFrames < 0 {
		return hdr, nil, ErrInvalidSceneHeader
	}

	names := make([]string, hdr.objectCount)
	var lenByte [1]byte
	for i := range names {
		if _, err := io.ReadFull(r, lenByte[:]); err != nil {
			return hdr, nil, fmt.Errorf("%w: %v", ErrCorruptScene, err)
		}
		name := make([]byte, lenByte[0])
		if _, err := io.ReadFull(r, name); err != nil {
			return hdr, nil, fmt.Errorf("%w: %v", ErrCorruptScene, err)
		}
		names[i] = string(name)
	}

	return hdr, names, nil
}

// scanKeyframes walks every tick record, keeping a keyframe per object
// whenever its position changes. Audio payloads are seeked over, not read.
func scanKeyframes(rs io.ReadSeeker, hdr header, names []string) ([]audio.ObjectInfo, error) {
	objects := make([]audio.ObjectInfo, hdr.objectCount)
	for i := range objects {
		objects[i].Name = names[i]
	}

	last := make([]layout.Vector, hdr.objectCount)
	posBuf := make([]byte, hdr.objectCount*12)

	var frame int64
	for frame < hdr.totalFrames {
		if _, err := io.ReadFull(rs, posBuf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptScene, err)
		}

		for i := range objects {
			off := i * 12
			pos := layout.Vector{
				X: math.Float32frombits(binary.LittleEndian.Uint32(posBuf[off:])),
				Y: math.Float32frombits(binary.LittleEndian.Uint32(posBuf[off+4:])),
				Z: math.Float32frombits(binary.LittleEndian.Uint32(posBuf[off+8:])),
			}
			if frame == 0 || pos != last[i] {
				objects[i].Path = append(objects[i].Path, audio.Keyframe{Frame: frame, Pos: pos})
				last[i] = pos
			}
		}

		frames := int64(hdr.updateRate)
		if remaining := hdr.totalFrames - frame; remaining < frames {
			frames = remaining
		}
		if _, err := rs.Seek(frames*int64(hdr.objectCount)*4, io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptScene, err)
		}

		frame += frames
	}

	return objects, nil
}
