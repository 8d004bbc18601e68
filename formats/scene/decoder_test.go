// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"mixdown/layout"
)

// testObject describes one object lane for buildOSF: a name and one
// position per tick.
type testObject struct {
	name      string
	positions []layout.Vector
}

// buildOSF assembles a valid OSF byte stream. waveform generates the audio
// sample for a given frame and lane.
func buildOSF(sampleRate, updateRate int, totalFrames int64, objects []testObject, waveform func(frame int64, lane int) float32) []byte {
	buf := new(bytes.Buffer)

	buf.WriteString("OSF1")
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(len(objects)))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(updateRate))
	binary.Write(buf, binary.LittleEndian, uint64(totalFrames))

	for _, obj := range objects {
		buf.WriteByte(byte(len(obj.name)))
		buf.WriteString(obj.name)
	}

	tick := 0
	for frame := int64(0); frame < totalFrames; {
		for _, obj := range objects {
			pos := layout.Vector{}
			if tick < len(obj.positions) {
				pos = obj.positions[tick]
			} else if len(obj.positions) > 0 {
				pos = obj.positions[len(obj.positions)-1]
			}
			binary.Write(buf, binary.LittleEndian, math.Float32bits(pos.X))
			binary.Write(buf, binary.LittleEndian, math.Float32bits(pos.Y))
			binary.Write(buf, binary.LittleEndian, math.Float32bits(pos.Z))
		}

		frames := int64(updateRate)
		if remaining := totalFrames - frame; remaining < frames {
			frames = remaining
		}
		for f := int64(0); f < frames; f++ {
			for lane := range objects {
				binary.Write(buf, binary.LittleEndian, math.Float32bits(waveform(frame+f, lane)))
			}
		}

		frame += frames
		tick++
	}

	return buf.Bytes()
}

func silentWaveform(frame int64, lane int) float32 { return 0 }

func TestDecodeTrack_HeaderFields(t *testing.T) {
	t.Parallel()

	objects := []testObject{
		{name: "left", positions: []layout.Vector{{X: -1, Y: 0, Z: 1}}},
		{name: "right", positions: []layout.Vector{{X: 1, Y: 0, Z: 1}}},
	}
	data := buildOSF(48000, 512, 1024, objects, silentWaveform)

	decoder := Decoder{}
	track, err := decoder.DecodeTrack(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeTrack() error = %v", err)
	}

	if track.SampleRate() != 48000 {
		t.Errorf("SampleRate() = %d, want 48000", track.SampleRate())
	}

	if track.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", track.Channels())
	}

	if track.Length() != 1024 {
		t.Errorf("Length() = %d, want 1024", track.Length())
	}

	got := track.Objects()
	if len(got) != 2 {
		t.Fatalf("Objects() = %d entries, want 2", len(got))
	}
	if got[0].Name != "left" || got[1].Name != "right" {
		t.Errorf("object names = [%s, %s], want [left, right]", got[0].Name, got[1].Name)
	}
}

func TestDecodeTrack_KeyframeDedup(t *testing.T) {
	t.Parallel()

	// Object holds position for two ticks, then moves for two more
	hold := layout.Vector{X: -1, Y: 0, Z: 1}
	moved := layout.Vector{X: 1, Y: 1, Z: -1}
	objects := []testObject{
		{name: "mover", positions: []layout.Vector{hold, hold, moved, moved}},
	}
	data := buildOSF(48000, 100, 400, objects, silentWaveform)

	decoder := Decoder{}
	track, err := decoder.DecodeTrack(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeTrack() error = %v", err)
	}

	path := track.Objects()[0].Path
	if len(path) != 2 {
		t.Fatalf("keyframe count = %d, want 2 after dedup", len(path))
	}

	if path[0].Frame != 0 || path[0].Pos != hold {
		t.Errorf("keyframe[0] = {%d %v}, want {0 %v}", path[0].Frame, path[0].Pos, hold)
	}
	if path[1].Frame != 200 || path[1].Pos != moved {
		t.Errorf("keyframe[1] = {%d %v}, want {200 %v}", path[1].Frame, path[1].Pos, moved)
	}

	// PositionAt follows the hold-until-next rule
	if got := track.Objects()[0].PositionAt(150); got != hold {
		t.Errorf("PositionAt(150) = %v, want %v", got, hold)
	}
	if got := track.Objects()[0].PositionAt(200); got != moved {
		t.Errorf("PositionAt(200) = %v, want %v", got, moved)
	}
}

func TestDecodeTrack_AudioRoundTrip(t *testing.T) {
	t.Parallel()

	waveform := func(frame int64, lane int) float32 {
		return float32(frame%97)/97.0 - float32(lane)*0.25
	}
	objects := []testObject{
		{name: "a", positions: []layout.Vector{{X: -1}}},
		{name: "b", positions: []layout.Vector{{X: 1}}},
		{name: "c", positions: []layout.Vector{{Z: 1}}},
	}
	const totalFrames = 1000 // not a multiple of the 128-frame tick
	data := buildOSF(44100, 128, totalFrames, objects, waveform)

	decoder := Decoder{}
	track, err := decoder.DecodeTrack(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeTrack() error = %v", err)
	}

	src := track.Source()
	buf := make([]float32, 300)
	var samples []float32
	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(samples) != totalFrames*3 {
		t.Fatalf("total samples = %d, want %d", len(samples), totalFrames*3)
	}

	for frame := int64(0); frame < totalFrames; frame++ {
		for lane := 0; lane < 3; lane++ {
			got := samples[frame*3+int64(lane)]
			want := waveform(frame, lane)
			if got != want {
				t.Fatalf("sample[frame %d, lane %d] = %v, want %v", frame, lane, got, want)
			}
		}
	}
}

func TestDecode_BareLanes(t *testing.T) {
	t.Parallel()

	objects := []testObject{
		{name: "solo", positions: []layout.Vector{{X: 0.5, Y: 0.5, Z: 0.5}}},
	}
	data := buildOSF(48000, 256, 512, objects, silentWaveform)

	decoder := Decoder{}
	src, err := decoder.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}
	if src.Length() != 512 {
		t.Errorf("Length() = %d, want 512", src.Length())
	}
}

func TestDecoder_BadMagic(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.DecodeTrack(bytes.NewReader([]byte("RIFFxxxxWAVEfmt not a scene at all......")))

	if !errors.Is(err, ErrNotSceneFile) {
		t.Errorf("DecodeTrack() error = %v, want ErrNotSceneFile", err)
	}
}

func TestDecoder_BadVersion(t *testing.T) {
	t.Parallel()

	data := buildOSF(48000, 256, 256, []testObject{{name: "x"}}, silentWaveform)
	// Patch the version field
	binary.LittleEndian.PutUint16(data[4:6], 9)

	decoder := Decoder{}
	_, err := decoder.DecodeTrack(bytes.NewReader(data))

	if !errors.Is(err, ErrUnsupportedSceneVersion) {
		t.Errorf("DecodeTrack() error = %v, want ErrUnsupportedSceneVersion", err)
	}
}

func TestDecoder_ZeroObjects(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	buf.WriteString("OSF1")
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(0)) // no objects
	binary.Write(buf, binary.LittleEndian, uint32(48000))
	binary.Write(buf, binary.LittleEndian, uint32(512))
	binary.Write(buf, binary.LittleEndian, uint64(512))

	decoder := Decoder{}
	_, err := decoder.DecodeTrack(bytes.NewReader(buf.Bytes()))

	if !errors.Is(err, ErrInvalidSceneHeader) {
		t.Errorf("DecodeTrack() error = %v, want ErrInvalidSceneHeader", err)
	}
}

func TestDecoder_TruncatedPayload(t *testing.T) {
	t.Parallel()

	data := buildOSF(48000, 256, 1024, []testObject{{name: "x"}}, silentWaveform)
	// Drop the back half of the payload
	truncated := data[:len(data)/2]

	decoder := Decoder{}
	_, err := decoder.DecodeTrack(bytes.NewReader(truncated))

	if !errors.Is(err, ErrCorruptScene) {
		t.Errorf("DecodeTrack() error = %v, want ErrCorruptScene", err)
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.DecodeTrack(bytes.NewReader(nil))

	if !errors.Is(err, ErrNotSceneFile) {
		t.Errorf("DecodeTrack() error = %v, want ErrNotSceneFile", err)
	}
}

// BenchmarkDecodeTrack benchmarks the two-pass scan on a moderate scene
func BenchmarkDecodeTrack(b *testing.B) {
	objects := []testObject{
		{name: "a", positions: []layout.Vector{{X: -1}}},
		{name: "b", positions: []layout.Vector{{X: 1}}},
	}
	data := buildOSF(48000, 512, 48000, objects, silentWaveform)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		decoder := Decoder{}
		_, _ = decoder.DecodeTrack(bytes.NewReader(data))
	}
}
