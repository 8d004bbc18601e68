// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	scenefmt "mixdown/formats/scene"
	"mixdown/internal/audiotest"
	"mixdown/layout"
	"mixdown/sinks"
)

// sceneSpec builds a Spec with one live position per name, returning
// the positions so tests can move objects between ticks.
func sceneSpec(update int, total int64, names ...string) (sinks.Spec, []*layout.Vector) {
	positions := make([]*layout.Vector, len(names))
	objects := make([]sinks.ObjectRef, len(names))
	for i, name := range names {
		positions[i] = &layout.Vector{}
		objects[i] = sinks.ObjectRef{Name: name, Pos: positions[i]}
	}
	return sinks.Spec{
		SampleRate:  48000,
		Channels:    len(names),
		TotalFrames: total,
		UpdateRate:  update,
		Objects:     objects,
	}, positions
}

// tickAudio fills a full tick buffer with a per-sample pattern keyed
// on the absolute frame and lane.
func tickAudio(start, update, lanes int) []float32 {
	buf := make([]float32, update*lanes)
	for f := range update {
		for c := range lanes {
			buf[f*lanes+c] = float32((start+f)*10+c) / 1000
		}
	}
	return buf
}

func TestStreamSink_RoundTrip(t *testing.T) {
	t.Parallel()

	const (
		update = 8
		total  = 20
	)

	spec, positions := sceneSpec(update, total, "left", "right")
	mem := audiotest.NewMemFile()
	sink, err := NewStreamSink(mem, spec)
	if err != nil {
		t.Fatalf("NewStreamSink() error = %v", err)
	}

	*positions[0] = layout.Vector{X: -1, Y: 0, Z: 1}
	*positions[1] = layout.Vector{X: 1, Y: 0, Z: 1}

	if err := sink.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	if err := sink.WriteFrame(tickAudio(0, update, 2)); err != nil {
		t.Fatalf("WriteFrame(0) error = %v", err)
	}

	// Left drops to the floor for the second tick.
	positions[0].Z = 0
	if err := sink.WriteFrame(tickAudio(8, update, 2)); err != nil {
		t.Fatalf("WriteFrame(1) error = %v", err)
	}

	// Final tick: 4 real frames, the rest is loop padding the sink
	// must trim.
	if err := sink.WriteFrame(tickAudio(16, update, 2)); err != nil {
		t.Fatalf("WriteFrame(2) error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Header 24 + name table 11 + 3 position blocks of 24 + 20 frames
	// of 8 bytes.
	if want := 24 + 11 + 3*24 + 20*8; mem.Len() != want {
		t.Errorf("file size = %d, want %d", mem.Len(), want)
	}

	track, err := scenefmt.Decoder{}.DecodeTrack(bytes.NewReader(mem.Bytes()))
	if err != nil {
		t.Fatalf("DecodeTrack() error = %v", err)
	}

	src := track.Source()
	if src.SampleRate() != 48000 || src.Channels() != 2 || src.Length() != total {
		t.Errorf("decoded stream = %d Hz, %d lanes, %d frames; want 48000 Hz, 2 lanes, %d frames",
			src.SampleRate(), src.Channels(), src.Length(), total)
	}

	objects := track.Objects()
	if len(objects) != 2 || objects[0].Name != "left" || objects[1].Name != "right" {
		t.Fatalf("decoded objects = %+v, want left and right", objects)
	}

	leftPath := objects[0].Path
	if len(leftPath) != 2 {
		t.Fatalf("left keyframes = %d, want 2", len(leftPath))
	}
	if leftPath[0].Frame != 0 || leftPath[0].Pos != (layout.Vector{X: -1, Y: 0, Z: 1}) {
		t.Errorf("left keyframe 0 = %+v, want frame 0 at (-1,0,1)", leftPath[0])
	}
	if leftPath[1].Frame != 8 || leftPath[1].Pos != (layout.Vector{X: -1, Y: 0, Z: 0}) {
		t.Errorf("left keyframe 1 = %+v, want frame 8 at (-1,0,0)", leftPath[1])
	}
	if rightPath := objects[1].Path; len(rightPath) != 1 {
		t.Errorf("right keyframes = %d, want 1", len(rightPath))
	}

	samples := make([]float32, total*2)
	if n, err := src.ReadSamples(samples); n != len(samples) || (err != nil && err != io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v; want %d", n, err, len(samples))
	}
	for f := range total {
		for c := range 2 {
			want := float32(f*10+c) / 1000
			if got := samples[f*2+c]; got != want {
				t.Fatalf("sample frame %d lane %d = %v, want %v", f, c, got, want)
			}
		}
	}
}

func TestStreamSink_UndeclaredTotalPatched(t *testing.T) {
	t.Parallel()

	spec, _ := sceneSpec(8, 0, "one")
	mem := audiotest.NewMemFile()
	sink, err := NewStreamSink(mem, spec)
	if err != nil {
		t.Fatalf("NewStreamSink() error = %v", err)
	}

	if err := sink.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	for tick := range 2 {
		if err := sink.WriteFrame(tickAudio(tick*8, 8, 1)); err != nil {
			t.Fatalf("WriteFrame(%d) error = %v", tick, err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got := binary.LittleEndian.Uint64(mem.Bytes()[16:24]); got != 16 {
		t.Errorf("patched total = %d, want 16", got)
	}

	track, err := scenefmt.Decoder{}.DecodeTrack(bytes.NewReader(mem.Bytes()))
	if err != nil {
		t.Fatalf("DecodeTrack() error = %v", err)
	}
	if got := track.Source().Length(); got != 16 {
		t.Errorf("decoded length = %d, want 16", got)
	}
}

func TestStreamSink_SpecValidation(t *testing.T) {
	t.Parallel()

	pos := &layout.Vector{}
	tests := []struct {
		name string
		spec sinks.Spec
	}{
		{
			name: "no objects",
			spec: sinks.Spec{SampleRate: 48000, UpdateRate: 8},
		},
		{
			name: "lane count mismatch",
			spec: sinks.Spec{
				SampleRate: 48000, UpdateRate: 8, Channels: 3,
				Objects: []sinks.ObjectRef{{Name: "a", Pos: pos}, {Name: "b", Pos: pos}},
			},
		},
		{
			name: "missing update rate",
			spec: sinks.Spec{
				SampleRate: 48000, Channels: 1,
				Objects: []sinks.ObjectRef{{Name: "a", Pos: pos}},
			},
		},
		{
			name: "nil position",
			spec: sinks.Spec{
				SampleRate: 48000, UpdateRate: 8, Channels: 1,
				Objects: []sinks.ObjectRef{{Name: "a"}},
			},
		},
		{
			name: "name too long",
			spec: sinks.Spec{
				SampleRate: 48000, UpdateRate: 8, Channels: 1,
				Objects: []sinks.ObjectRef{{Name: strings.Repeat("n", 256), Pos: pos}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewStreamSink(audiotest.NewMemFile(), tt.spec); !errors.Is(err, ErrInvalidSceneSpec) {
				t.Errorf("NewStreamSink() error = %v, want ErrInvalidSceneSpec", err)
			}
		})
	}
}

func TestStreamSink_CloseTwice(t *testing.T) {
	t.Parallel()

	spec, _ := sceneSpec(8, 0, "one")
	mem := audiotest.NewMemFile()
	sink, err := NewStreamSink(mem, spec)
	if err != nil {
		t.Fatalf("NewStreamSink() error = %v", err)
	}

	if err := sink.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	if err := sink.WriteFrame(tickAudio(0, 8, 1)); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}

	size := mem.Len()
	if err := sink.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
	if mem.Len() != size {
		t.Errorf("second Close() grew the file from %d to %d bytes", size, mem.Len())
	}
}
