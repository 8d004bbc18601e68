// SPDX-License-Identifier: EPL-2.0

package mixdown

import (
	"io"

	"mixdown/audio"
	aifffmt "mixdown/formats/aiff"
	mp3fmt "mixdown/formats/mp3"
	scenefmt "mixdown/formats/scene"
	vorbisfmt "mixdown/formats/vorbis"
	wavfmt "mixdown/formats/wav"
	"mixdown/render"
	"mixdown/sinks"
	pcmsink "mixdown/sinks/pcm"
	scenesink "mixdown/sinks/scene"
	wavsink "mixdown/sinks/wav"
)

// DefaultDecoders returns the input registry with every built-in
// decoder registered under the file extensions it serves.
func DefaultDecoders() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wavfmt.Decoder{})
	reg.Register("aiff", aifffmt.Decoder{})
	reg.Register("aif", aifffmt.Decoder{})
	reg.Register("mp3", mp3fmt.Decoder{})
	reg.Register("ogg", vorbisfmt.Decoder{})
	reg.Register("osf", scenefmt.Decoder{})
	return reg
}

// DefaultSinks returns the output registry with the built-in formats.
func DefaultSinks() *sinks.Registry {
	reg := sinks.NewRegistry()
	reg.Register(sinks.Format{
		Tag:         "wav",
		Description: "RIFF/WAVE integer PCM",
		Extension:   "wav",
		NewBlock: func(w io.WriteSeeker, spec sinks.Spec) (render.BlockSink, error) {
			return wavsink.NewSink(w, spec)
		},
	})
	reg.Register(sinks.Format{
		Tag:         "pcm",
		Description: "headerless interleaved integer PCM",
		Extension:   "pcm",
		NewBlock: func(w io.WriteSeeker, spec sinks.Spec) (render.BlockSink, error) {
			return pcmsink.NewSink(w, spec)
		},
	})
	reg.Register(sinks.Format{
		Tag:         "osf",
		Description: "object scene stream",
		Extension:   "osf",
		Object:      true,
		NewFrame: func(w io.WriteSeeker, spec sinks.Spec) (render.EnvironmentSink, error) {
			return scenesink.NewStreamSink(w, spec)
		},
	})
	reg.Register(sinks.Format{
		Tag:         "scene",
		Description: "indexed scene, float WAVE with a motion index chunk",
		Extension:   "wav",
		Object:      true,
		NewFrame: func(w io.WriteSeeker, spec sinks.Spec) (render.EnvironmentSink, error) {
			return scenesink.NewIndexedSink(w, spec)
		},
	})
	return reg
}
