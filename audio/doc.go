// SPDX-License-Identifier: EPL-2.0

// Package audio provides the input-side audio primitives.
//
// This package contains the building blocks every decoder and processor
// shares:
//   - Source interface for streaming audio input
//   - Track for sources that carry object metadata
//   - Resampler for sample rate conversion
//   - Format registry for decoder registration
//
// # Source Interface
//
// The Source interface is the foundation of the pipeline:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    Length() int64
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All decoders and processors implement this interface, allowing them to be
// chained together. Length reports the total frames per channel when the
// container declares one, and 0 otherwise; renderers that need a length up
// front reject undeclared sources.
//
// # Tracks and Objects
//
// Containers that carry more than a channel bed decode into a Track: the
// bare audio lanes as a Source, plus one ObjectInfo per object with its
// position keyframes. Decoders advertise this through TrackDecoder;
// bed-only formats wrap their Source in a Track with no objects.
//
//	track, err := dec.DecodeTrack(r)
//	for _, obj := range track.Objects() {
//	    pos := obj.PositionAt(0)
//	    ...
//	}
//
// # Resampling
//
// The Resampler changes the sample rate using cubic interpolation:
//
//	resampler := audio.NewResampler(source, 48000)
//	buf := make([]float32, 4096)
//	n, err := resampler.ReadSamples(buf)
//
// Resampling works for both upsampling and downsampling and scales the
// declared Length to the destination rate.
//
// # Format Registry
//
// The registry allows dynamic decoder registration:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, _ := registry.Get("wav")
//
// Format keys are file extensions without the dot, lowercased.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// This normalized format makes it easy to process audio without worrying
// about bit depths and ensures no clipping during intermediate processing.
//
// # Error Handling
//
// Audio processing functions return io.EOF when no more data is available.
// Other errors indicate problems with the source or processing:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
