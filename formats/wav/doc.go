// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding.
//
// This package reads integer PCM WAV files through the github.com/go-audio
// libraries, including the multichannel layouts a surround mixdown starts
// from.
//
// # Supported Formats
//
// Currently supported:
//   - PCM 16, 24 and 32-bit
//   - Any channel count (mono through 9.1.6 beds)
//   - Any sample rate
//
// # Decoding WAV Files
//
// Use the Decoder to read WAV files:
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The decoder returns an audio.Source that provides samples as float32
// values in the range [-1.0, 1.0]. Source.Length reports the total frame
// count taken from the data chunk size, which the render pipeline requires
// up front.
//
// # Error Handling
//
// The package defines several error types:
//   - ErrNotWavFile: The input is not a valid WAV file
//   - ErrUnsupportedWavLayout: Compressed or float WAV data
//   - ErrUnsupportedBitDepth: Bit depths other than 16/24/32
//
// # Writing
//
// WAV output lives in sinks/wav; this package is decode-only.
package wav
