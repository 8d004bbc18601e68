// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis
// files into float32 PCM samples.
//
// # Decoding
//
//	decoder := vorbis.Decoder{}
//	file, _ := os.Open("audio.ogg")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Vorbis already decodes to float32, so samples pass through without a
// conversion step. Source.Length comes from the stream's final granule
// position; unseekable inputs are buffered so the length is available.
//
// Vorbis carries no object metadata; Ogg tracks render as a channel bed.
package vorbis
