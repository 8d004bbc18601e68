// SPDX-License-Identifier: EPL-2.0

// Package wav writes channel-based render output as integer PCM WAV.
//
// The Sink implements render.BlockSink on top of go-audio's wav.Encoder:
// blocks arrive as interleaved float32, get clamped and scaled to 16 or
// 24-bit integers, and the encoder handles the container. Close patches
// the chunk sizes by seeking back, which is why sink factories take an
// io.WriteSeeker rather than a plain writer.
//
// Reading WAV files lives in formats/wav; this package is encode-only.
package wav
