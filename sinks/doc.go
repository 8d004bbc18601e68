// SPDX-License-Identifier: EPL-2.0

// Package sinks maps output format tags to sink factories.
//
// # Registry
//
// A Registry holds Format entries keyed by lowercase tag. Channel
// formats are built through BlockSink, object formats through
// FrameSink; asking a tag for the wrong kind of sink is an
// ErrUnsupportedFormat, same as an unknown tag. The set of registered
// formats is introspectable through List, so the supported-format
// table the CLI prints and the set the tests exercise are the same
// data.
//
// # Spec
//
// Sink factories receive a Spec instead of reaching back into the
// renderer: sample rate, lane count, declared total, tick size, PCM
// depth and the scene objects. Object positions are live pointers,
// which is how per-tick positions reach object sinks whose WriteFrame
// carries only samples.
//
// The concrete formats live in the subpackages wav, pcm and scene.
package sinks
