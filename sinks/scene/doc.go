// SPDX-License-Identifier: EPL-2.0

// Package scene writes object-based render output.
//
// Two sinks live here. StreamSink writes the OSF container that
// formats/scene reads back, positions inline with every tick, in a
// single forward pass; the only seek is the Close patch of the total
// for undeclared-length runs. IndexedSink writes a RIFF/WAVE file with
// float32 object lanes plus an "oamd" chunk indexing each object's
// position keyframes. The index is assembled while the audio streams
// and serialized during Close, so IndexedSink is a render.MetadataSink
// and its Close drives two-phase finalization progress.
package scene
