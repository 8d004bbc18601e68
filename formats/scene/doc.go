// SPDX-License-Identifier: EPL-2.0

// Package scene provides OSF object-scene file decoding.
//
// OSF is the streaming object scene format: a fixed header followed by one
// record per renderer tick, each record carrying every object's position
// (three float32 values) and then the tick's interleaved audio lanes. The
// final record is length-limited so the audio payload holds exactly the
// declared frame count.
//
// Unlike the bed formats, an OSF file decodes into an audio.Track whose
// ObjectInfo entries carry position keyframes. DecodeTrack scans the whole
// file once for positions (audio payloads are seeked over), deduplicating
// consecutive identical positions into hold-style keyframes, then rewinds
// and returns a source that streams the audio lanes.
//
//	decoder := scene.Decoder{}
//	file, _ := os.Open("mix.osf")
//	track, err := decoder.DecodeTrack(file)
//	if err != nil {
//	    // Handle error
//	}
//	for _, obj := range track.Objects() {
//	    fmt.Println(obj.Name, obj.PositionAt(0))
//	}
//
// Decode (the plain audio.Decoder form) returns the bare lanes with the
// metadata discarded; registry users decoding by extension get the lanes
// either way, and the export pipeline upgrades to DecodeTrack when the
// decoder supports it.
//
// The matching writer lives in sinks/scene.
package scene
