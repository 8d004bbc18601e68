// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"sort"

	"mixdown/layout"
)

// Keyframe pins an object to a room position from a given frame onward.
type Keyframe struct {
	Frame int64
	Pos   layout.Vector
}

// ObjectInfo describes one audio object carried by a Track: its label and
// the motion path of its position keyframes, sorted by frame.
type ObjectInfo struct {
	Name string
	Path []Keyframe
}

// PositionAt returns the object position active at frame. Keyframes hold
// until the next one; before the first keyframe the first position applies.
// An empty path yields the room center.
func (o *ObjectInfo) PositionAt(frame int64) layout.Vector {
	if len(o.Path) == 0 {
		return layout.Vector{}
	}

	// Index of the first keyframe past frame.
	i := sort.Search(len(o.Path), func(i int) bool {
		return o.Path[i].Frame > frame
	})
	if i == 0 {
		return o.Path[0].Pos
	}
	return o.Path[i-1].Pos
}

// Track bundles an audio source with the object metadata its container
// declared. Sources without object metadata travel as a Track with no
// objects.
type Track struct {
	src     Source
	objects []ObjectInfo
}

func NewTrack(src Source, objects []ObjectInfo) *Track {
	return &Track{
		src:     src,
		objects: objects,
	}
}

func (t *Track) Source() Source { return t.src }

// Objects returns the object descriptors in container order. Callers must
// not mutate the returned slice.
func (t *Track) Objects() []ObjectInfo { return t.objects }

func (t *Track) SampleRate() int { return t.src.SampleRate() }

func (t *Track) Channels() int { return t.src.Channels() }

func (t *Track) Length() int64 { return t.src.Length() }

func (t *Track) Close() error { return t.src.Close() }
