// SPDX-License-Identifier: EPL-2.0

package sinks

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"mixdown/layout"
	"mixdown/render"
)

// Spec carries everything a sink factory needs to lay down a file: the
// output clock and lane count, the declared length (0 when the input
// does not declare one), the renderer's tick size, the requested PCM
// depth and, for object formats, the scene's objects.
type Spec struct {
	SampleRate  int
	Channels    int
	TotalFrames int64
	UpdateRate  int
	BitDepth    int
	Objects     []ObjectRef
}

// ObjectRef names one scene object. Pos points at the renderer's live
// position for that object, so an object sink reading it during a
// WriteFrame call sees the position of the tick it is serializing.
type ObjectRef struct {
	Name string
	Pos  *layout.Vector
}

// Format describes one registered output format. Exactly one of
// NewBlock and NewFrame is set, matching Object.
type Format struct {
	// Tag is the format token users select with -f, stored lowercase.
	Tag         string
	Description string
	// Extension is the conventional file suffix, without the dot.
	Extension string
	// Object marks formats that write object scenes instead of
	// channel beds.
	Object bool

	NewBlock func(w io.WriteSeeker, spec Spec) (render.BlockSink, error)
	NewFrame func(w io.WriteSeeker, spec Spec) (render.EnvironmentSink, error)
}

// Registry holds output formats by tag (e.g., "wav", "scene").
type Registry struct {
	formats map[string]Format

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
		mtx:     &sync.Mutex{},
	}
}

func (r *Registry) Register(f Format) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f.Tag = strings.ToLower(f.Tag)
	r.formats[f.Tag] = f
}

func (r *Registry) Lookup(tag string) (Format, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.formats[strings.ToLower(tag)]
	return f, ok
}

// List returns the registered formats sorted by tag.
func (r *Registry) List() []Format {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b Format) int {
		return strings.Compare(a.Tag, b.Tag)
	})
	return out
}

// BlockSink builds a channel sink for tag writing to w. Unknown tags
// and tags registered as object formats fail with ErrUnsupportedFormat;
// factory failures wrap ErrSinkCreation.
func (r *Registry) BlockSink(tag string, w io.WriteSeeker, spec Spec) (render.BlockSink, error) {
	f, ok := r.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
	}
	if f.Object || f.NewBlock == nil {
		return nil, fmt.Errorf("%w: unhandled codec %q in sink selection", ErrUnsupportedFormat, f.Tag)
	}

	sink, err := f.NewBlock(w, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSinkCreation, err)
	}
	return sink, nil
}

// FrameSink builds an object sink for tag writing to w, with the same
// error contract as BlockSink.
func (r *Registry) FrameSink(tag string, w io.WriteSeeker, spec Spec) (render.EnvironmentSink, error) {
	f, ok := r.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
	}
	if !f.Object || f.NewFrame == nil {
		return nil, fmt.Errorf("%w: unhandled codec %q in sink selection", ErrUnsupportedFormat, f.Tag)
	}

	sink, err := f.NewFrame(w, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSinkCreation, err)
	}
	return sink, nil
}
