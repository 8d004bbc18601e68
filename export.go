// SPDX-License-Identifier: EPL-2.0

package mixdown

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"mixdown/audio"
	"mixdown/internal/logging"
	"mixdown/layout"
	"mixdown/render"
	"mixdown/sinks"
)

// Export runs one full render pass: input decode, engine setup, tick
// loop, sink finalization. progress receives whole percent values; nil
// drops them. log receives warnings and the completion line; nil
// discards them.
//
// The sink is closed on every path once it exists. On failure the
// partially written output file is left in place for inspection.
func Export(opts ProcessingOptions, progress render.ProgressFunc, log *slog.Logger) error {
	if log == nil {
		log = logging.NewNop()
	}

	if err := opts.Validate(); err != nil {
		return err
	}

	target, err := layout.Resolve(opts.Layout)
	if err != nil {
		return err
	}

	// Format before listener: whether the run renders speaker mixes
	// or dry object lanes depends on the output format kind.
	sinkReg := DefaultSinks()
	format, ok := sinkReg.Lookup(opts.Format)
	if !ok {
		return fmt.Errorf("%w: %q", sinks.ErrUnsupportedFormat, opts.Format)
	}

	track, in, err := openTrack(opts.InputPath)
	if err != nil {
		return err
	}
	defer in.Close()
	defer track.Close()

	engine := render.NewEngine(opts.UpdateRate)
	setup, err := render.ConfigureListener(engine, track, target, render.ListenerOptions{
		ObjectLanes: format.Object,
		Virtualize:  opts.Virtualizer,
		Upmix:       opts.upmix(),
	})
	if err != nil {
		return err
	}
	if setup.VirtualizerWarning != nil {
		log.Warn("continuing without virtualizer", "error", setup.VirtualizerWarning)
	}

	lock := flock.New(opts.OutputPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock output: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrOutputBusy, opts.OutputPath)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	out, err := os.Create(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	bitDepth := 16
	if opts.Force24 {
		bitDepth = 24
	}
	spec := sinks.Spec{
		SampleRate:  setup.SampleRate,
		Channels:    setup.OutputChannels,
		TotalFrames: setup.TotalFrames,
		UpdateRate:  engine.UpdateRate(),
		BitDepth:    bitDepth,
		Objects:     objectRefs(engine),
	}

	// The loops close their sink on success; Close tolerates the
	// second call from the deferred cleanup after a failure.
	var runErr error
	if format.Object {
		sink, err := sinkReg.FrameSink(format.Tag, out, spec)
		if err != nil {
			return err
		}
		defer sink.Close()
		runErr = render.NewEnvironmentLoop(engine, sink, setup, progress).Run()
	} else {
		sink, err := sinkReg.BlockSink(format.Tag, out, spec)
		if err != nil {
			return err
		}
		defer sink.Close()
		rules := render.MuteRules{Bed: opts.MuteBed, Ground: opts.MuteGround, Extent: opts.Room}
		pr := render.NewProgress(setup.TotalFrames, progress)
		runErr = render.NewChannelLoop(engine, sink, setup, rules, pr).Run()
	}
	if runErr != nil {
		return runErr
	}

	log.Info("export complete", "output", opts.OutputPath, "format", format.Tag)
	return nil
}

// openTrack opens path and decodes it with the decoder registered for
// its extension. The returned file must stay open while the track is
// read; the decoders pull from it lazily.
func openTrack(path string) (*audio.Track, *os.File, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	dec, ok := DefaultDecoders().Get(ext)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedInput, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}

	if td, ok := dec.(audio.TrackDecoder); ok {
		track, err := td.DecodeTrack(file)
		if err != nil {
			file.Close()
			return nil, nil, fmt.Errorf("decode input: %w", err)
		}
		return track, file, nil
	}

	src, err := dec.Decode(file)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("decode input: %w", err)
	}
	return audio.NewTrack(src, nil), file, nil
}

// objectRefs exposes the renderer's objects to sink factories with
// live position pointers, so object sinks see each tick's positions.
func objectRefs(r render.Renderer) []sinks.ObjectRef {
	objects := r.Objects()
	if len(objects) == 0 {
		return nil
	}
	refs := make([]sinks.ObjectRef, len(objects))
	for i, obj := range objects {
		refs[i] = sinks.ObjectRef{Name: obj.Name, Pos: &obj.Position}
	}
	return refs
}
