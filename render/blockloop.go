// SPDX-License-Identifier: EPL-2.0

package render

import (
	"errors"
	"fmt"
	"io"
)

// baseBlockFrames is the nominal cache size in frames before rounding
// up to a whole number of ticks.
const baseBlockFrames = 16384

// BlockFrames returns the write cache size in frames for a tick
// length: the base block rounded up to the next multiple of
// updateRate, so the cache fills on an exact tick boundary.
func BlockFrames(updateRate int) int {
	if updateRate <= 0 {
		return baseBlockFrames
	}
	ticks := (baseBlockFrames + updateRate - 1) / updateRate
	return ticks * updateRate
}

// ChannelLoop drives a configured renderer tick by tick into a block
// sink. Ticks accumulate in a write cache sized by BlockFrames; full
// caches flush through the post chain, and the final flush is length
// limited so the sink stores exactly the track's declared frames.
type ChannelLoop struct {
	r     Renderer
	sink  BlockSink
	setup *Setup
	rules MuteRules
	pr    Reporter
}

func NewChannelLoop(r Renderer, sink BlockSink, setup *Setup, rules MuteRules, pr Reporter) *ChannelLoop {
	return &ChannelLoop{r: r, sink: sink, setup: setup, rules: rules, pr: pr}
}

// Run streams the whole track, closes the sink and emits the terminal
// progress report. On error the sink is left open for the caller's
// cleanup.
func (l *ChannelLoop) Run() error {
	if err := l.sink.WriteHeader(); err != nil {
		return fmt.Errorf("%w", err)
	}

	update := l.r.UpdateRate()
	renderCh := l.setup.RenderChannels
	blockFrames := BlockFrames(update)
	cache := make([]float32, blockFrames*renderCh)

	// Mute state feeds the next render tick, so the predicate runs
	// before each Render call. It is skipped outright for runs it can
	// never affect.
	muteable := l.rules.Active() && len(l.r.Objects()) > 0

	total := l.setup.TotalFrames
	var rendered int64 // frames rendered, including final tick padding
	var written int64  // frames flushed to the sink
	offset := 0        // samples buffered in the cache

	for total <= 0 || rendered < total {
		if muteable {
			l.rules.Apply(l.r.Objects())
		}
		tick, err := l.r.Render()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		copy(cache[offset:], tick)
		offset += len(tick)
		if offset == len(cache) {
			if err := l.flush(cache, blockFrames); err != nil {
				return err
			}
			written += int64(blockFrames)
			offset = 0
		}

		rendered += int64(update)
		if l.pr != nil {
			l.pr.Update(rendered)
		}
	}

	// Final partial flush, limited to the declared length so the
	// padding of the last tick never reaches the sink.
	remaining := rendered - written
	if total > 0 && total-written < remaining {
		remaining = total - written
	}
	if remaining > 0 {
		if err := l.flush(cache, int(remaining)); err != nil {
			return err
		}
	}

	if err := l.sink.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	if l.pr != nil {
		l.pr.Finish()
	}
	return nil
}

// flush writes the first frames frames of the cache. Without a post
// chain the cache goes out verbatim; with one, every stage processes
// the cache and the sink stores only the output lanes of each frame.
func (l *ChannelLoop) flush(cache []float32, frames int) error {
	length := frames * l.setup.RenderChannels
	if len(l.setup.Chain) == 0 {
		if err := l.sink.WriteBlock(cache, 0, length); err != nil {
			return fmt.Errorf("%w", err)
		}
		return nil
	}

	for _, p := range l.setup.Chain {
		p.Process(cache[:length])
	}
	err := l.sink.WriteChannelLimitedBlock(cache, l.setup.OutputChannels, l.setup.RenderChannels, 0, length)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
