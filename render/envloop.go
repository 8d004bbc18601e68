// SPDX-License-Identifier: EPL-2.0

package render

import (
	"errors"
	"fmt"
	"io"
)

// EnvironmentLoop drives a configured renderer tick by tick into an
// object sink, one WriteFrame per tick. Object sinks buffer and trim
// for themselves, so there is no write cache and no mute predicate on
// this path.
type EnvironmentLoop struct {
	r     Renderer
	sink  EnvironmentSink
	setup *Setup
	fn    ProgressFunc
}

func NewEnvironmentLoop(r Renderer, sink EnvironmentSink, setup *Setup, fn ProgressFunc) *EnvironmentLoop {
	return &EnvironmentLoop{r: r, sink: sink, setup: setup, fn: fn}
}

// Run streams the whole track, closes the sink and emits the terminal
// progress report.
//
// A metadata generating sink gets the two phase accountant: its
// finalization callback is registered before the first tick so the
// metadata pass inside Close lands in the finalization span of the
// progress scale. Plain object sinks report single phase.
func (l *EnvironmentLoop) Run() error {
	var pr Reporter
	if ms, ok := l.sink.(MetadataSink); ok {
		tp := NewTwoPhaseProgress(l.setup.TotalFrames, l.fn)
		ms.FinalFeedbackStart(tp.Boundary())
		ms.FinalFeedback(tp.Finalize)
		pr = tp
	} else {
		pr = NewProgress(l.setup.TotalFrames, l.fn)
	}

	if err := l.sink.WriteHeader(); err != nil {
		return fmt.Errorf("%w", err)
	}

	update := l.r.UpdateRate()
	total := l.setup.TotalFrames
	var rendered int64

	for total <= 0 || rendered < total {
		tick, err := l.r.Render()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		if err := l.sink.WriteFrame(tick); err != nil {
			return fmt.Errorf("%w", err)
		}

		rendered += int64(update)
		pr.Update(rendered)
	}

	// Close runs the metadata pass on metadata sinks, which drives the
	// finalization callback registered above.
	if err := l.sink.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	pr.Finish()
	return nil
}
