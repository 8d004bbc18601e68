// SPDX-License-Identifier: EPL-2.0

package render

// ProgressFunc receives whole-percent progress reports. Reports are
// monotonic, quantized to multiples of 5 and never repeated, so a run
// produces at most 21 calls including the terminal 100.
type ProgressFunc func(percent int)

// emitter applies the reporting contract shared by both accountants:
// a percent goes out only when it differs from the last report and is
// divisible by 5. finish forces the terminal 100 exactly once.
type emitter struct {
	fn   ProgressFunc
	last int
}

func newEmitter(fn ProgressFunc) emitter {
	return emitter{fn: fn, last: -1}
}

func (e *emitter) emit(percent int) {
	if e.fn == nil || percent == e.last || percent%5 != 0 {
		return
	}
	e.fn(percent)
	e.last = percent
}

func (e *emitter) finish() {
	if e.fn == nil || e.last == 100 {
		return
	}
	e.fn(100)
	e.last = 100
}

// Progress is the single-phase accountant: percent is the rendered
// share of the total, floored to a whole number and capped at 100 for
// the zero-padded overshoot of the final tick.
type Progress struct {
	total int64
	em    emitter
}

func NewProgress(total int64, fn ProgressFunc) *Progress {
	return &Progress{total: total, em: newEmitter(fn)}
}

// Update reports the rendered sample count. Sources without a declared
// length have total 0 and report nothing until Finish.
func (p *Progress) Update(rendered int64) {
	if p.total <= 0 {
		return
	}
	percent := int(rendered * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	p.em.emit(percent)
}

// Finish emits the terminal 100 unless Update already reached it.
func (p *Progress) Finish() {
	p.em.finish()
}

// finalPhaseBoundary is the share of overall progress attributed to
// audio streaming by metadata-generating sinks; the rest belongs to
// the finalization pass.
const finalPhaseBoundary = 0.95

// TwoPhaseProgress is the accountant for metadata-generating object
// sinks. Audio streaming climbs toward the phase boundary; the sink's
// finalization pass owns the remaining span and reaches 100 when the
// sink reports a fraction of 1.
type TwoPhaseProgress struct {
	total    int64
	boundary float64
	em       emitter
}

func NewTwoPhaseProgress(total int64, fn ProgressFunc) *TwoPhaseProgress {
	return &TwoPhaseProgress{
		total:    total,
		boundary: finalPhaseBoundary,
		em:       newEmitter(fn),
	}
}

// Boundary returns the audio share handed to FinalFeedbackStart.
func (p *TwoPhaseProgress) Boundary() float64 {
	return p.boundary
}

// Update reports rendered samples during the audio phase. Below the
// boundary the percent is the rendered share scaled into the audio
// span; past it the remaining span points are spread over the samples
// beyond the threshold, which tops the audio phase out just above the
// boundary percent. A total equal to the audio threshold reports the
// boundary percent flat instead of dividing by zero.
func (p *TwoPhaseProgress) Update(rendered int64) {
	if p.total <= 0 {
		return
	}
	total := float64(p.total)
	audio := p.boundary * total
	span := 100 - p.boundary*100

	var percent float64
	switch {
	case float64(rendered) <= audio:
		percent = float64(rendered) * p.boundary * 100 / total
	case total == audio:
		percent = p.boundary * 100
	default:
		percent = p.boundary*100 + (float64(rendered)-audio)*span/100/(total-audio)
	}
	if percent > 100 {
		percent = 100
	}
	p.em.emit(int(percent))
}

// Finalize reports the sink's metadata pass, fraction in [0, 1].
func (p *TwoPhaseProgress) Finalize(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	p.em.emit(int(p.boundary*100 + fraction*(100-p.boundary*100)))
}

// Finish emits the terminal 100 unless Finalize already reached it.
func (p *TwoPhaseProgress) Finish() {
	p.em.finish()
}

// Reporter is the surface the export loops need from either
// accountant.
type Reporter interface {
	Update(rendered int64)
	Finish()
}
