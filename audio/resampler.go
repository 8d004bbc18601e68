// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"mixdown/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation over a four-frame window. Works on interleaved samples and
// preserves channel count. Applies a simple low-pass when downsampling.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	step     float64 // source frames advanced per output frame
	channels int

	// Interpolation window: window[0]=t-1, window[1]=t0, window[2]=t+1,
	// window[3]=t+2. filled marks slots that hold real source data.
	window [4][]float32
	filled [4]bool
	primed bool

	// Fractional position between window[1] and window[2].
	frac float64

	readBuf []float32
	eof     bool

	// One-pole low-pass state, active only when downsampling.
	lowpass bool
	alpha   float32
	lpState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		srcRate:  float64(src.SampleRate()),
		dstRate:  float64(dstRate),
		step:     step,
		channels: channels,
		readBuf:  make([]float32, channels),
		lowpass:  step > 1.0,
		lpState:  make([]float32, channels),
	}
	if r.lowpass {
		// One-pole coefficient; a proper FIR would do better but this keeps
		// the worst of the aliasing out of the folded band.
		r.alpha = 0.5
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Length scales the source length to the destination rate, rounding up.
// A source without a declared length stays undeclared.
func (r *Resampler) Length() int64 {
	srcLen := r.src.Length()
	if srcLen <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(srcLen) * r.dstRate / r.srcRate))
}

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// prime fills the interpolation window with the first source frames,
// duplicating the last valid frame when the source is shorter than the
// window.
func (r *Resampler) prime() error {
	for i := 0; i < 4; i++ {
		n, err := r.src.ReadSamples(r.readBuf)
		if n > 0 {
			copy(r.window[i], r.readBuf[:n])
			r.filled[i] = true

			// Seed the filter with the first frame to avoid a warm-up ramp.
			if i == 0 && r.lowpass {
				copy(r.lpState, r.readBuf[:n])
			}
		}
		if err == io.EOF {
			r.eof = true
			if i == 0 {
				return io.EOF
			}
			for j := i; j < 4; j++ {
				copy(r.window[j], r.window[i-1])
				r.filled[j] = true
			}
			break
		} else if err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	r.primed = true
	return nil
}

// advance shifts the window one frame forward and pulls the next source
// frame into the last slot.
func (r *Resampler) advance() error {
	if r.eof {
		return io.EOF
	}

	copy(r.window[0], r.window[1])
	copy(r.window[1], r.window[2])
	copy(r.window[2], r.window[3])
	r.filled[0] = r.filled[1]
	r.filled[1] = r.filled[2]
	r.filled[2] = r.filled[3]

	n, err := r.src.ReadSamples(r.readBuf)
	if n > 0 {
		copy(r.window[3], r.readBuf[:n])
		r.filled[3] = true

		if r.lowpass {
			for c := 0; c < r.channels; c++ {
				r.window[3][c] = r.alpha*r.window[3][c] + (1-r.alpha)*r.lpState[c]
				r.lpState[c] = r.window[3][c]
			}
		}
	} else {
		r.filled[3] = false
	}

	if err == io.EOF {
		r.eof = true
		if !r.filled[3] {
			return io.EOF
		}
	} else if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadSamples produces dst samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	wanted := len(dst) / r.channels

	for written < wanted {
		for r.frac >= 1.0 {
			r.frac -= 1.0
			if err := r.advance(); err != nil {
				if err == io.EOF {
					if written == 0 {
						return 0, io.EOF
					}
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}

		if !r.filled[1] || !r.filled[2] {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		t := float32(r.frac)

		for c := 0; c < r.channels; c++ {
			y0 := r.window[1][c]
			if r.filled[0] {
				y0 = r.window[0][c]
			}
			y1 := r.window[1][c]
			y2 := r.window[2][c]
			y3 := r.window[2][c]
			if r.filled[3] {
				y3 = r.window[3][c]
			}

			dst[written*r.channels+c] = utils.CubicInterpolate(y0, y1, y2, y3, t)
		}

		written++
		r.frac += r.step
	}

	return written * r.channels, nil
}
