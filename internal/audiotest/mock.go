// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic audio sources for tests.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates interleaved samples from a waveform function.
// It satisfies the audio.Source interface without importing the audio
// package, so packages under test can use it without an import cycle.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	served      int
	undeclared  bool
	waveform    func(frame, channel int) float32

	failErr   error
	failAfter int
}

// NewMockSource returns a source of totalFrames frames whose sample
// values come from waveform, called with the absolute frame index and
// the channel. A nil waveform yields silence.
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame, channel int) float32) *MockSource {
	if waveform == nil {
		waveform = func(frame, channel int) float32 { return 0 }
	}
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentSource returns a source of all zero samples.
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return 0
	})
}

// NewSineSource returns a source carrying a sine wave on every channel.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource returns a source holding value on every channel.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Length reports the declared frame count, or 0 after Undeclared.
func (m *MockSource) Length() int64 {
	if m.undeclared {
		return 0
	}
	return int64(m.totalFrames)
}

// Undeclared hides the length, mimicking containers that cannot report
// one. Returns the receiver for chaining.
func (m *MockSource) Undeclared() *MockSource {
	m.undeclared = true
	return m
}

// FailWith makes ReadSamples return err once afterFrames frames have
// been served. Returns the receiver for chaining.
func (m *MockSource) FailWith(err error, afterFrames int) *MockSource {
	m.failErr = err
	m.failAfter = afterFrames
	return m
}

// Reset rewinds the source so it can be read again.
func (m *MockSource) Reset() {
	m.served = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.failErr != nil && m.served >= m.failAfter {
		return 0, m.failErr
	}
	if m.served >= m.totalFrames {
		return 0, io.EOF
	}

	frames := len(dst) / m.channels
	if avail := m.totalFrames - m.served; frames > avail {
		frames = avail
	}
	if m.failErr != nil && m.served+frames > m.failAfter {
		frames = m.failAfter - m.served
		if frames <= 0 {
			return 0, m.failErr
		}
	}

	for frame := range frames {
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(m.served+frame, ch)
		}
	}
	m.served += frames

	if m.failErr == nil && m.served >= m.totalFrames {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}
