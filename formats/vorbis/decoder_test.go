// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"io"
	"math"
	"testing"
)

// mockOggVorbisReader simulates the oggvorbis.Reader for testing
type mockOggVorbisReader struct {
	sampleRate   int
	channels     int
	samples      []float32
	offset       int
	returnErrors bool
}

func (m *mockOggVorbisReader) SampleRate() int {
	return m.sampleRate
}

func (m *mockOggVorbisReader) Channels() int {
	return m.channels
}

func (m *mockOggVorbisReader) Length() int64 {
	return int64(len(m.samples) / m.channels)
}

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	// oggvorbis returns interleaved values, up to len(buf)
	n := copy(buf, m.samples[m.offset:])
	m.offset += n

	if m.offset >= len(m.samples) {
		return n, io.EOF
	}

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	// Invalid Ogg Vorbis data
	invalidData := []byte("This is not Ogg Vorbis data")

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader(invalidData))

	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader([]byte{}))

	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	mockReader := &mockOggVorbisReader{
		sampleRate: 44100,
		channels:   2,
		samples:    make([]float32, 200),
	}

	src := &source{
		dec:        mockReader,
		sampleRate: 44100,
		channels:   2,
		bufSize:    4096,
	}

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}

	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}

	if src.Length() != 100 {
		t.Errorf("Length() = %d, want 100", src.Length())
	}

	if src.BufSize() <= 0 {
		t.Errorf("BufSize() = %d, want positive value", src.BufSize())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	testSamples := []float32{0.0, 0.5, 1.0, -0.5, -1.0, 0.25, -0.25, 0.0}

	mockReader := &mockOggVorbisReader{
		sampleRate: 48000,
		channels:   2,
		samples:    testSamples,
	}

	src := &source{
		dec:        mockReader,
		sampleRate: 48000,
		channels:   2,
		bufSize:    4096,
	}

	dst := make([]float32, 8)
	n, err := src.ReadSamples(dst)

	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	if n != 8 {
		t.Errorf("ReadSamples() n = %d, want 8", n)
	}

	// Vorbis samples pass through unchanged
	for i := range n {
		if math.Abs(float64(dst[i]-testSamples[i])) > 0.0001 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], testSamples[i])
		}
	}
}

func TestSource_ReadSamples_CountsValues(t *testing.T) {
	t.Parallel()

	// 6 interleaved values = 3 stereo frames. The reported count must be
	// values, not frames.
	mockReader := &mockOggVorbisReader{
		sampleRate: 48000,
		channels:   2,
		samples:    []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
	}

	src := &source{
		dec:        mockReader,
		sampleRate: 48000,
		channels:   2,
		bufSize:    4096,
	}

	dst := make([]float32, 16)
	n, err := src.ReadSamples(dst)

	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	if n != 6 {
		t.Errorf("ReadSamples() n = %d, want 6 interleaved values", n)
	}
}

func TestSource_ReadSamples_TrimsToChannelMultiple(t *testing.T) {
	t.Parallel()

	mockReader := &mockOggVorbisReader{
		sampleRate: 48000,
		channels:   2,
		samples:    make([]float32, 100),
	}

	src := &source{
		dec:        mockReader,
		sampleRate: 48000,
		channels:   2,
		bufSize:    4096,
	}

	// 7 is not a multiple of 2; only 6 values may be filled
	dst := make([]float32, 7)
	n, err := src.ReadSamples(dst)

	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	if n != 6 {
		t.Errorf("ReadSamples() n = %d, want 6", n)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	mockReader := &mockOggVorbisReader{
		sampleRate: 48000,
		channels:   2,
		samples:    make([]float32, 100),
	}

	src := &source{
		dec:        mockReader,
		sampleRate: 48000,
		channels:   2,
		bufSize:    4096,
	}

	dst := make([]float32, 0)
	n, err := src.ReadSamples(dst)

	if err != nil {
		t.Errorf("ReadSamples() with empty buffer error = %v, want nil", err)
	}

	if n != 0 {
		t.Errorf("ReadSamples() n = %d, want 0", n)
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	mockReader := &mockOggVorbisReader{
		sampleRate: 48000,
		channels:   2,
		samples:    []float32{0.1, 0.2, 0.3, 0.4},
	}

	src := &source{
		dec:        mockReader,
		sampleRate: 48000,
		channels:   2,
		bufSize:    4096,
	}

	dst := make([]float32, 4)
	n1, err1 := src.ReadSamples(dst)

	if err1 != io.EOF {
		t.Errorf("ReadSamples() error = %v, want io.EOF", err1)
	}

	if n1 != 4 {
		t.Errorf("ReadSamples() n = %d, want 4", n1)
	}

	n2, err2 := src.ReadSamples(dst)

	if err2 != io.EOF {
		t.Errorf("Second ReadSamples() error = %v, want io.EOF", err2)
	}

	if n2 != 0 {
		t.Errorf("Second ReadSamples() n = %d, want 0", n2)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	mockReader := &mockOggVorbisReader{
		sampleRate:   48000,
		channels:     2,
		samples:      make([]float32, 100),
		returnErrors: true,
	}

	src := &source{
		dec:        mockReader,
		sampleRate: 48000,
		channels:   2,
		bufSize:    4096,
	}

	dst := make([]float32, 4)
	_, err := src.ReadSamples(dst)

	if err == nil {
		t.Error("ReadSamples() error = nil, want error from decoder")
	}
}
