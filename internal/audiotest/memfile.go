// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

// MemFile is an in-memory io.WriteSeeker for sink tests. Seeking past
// the end and writing there zero-fills the gap, matching a sparse
// file.
type MemFile struct {
	data []byte
	pos  int64
}

func NewMemFile() *MemFile { return &MemFile{} }

func (f *MemFile) Write(p []byte) (int, error) {
	end := f.pos + int64(len(p))
	if grow := end - int64(len(f.data)); grow > 0 {
		f.data = append(f.data, make([]byte, grow)...)
	}
	copy(f.data[f.pos:], p)
	f.pos = end
	return len(p), nil
}

func (f *MemFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.pos + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative seek position")
	}
	f.pos = abs
	return abs, nil
}

// Bytes returns the written content.
func (f *MemFile) Bytes() []byte { return f.data }

// Len returns the content size in bytes.
func (f *MemFile) Len() int { return len(f.data) }
