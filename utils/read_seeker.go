// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"bytes"
	"fmt"
	"io"
)

// EnsureReadSeeker returns r itself when it already implements io.ReadSeeker.
// Otherwise the remaining stream is buffered in memory and served from a
// bytes.Reader. Container decoders need seeking to locate chunks and report
// lengths.
func EnsureReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return bytes.NewReader(data), nil
}
