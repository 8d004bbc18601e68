// SPDX-License-Identifier: EPL-2.0

package layout

import "errors"

var (
	// ErrUnsupportedLayout indicates a layout token outside the fixed table.
	ErrUnsupportedLayout = errors.New("unsupported speaker layout")
)
