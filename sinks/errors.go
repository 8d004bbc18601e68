// SPDX-License-Identifier: EPL-2.0

package sinks

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrSinkCreation      = errors.New("sink creation failed")
)
