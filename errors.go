// SPDX-License-Identifier: EPL-2.0

package mixdown

import "errors"

// ErrUnsupportedInput marks an input file whose extension matches no
// registered decoder.
var ErrUnsupportedInput = errors.New("unsupported input format")

// ErrOutputBusy marks an output path that another run holds locked.
var ErrOutputBusy = errors.New("output file locked by another process")

// ErrInvalidOptions marks a ProcessingOptions value that fails its own
// invariants before any file is touched.
var ErrInvalidOptions = errors.New("invalid processing options")
