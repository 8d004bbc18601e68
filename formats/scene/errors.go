// SPDX-License-Identifier: EPL-2.0

package scene

import "errors"

var (
	ErrNotSceneFile            = errors.New("not an OSF scene file")
	ErrUnsupportedSceneVersion = errors.New("unsupported OSF version")
	ErrInvalidSceneHeader      = errors.New("invalid OSF header")
	ErrCorruptScene            = errors.New("corrupt OSF payload")
)
