package scene

import "errors"

var ErrInvalidSceneSpec = errors.New("invalid scene spec")
