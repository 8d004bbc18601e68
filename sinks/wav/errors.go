package wav

import "errors"

var ErrUnsupportedBitDepth = errors.New("wav sink supports 16 and 24 bit only")
