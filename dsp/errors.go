package dsp

import "errors"

// ErrUnsupportedRate is returned by NewVirtualizer for any sample rate
// the ear delay table is not tuned for.
var ErrUnsupportedRate = errors.New("virtualizer supports 48000 Hz only")

// ErrTooFewLanes is returned by NewVirtualizer when the channel set
// has no stereo pair to fold into.
var ErrTooFewLanes = errors.New("virtualizer needs at least two lanes")
