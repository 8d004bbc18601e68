package render

import "errors"

// ErrVirtualizerSetup marks a failed virtualizer construction. It is a
// warning, not a failure: the run continues with a plain channel
// export and the warning surfaces once on the console.
var ErrVirtualizerSetup = errors.New("virtualizer setup failed")

// ErrNoTrack is returned by Configure and Render before a track has
// been attached.
var ErrNoTrack = errors.New("no track attached")

// ErrNotConfigured is returned by Render before Configure has fixed
// the output rate and channel set.
var ErrNotConfigured = errors.New("renderer not configured")

// ErrNoOutputLanes is returned by Configure when the requested setup
// yields nothing to render into.
var ErrNoOutputLanes = errors.New("no output lanes configured")
