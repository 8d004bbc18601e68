// SPDX-License-Identifier: EPL-2.0

/*
Package render is the streaming core: it drives a spatial renderer
tick by tick and moves the produced audio into an output sink.

# Renderer

The Renderer interface produces fixed-size interleaved ticks from an
attached track. Engine is the built-in implementation: every source
lane is a spatial object panned onto the target speaker set with
constant power gains, pairwise between adjacent speaker planes per
axis. Bed tracks without object metadata become static objects at
their source layout positions; object containers carry motion paths
the engine follows tick by tick. When a run targets an object sink the
engine switches to object lanes and hands out dry per-object audio
instead of a speaker mix.

# Export Loops

ChannelLoop serves block sinks. Ticks accumulate in a write cache
sized to a whole number of ticks (BlockFrames); full caches flush
through the post chain and the final flush is length limited, so the
sink stores exactly the declared frame count. The mute rules run
before every render call because mute state feeds the next tick.

EnvironmentLoop serves object sinks with one WriteFrame per tick and
never mutes. A metadata generating sink registers its finalization
callback before the first tick and reports through the two phase
accountant.

# Progress

Both accountants quantize reports to multiples of 5, never repeat a
value and always end on a single 100. The two phase form gives audio
streaming a fixed share of the scale and spreads the sink's
finalization pass over the rest.

# Setup

ConfigureListener ties the pieces together for one run: it attaches
the track, fixes the renderer's rate and channel set, resamples when
the output clock differs from the track's, and builds the post chain.
A virtualizer that cannot be built downgrades to a warning on the
Setup and the run continues without it.
*/
package render
