// SPDX-License-Identifier: EPL-2.0

// Package layout resolves speaker-layout tokens into ordered channel lists.
//
// A layout token such as "5.1.4" names a fixed arrangement of speaker roles;
// Resolve maps it to the ordered []Channel a renderer and an output writer
// agree on. The set of supported tokens is a closed table:
//
//	2.0 (alias: stereo), 5.1, 7.1, 5.1.4, 7.1.4, 9.1.6
//
// Matching is case-insensitive but otherwise exact; everything else fails
// with ErrUnsupportedLayout.
//
// Each Channel carries a nominal position in the normalized room (corners at
// ±1, bed at height 0, top layer at height 1). Renderers use the positions
// for panning; the positions also define which grid points count as "bed"
// placements for object muting.
package layout
