// SPDX-License-Identifier: EPL-2.0

package render

import (
	"math"

	"mixdown/layout"
)

// bedTolerance treats floating point round-off of nominally integer
// bed positions as exact.
const bedTolerance = 0.01

// MuteRules is the position-based gating policy for spatial objects.
// Extent is the room normalization extent per axis; axes at or below
// zero normalize by 1.
type MuteRules struct {
	Bed    bool
	Ground bool
	Extent layout.Vector
}

// Active reports whether the rules can mute anything at all.
func (m MuteRules) Active() bool {
	return m.Bed || m.Ground
}

// Apply recomputes the mute flag of every object in place. A bed
// object sits within tolerance of an integer grid point on all three
// normalized axes; a ground object has a normalized Y of exactly 0.
// Inactive rules or an empty object list leave everything untouched.
func (m MuteRules) Apply(objects []*Object) {
	if !m.Active() || len(objects) == 0 {
		return
	}
	ex, ey, ez := normExtent(m.Extent)

	for _, obj := range objects {
		x := float64(obj.Position.X) / ex
		y := float64(obj.Position.Y) / ey
		z := float64(obj.Position.Z) / ez

		bed := onGrid(x) && onGrid(y) && onGrid(z)
		ground := y == 0

		obj.Mute = (m.Bed && bed) || (m.Ground && ground)
	}
}

func normExtent(e layout.Vector) (x, y, z float64) {
	x, y, z = float64(e.X), float64(e.Y), float64(e.Z)
	if x <= 0 {
		x = 1
	}
	if y <= 0 {
		y = 1
	}
	if z <= 0 {
		z = 1
	}
	return x, y, z
}

func onGrid(v float64) bool {
	return math.Abs(v-math.Round(v)) <= bedTolerance
}
