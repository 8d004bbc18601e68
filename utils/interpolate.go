// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates a Catmull-Rom segment between y1 and y2
// at fraction t in [0, 1], with y0 and y3 as the outer support points.
// t=0 yields y1 and t=1 yields y2.
func CubicInterpolate(y0, y1, y2, y3, t float32) float32 {
	c3 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c1 := 0.5 * (y2 - y0)
	return y1 + t*(c1+t*(c2+t*c3))
}
