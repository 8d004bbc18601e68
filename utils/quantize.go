// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 quantizes a [-1, 1] sample to 16 bit PCM. Inputs are
// clamped first. The scale is 32767 on both sides, so -1 maps to
// -32767 and the most negative code stays unused.
func Float32ToInt16(x float32) int16 {
	return int16(clamp(x) * 32767)
}

// Float32ToInt24 quantizes a [-1, 1] sample to 24 bit PCM carried in
// the low bits of an int32, scaled by 8388607 symmetrically like the
// 16 bit path.
func Float32ToInt24(x float32) int32 {
	return int32(clamp(x) * 8388607)
}

func clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
