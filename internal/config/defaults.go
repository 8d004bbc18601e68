// SPDX-License-Identifier: EPL-2.0

package config

const (
	defaultFormat     = "wav"
	defaultBitDepth   = 16
	defaultLayout     = "stereo"
	defaultUpdateRate = 512
	defaultRoomExtent = 1.0
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Output: Output{
			Format:   defaultFormat,
			BitDepth: defaultBitDepth,
		},
		Render: Render{
			Layout:     defaultLayout,
			UpdateRate: defaultUpdateRate,
		},
		Room: Room{
			X: defaultRoomExtent,
			Y: defaultRoomExtent,
			Z: defaultRoomExtent,
		},
	}
}
