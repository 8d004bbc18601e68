// SPDX-License-Identifier: EPL-2.0

package config

import "strings"

// normalize folds tokens to the registry's lowercase form and replaces
// zero values with the built-in defaults. TOML leaves omitted fields at
// zero, so zero means "not set" rather than a literal zero request.
func (c *Config) normalize() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultFormat
	}
	if c.Output.BitDepth == 0 {
		c.Output.BitDepth = defaultBitDepth
	}

	c.Render.Layout = strings.ToLower(strings.TrimSpace(c.Render.Layout))
	if c.Render.Layout == "" {
		c.Render.Layout = defaultLayout
	}
	if c.Render.UpdateRate == 0 {
		c.Render.UpdateRate = defaultUpdateRate
	}

	if c.Room.X == 0 {
		c.Room.X = defaultRoomExtent
	}
	if c.Room.Y == 0 {
		c.Room.Y = defaultRoomExtent
	}
	if c.Room.Z == 0 {
		c.Room.Z = defaultRoomExtent
	}
}
