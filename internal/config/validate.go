// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Format and layout
// tokens are checked for presence only; the registries reject unknown
// tokens with their own errors at export time.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return c.validateRoom()
}

func (c *Config) validateOutput() error {
	if c.Output.Format == "" {
		return errors.New("output.format must be set")
	}
	if c.Output.BitDepth != 16 && c.Output.BitDepth != 24 {
		return fmt.Errorf("output.bit_depth must be 16 or 24, got %d", c.Output.BitDepth)
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Layout == "" {
		return errors.New("render.layout must be set")
	}
	if c.Render.UpdateRate <= 0 {
		return errors.New("render.update_rate must be positive")
	}
	return nil
}

func (c *Config) validateRoom() error {
	return ensurePositiveMap(map[string]float64{
		"room.x": c.Room.X,
		"room.y": c.Room.Y,
		"room.z": c.Room.Z,
	})
}

func ensurePositiveMap(values map[string]float64) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
