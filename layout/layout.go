// SPDX-License-Identifier: EPL-2.0

package layout

import (
	"fmt"
	"sort"
	"strings"
)

// Vector is a position in the normalized room: X runs left (-1) to right (+1),
// Y runs floor (0) to ceiling (+1), Z runs rear (-1) to front (+1).
type Vector struct {
	X, Y, Z float32
}

// Channel is a single speaker role with its nominal room position.
type Channel struct {
	Name string
	Pos  Vector
	LFE  bool
}

// Layout is an ordered set of channel roles resolved from a layout token.
type Layout struct {
	Name     string
	Channels []Channel
}

// Count returns the number of channels in the layout.
func (l Layout) Count() int { return len(l.Channels) }

// Speaker roles shared by the supported layouts.
var (
	FrontLeft     = Channel{Name: "FL", Pos: Vector{-1, 0, 1}}
	FrontRight    = Channel{Name: "FR", Pos: Vector{1, 0, 1}}
	FrontCenter   = Channel{Name: "FC", Pos: Vector{0, 0, 1}}
	LowFrequency  = Channel{Name: "LFE", Pos: Vector{0, 0, 1}, LFE: true}
	SideLeft      = Channel{Name: "SL", Pos: Vector{-1, 0, 0}}
	SideRight     = Channel{Name: "SR", Pos: Vector{1, 0, 0}}
	RearLeft      = Channel{Name: "RL", Pos: Vector{-1, 0, -1}}
	RearRight     = Channel{Name: "RR", Pos: Vector{1, 0, -1}}
	WideLeft      = Channel{Name: "WL", Pos: Vector{-1, 0, 0.5}}
	WideRight     = Channel{Name: "WR", Pos: Vector{1, 0, 0.5}}
	TopFrontLeft  = Channel{Name: "TFL", Pos: Vector{-1, 1, 1}}
	TopFrontRight = Channel{Name: "TFR", Pos: Vector{1, 1, 1}}
	TopSideLeft   = Channel{Name: "TSL", Pos: Vector{-1, 1, 0}}
	TopSideRight  = Channel{Name: "TSR", Pos: Vector{1, 1, 0}}
	TopRearLeft   = Channel{Name: "TRL", Pos: Vector{-1, 1, -1}}
	TopRearRight  = Channel{Name: "TRR", Pos: Vector{1, 1, -1}}
)

// table maps canonical layout tokens to their channel orders. Orders follow
// the common WAV channel-mask conventions for each speaker count.
var table = map[string][]Channel{
	"2.0": {FrontLeft, FrontRight},
	"5.1": {FrontLeft, FrontRight, FrontCenter, LowFrequency, SideLeft, SideRight},
	"7.1": {FrontLeft, FrontRight, FrontCenter, LowFrequency, RearLeft, RearRight, SideLeft, SideRight},
	"5.1.4": {FrontLeft, FrontRight, FrontCenter, LowFrequency, SideLeft, SideRight,
		TopFrontLeft, TopFrontRight, TopRearLeft, TopRearRight},
	"7.1.4": {FrontLeft, FrontRight, FrontCenter, LowFrequency, RearLeft, RearRight, SideLeft, SideRight,
		TopFrontLeft, TopFrontRight, TopRearLeft, TopRearRight},
	"9.1.6": {FrontLeft, FrontRight, FrontCenter, LowFrequency, RearLeft, RearRight, SideLeft, SideRight,
		WideLeft, WideRight, TopFrontLeft, TopFrontRight, TopSideLeft, TopSideRight, TopRearLeft, TopRearRight},
}

// aliases maps alternate spellings to canonical tokens.
var aliases = map[string]string{
	"stereo": "2.0",
}

// Resolve maps a layout token to its ordered channel list. Matching is
// case-insensitive and exact: no partial or fuzzy parsing. Unknown tokens
// fail with ErrUnsupportedLayout naming the offending token.
func Resolve(token string) (Layout, error) {
	key := strings.ToLower(strings.TrimSpace(token))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	channels, ok := table[key]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnsupportedLayout, token)
	}

	// Hand out a copy so callers cannot mutate the table.
	out := make([]Channel, len(channels))
	copy(out, channels)
	return Layout{Name: key, Channels: out}, nil
}

// Names returns the supported canonical tokens in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the alternate spellings for a canonical token.
func Aliases(name string) []string {
	var out []string
	for alias, canonical := range aliases {
		if canonical == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
