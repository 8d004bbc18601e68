// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"
	"io"
	"math"
	"sort"

	"mixdown/audio"
	"mixdown/layout"
)

// DefaultUpdateRate is the tick length in frames when the run does not
// configure one.
const DefaultUpdateRate = 512

// Engine is the built-in renderer. It pans every source lane as a
// spatial object onto the target speaker set with constant power
// gains, or hands out dry object lanes when configured for an
// environment sink. Bed tracks without object metadata become static
// objects at their source layout positions.
type Engine struct {
	updateRate int

	track *audio.Track
	upmix UpmixSettings

	src        audio.Source
	srcCh      int
	sampleRate int
	posScale   float64

	channels    []layout.Channel
	objectLanes bool
	lanes       int

	objects []*Object
	paths   []audio.ObjectInfo
	srcLFE  []bool

	// Pan planes: the sorted distinct non-LFE speaker coordinates per
	// axis. Panning is pairwise between adjacent planes.
	xs, ys, zs []float32
	lfeLane    int
	ambient    float32

	gains  [][]float32
	target [][]float32
	warmed bool

	readBuf []float32
	tick    []float32

	frame      int64
	eof        bool
	configured bool
}

func NewEngine(updateRate int) *Engine {
	if updateRate <= 0 {
		updateRate = DefaultUpdateRate
	}
	return &Engine{updateRate: updateRate, lfeLane: -1}
}

// Attach binds the input track and derives its object list: the
// container's own objects when it has them, otherwise one static
// object per bed lane.
func (e *Engine) Attach(track *audio.Track, upmix UpmixSettings) error {
	if track == nil {
		return ErrNoTrack
	}
	e.track = track
	e.upmix = upmix
	e.objects = e.objects[:0]
	e.paths = nil

	if infos := track.Objects(); len(infos) > 0 {
		e.paths = infos
		e.srcLFE = make([]bool, len(infos))
		for i := range infos {
			e.objects = append(e.objects, &Object{
				Name:     infos[i].Name,
				Position: infos[i].PositionAt(0),
			})
		}
		return nil
	}

	chs := sourceChannels(track.Channels())
	e.srcLFE = make([]bool, len(chs))
	for i, ch := range chs {
		e.objects = append(e.objects, &Object{Name: ch.Name, Position: ch.Pos})
		e.srcLFE[i] = ch.LFE
	}
	return nil
}

// Configure fixes the output rate and lane set and resets the render
// cursor. A rate different from the track's wraps the source in a
// resampler; object positions keyed to source frames are rescaled to
// the output clock.
func (e *Engine) Configure(cfg ListenerConfig) error {
	if e.track == nil {
		return ErrNoTrack
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = e.track.SampleRate()
	}

	e.src = e.track.Source()
	e.sampleRate = rate
	e.posScale = 1
	if e.track.SampleRate() != rate {
		e.src = audio.NewResampler(e.track.Source(), rate)
		e.posScale = float64(e.track.SampleRate()) / float64(rate)
	}

	e.channels = make([]layout.Channel, len(cfg.Channels))
	copy(e.channels, cfg.Channels)
	e.objectLanes = cfg.ObjectLanes

	e.srcCh = e.track.Channels()
	if e.objectLanes {
		e.lanes = len(e.objects)
	} else {
		e.lanes = len(e.channels)
	}
	if e.lanes == 0 {
		return ErrNoOutputLanes
	}

	e.buildPanPlanes()
	e.readBuf = make([]float32, e.updateRate*e.srcCh)
	e.tick = make([]float32, e.updateRate*e.lanes)
	e.gains = makeMatrix(len(e.objects), e.lanes)
	e.target = makeMatrix(len(e.objects), e.lanes)
	e.warmed = false
	e.frame = 0
	e.eof = false
	e.configured = true
	return nil
}

func (e *Engine) UpdateRate() int { return e.updateRate }

// Channels returns the lane count of a render tick: the speaker count,
// or the object count in object lane mode. Valid after Configure.
func (e *Engine) Channels() int { return e.lanes }

// Objects returns the live object list. Positions track the render
// cursor; mute flags belong to the caller.
func (e *Engine) Objects() []*Object { return e.objects }

// SampleRate returns the configured output rate.
func (e *Engine) SampleRate() int { return e.sampleRate }

// Render produces the next tick. The final tick is zero padded to full
// length; the call after it returns io.EOF. The returned slice is
// reused across calls.
func (e *Engine) Render() ([]float32, error) {
	if !e.configured {
		if e.track == nil {
			return nil, ErrNoTrack
		}
		return nil, ErrNotConfigured
	}
	if e.eof {
		return nil, io.EOF
	}

	want := e.updateRate * e.srcCh
	got := 0
	for got < want {
		n, err := e.src.ReadSamples(e.readBuf[got:want])
		got += n
		if err == io.EOF {
			e.eof = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			// A source handing back no data and no error would spin
			// this loop forever.
			e.eof = true
			break
		}
	}
	if got == 0 {
		return nil, io.EOF
	}
	for i := got; i < want; i++ {
		e.readBuf[i] = 0
	}

	srcFrame := int64(float64(e.frame) * e.posScale)
	for i := range e.paths {
		e.objects[i].Position = e.paths[i].PositionAt(srcFrame)
	}

	if e.objectLanes {
		e.mixObjects()
	} else {
		e.updateTargets()
		e.smoothGains()
		e.mixSpeakers()
	}

	e.frame += int64(e.updateRate)
	return e.tick, nil
}

// mixObjects copies each source lane into its object lane, muted lanes
// as silence.
func (e *Engine) mixObjects() {
	for f := 0; f < e.updateRate; f++ {
		in := f * e.srcCh
		out := f * e.lanes
		for k, obj := range e.objects {
			if obj.Mute {
				e.tick[out+k] = 0
				continue
			}
			e.tick[out+k] = e.readBuf[in+k]
		}
	}
}

func (e *Engine) mixSpeakers() {
	for i := range e.tick {
		e.tick[i] = 0
	}
	for k, obj := range e.objects {
		if obj.Mute {
			continue
		}
		row := e.gains[k]
		for f := 0; f < e.updateRate; f++ {
			s := e.readBuf[f*e.srcCh+k]
			if s == 0 {
				continue
			}
			out := f * e.lanes
			for c, g := range row {
				if g != 0 {
					e.tick[out+c] += s * g
				}
			}
		}
	}
}

// updateTargets recomputes the per-object gain rows for the current
// object positions. LFE source lanes route straight to the target LFE
// lane; everything else pans pairwise per axis, normalized to unit
// power, with the optional matrix spread blended in on top.
func (e *Engine) updateTargets() {
	var spread float32
	if e.upmix.Enabled {
		spread = float32(e.upmix.Matrix) / 5
	}

	for k, obj := range e.objects {
		row := e.target[k]
		for c := range row {
			row[c] = 0
		}

		if e.srcLFE[k] {
			if e.lfeLane >= 0 {
				row[e.lfeLane] = 1
			}
			continue
		}

		var power float64
		for c, ch := range e.channels {
			if ch.LFE {
				continue
			}
			g := axisGain(e.xs, obj.Position.X, ch.Pos.X) *
				axisGain(e.ys, obj.Position.Y, ch.Pos.Y) *
				axisGain(e.zs, obj.Position.Z, ch.Pos.Z)
			row[c] = g
			power += float64(g) * float64(g)
		}
		if power > 0 {
			norm := float32(1 / math.Sqrt(power))
			for c := range row {
				row[c] *= norm
			}
		}

		if spread > 0 {
			power = 0
			for c, ch := range e.channels {
				if ch.LFE {
					continue
				}
				row[c] = (1-spread)*row[c] + spread*e.ambient
				power += float64(row[c]) * float64(row[c])
			}
			if power > 0 {
				norm := float32(1 / math.Sqrt(power))
				for c, ch := range e.channels {
					if ch.LFE {
						continue
					}
					row[c] *= norm
				}
			}
		}
	}
}

// smoothGains eases the applied gains toward the targets. The first
// tick snaps so a run never fades in from silence.
func (e *Engine) smoothGains() {
	if !e.warmed || e.upmix.Smoothness <= 0 {
		for k := range e.gains {
			copy(e.gains[k], e.target[k])
		}
		e.warmed = true
		return
	}
	s := float32(e.upmix.Smoothness)
	for k := range e.gains {
		for c := range e.gains[k] {
			e.gains[k][c] = s*e.gains[k][c] + (1-s)*e.target[k][c]
		}
	}
}

func (e *Engine) buildPanPlanes() {
	e.xs, e.ys, e.zs = e.xs[:0], e.ys[:0], e.zs[:0]
	e.lfeLane = -1
	e.ambient = 0

	nonLFE := 0
	for i, ch := range e.channels {
		if ch.LFE {
			if e.lfeLane < 0 {
				e.lfeLane = i
			}
			continue
		}
		nonLFE++
		e.xs = insertPlane(e.xs, ch.Pos.X)
		e.ys = insertPlane(e.ys, ch.Pos.Y)
		e.zs = insertPlane(e.zs, ch.Pos.Z)
	}
	if nonLFE > 0 {
		e.ambient = float32(1 / math.Sqrt(float64(nonLFE)))
	}
}

// axisGain pans position p onto the speaker plane at s: full weight on
// an exact plane hit, a constant power crossfade between the two
// planes bracketing p, zero elsewhere. Positions outside the outermost
// planes clamp to them.
func axisGain(planes []float32, p, s float32) float32 {
	if len(planes) == 0 {
		return 0
	}
	last := len(planes) - 1
	if len(planes) == 1 || p <= planes[0] {
		if s == planes[0] {
			return 1
		}
		return 0
	}
	if p >= planes[last] {
		if s == planes[last] {
			return 1
		}
		return 0
	}

	hi := sort.Search(len(planes), func(i int) bool { return planes[i] >= p })
	if planes[hi] == p {
		if s == planes[hi] {
			return 1
		}
		return 0
	}
	lo := hi - 1
	t := float64(p-planes[lo]) / float64(planes[hi]-planes[lo])
	switch s {
	case planes[lo]:
		return float32(math.Cos(t * math.Pi / 2))
	case planes[hi]:
		return float32(math.Sin(t * math.Pi / 2))
	}
	return 0
}

func insertPlane(planes []float32, v float32) []float32 {
	i := sort.Search(len(planes), func(i int) bool { return planes[i] >= v })
	if i < len(planes) && planes[i] == v {
		return planes
	}
	planes = append(planes, 0)
	copy(planes[i+1:], planes[i:])
	planes[i] = v
	return planes
}

func makeMatrix(rows, cols int) [][]float32 {
	m := make([][]float32, rows)
	for i := range m {
		m[i] = make([]float32, cols)
	}
	return m
}

// sourceChannels maps a bed channel count to the speaker roles its
// lanes carry, following the WAV channel-mask order for the counts the
// layout table knows. Unknown counts spread across the front wall.
func sourceChannels(n int) []layout.Channel {
	var token string
	switch n {
	case 1:
		return []layout.Channel{layout.FrontCenter}
	case 2:
		token = "2.0"
	case 6:
		token = "5.1"
	case 8:
		token = "7.1"
	case 10:
		token = "5.1.4"
	case 12:
		token = "7.1.4"
	case 16:
		token = "9.1.6"
	default:
		out := make([]layout.Channel, n)
		for i := range out {
			var x float32
			if n > 1 {
				x = -1 + 2*float32(i)/float32(n-1)
			}
			out[i] = layout.Channel{
				Name: fmt.Sprintf("CH%d", i+1),
				Pos:  layout.Vector{X: x, Z: 1},
			}
		}
		return out
	}

	l, err := layout.Resolve(token)
	if err != nil {
		return nil
	}
	return l.Channels
}
