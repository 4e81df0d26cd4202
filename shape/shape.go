/*
Package shape bundles a curve with the tracks a curve-design tool attaches to
it: size, rotation, arc, thickness, color and extrusion profiles.

A Shape keeps curve and tracks consistent. Structural edits of the curve
(splitting segments, inserting or removing control points) re-anchor every
track, so keyframes stay where they were. Recalculation covers the curve,
the nested profile curves and the views of all tracks.

Shapes are owned by a single editing thread. Mesh generation may run
concurrently, on a snapshot: Snapshot returns a deep, fully recalculated copy,
taken under a read lock, while edits through the Shape's methods hold the
write lock.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package shape

import (
	"sync"

	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
	"github.com/npillmayer/curve3d/track"
	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'shape'
func tracer() tracing.Trace {
	return tracing.Select("shape")
}

// Settings configure a new shape.
type Settings struct {
	SamplesPerSegment int              // arc-length table resolution
	ClosedLoop        bool             // curve wraps around
	AxisLock          curve3d.AxisLock // curve is planar
	Size              float64          // constant size, ≥ 0
	Rotation          float64          // constant rotation, degrees
	Arc               float64          // constant arc, degrees in [0,360]
	Thickness         float64          // constant thickness, ≥ 0
	Color             track.RGBA
}

// DefaultSettings are the settings of a fresh shape.
func DefaultSettings() Settings {
	return Settings{
		SamplesPerSegment: bezier.DefaultSamplesPerSegment,
		Size:              1,
		Rotation:          0,
		Arc:               180,
		Thickness:         0.1,
		Color:             track.White(),
	}
}

// Shape is a curve with its tracks.
type Shape struct {
	mu          sync.RWMutex
	settings    Settings
	curve       *bezier.Curve
	size        *track.Track[float64]
	rotation    *track.Track[float64]
	arc         *track.Track[float64]
	thickness   *track.Track[float64]
	color       *track.Track[track.RGBA]
	extrude     *track.CurveTrack
	averageSize float64
}

// New creates a shape. A nil curve c starts an empty curve configured by
// settings. An existing curve keeps its topology, axis lock and resolution,
// and the settings are adjusted to match.
func New(c *bezier.Curve, settings Settings) (*Shape, error) {
	if c == nil {
		c = bezier.NewCurve()
		if err := c.SetSamplesPerSegment(settings.SamplesPerSegment); err != nil {
			return nil, err
		}
		c.SetClosedLoop(settings.ClosedLoop)
		c.SetAxisLock(settings.AxisLock)
	} else {
		settings.SamplesPerSegment = c.SamplesPerSegment()
		settings.ClosedLoop = c.IsClosed()
		settings.AxisLock = c.AxisLock()
	}
	s := &Shape{
		settings:  settings,
		curve:     c,
		size:      track.New[float64]("size", track.AtLeast(0), settings.Size),
		rotation:  track.New[float64]("rotation", track.Unbounded(), settings.Rotation),
		arc:       track.New[float64]("arc", track.Between(0, 360), settings.Arc),
		thickness: track.New[float64]("thickness", track.AtLeast(0), settings.Thickness),
		color:     track.New[track.RGBA]("color", track.Colors{}, settings.Color),
		extrude:   track.NewCurveTrack("extrude", nil),
	}
	s.size.Bind(c)
	s.rotation.Bind(c)
	s.arc.Bind(c)
	s.thickness.Bind(c)
	s.color.Bind(c)
	s.extrude.Bind(c)
	s.averageSize = s.size.Constant()
	return s, nil
}

// Settings returns the settings the shape was created with.
func (s *Shape) Settings() Settings {
	return s.settings
}

// Curve returns the primary curve. Edits which change the curve's structure
// should go through the shape, to keep tracks anchored.
func (s *Shape) Curve() *bezier.Curve {
	return s.curve
}

// Size is the track of cross-section sizes.
func (s *Shape) Size() *track.Track[float64] { return s.size }

// Rotation is the track of cross-section rotations, in degrees.
func (s *Shape) Rotation() *track.Track[float64] { return s.rotation }

// Arc is the track of ring arcs, in degrees.
func (s *Shape) Arc() *track.Track[float64] { return s.arc }

// Thickness is the track of wall thicknesses.
func (s *Shape) Thickness() *track.Track[float64] { return s.thickness }

// Color is the track of colors.
func (s *Shape) Color() *track.Track[track.RGBA] { return s.color }

// Extrude is the track of cross-section profiles.
func (s *Shape) Extrude() *track.CurveTrack { return s.extrude }

func (s *Shape) scalars() []*track.Track[float64] {
	return []*track.Track[float64]{s.size, s.rotation, s.arc, s.thickness}
}

// each calls f for every track, stopping at the first error.
func (s *Shape) each(f func(tr trackOps) error) error {
	for _, tr := range []trackOps{s.size, s.rotation, s.arc, s.thickness, s.color, s.extrude} {
		if err := f(tr); err != nil {
			return err
		}
	}
	return nil
}

// trackOps are the value-independent operations of a track.
type trackOps interface {
	Label() string
	Sort(c *bezier.Curve) error
	Reanchor(c *bezier.Curve, remap bezier.Remap) error
	Invalidate()
}

// Recalculate brings curve, profiles and track views up to date, and
// refreshes the cached average size.
func (s *Shape) Recalculate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recalculate()
}

func (s *Shape) recalculate() error {
	if err := s.curve.Recalculate(); err != nil {
		return err
	}
	if err := s.extrude.RecalculateProfiles(vec3.UnitZ); err != nil {
		return err
	}
	if err := s.each(func(tr trackOps) error { return tr.Sort(s.curve) }); err != nil {
		return err
	}
	s.averageSize = s.measureAverageSize()
	tracer().Debugf("shape recalculated: length=%.4f, average size=%.4f", s.curve.Length(), s.averageSize)
	return nil
}

// AverageSize is the mean of the size track along the curve, as of the last
// recalculation.
func (s *Shape) AverageSize() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.averageSize
}

// measureAverageSize samples the size track at the resolution of the
// arc-length tables.
func (s *Shape) measureAverageSize() float64 {
	n := s.curve.SegmentCount() * s.curve.SamplesPerSegment()
	if n == 0 || !s.size.UsesKeyframes() || s.size.Len() == 0 {
		return s.size.Constant()
	}
	L := s.curve.Length()
	steps := n
	if !s.curve.IsClosed() {
		steps = n + 1
	}
	var sum float64
	for i := 0; i < steps; i++ {
		v, err := s.size.ValueAtDistance(s.curve, L*float64(i)/float64(n))
		if err != nil {
			tracer().Errorf("average size: %v", err)
			return s.size.Constant()
		}
		sum += v
	}
	return sum / float64(steps)
}

// Snapshot returns a deep copy of a recalculated shape, for readers on
// other threads. The curve and the keyframes keep their identities,
// profiles are copied with fresh ones.
func (s *Shape) Snapshot() (*Shape, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.curve.IsStale() {
		return nil, curve3d.ErrStale
	}
	return &Shape{
		settings:    s.settings,
		curve:       s.curve.Clone(false),
		size:        s.size.Clone(),
		rotation:    s.rotation.Clone(),
		arc:         s.arc.Clone(),
		thickness:   s.thickness.Clone(),
		color:       s.color.Clone(),
		extrude:     s.extrude.Clone(),
		averageSize: s.averageSize,
	}, nil
}
