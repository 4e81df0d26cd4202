package main

import (
	"fmt"
	"io"

	"github.com/npillmayer/curve3d"
	"github.com/npillmayer/curve3d/bezier"
	"github.com/npillmayer/curve3d/outline"
	"github.com/npillmayer/curve3d/shape"
	"github.com/npillmayer/curve3d/track"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// tracer writes to trace with key 'curvesample'
func tracer() tracing.Trace {
	return tracing.Select("curvesample")
}

// tracedPackages are the tracers a --trace level applies to.
var tracedPackages = []string{"curvesample", "curve3d", "bezier", "smooth", "outline", "track", "shape"}

// configureTracing routes all tracers to a Go logger on stderr, at the
// given level.
func configureTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"tracelevel.root": level,
	}
	for _, key := range tracedPackages {
		conf["tracelevel."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func run(w io.Writer, opts *options) error {
	if opts.traceLevel != "" {
		if err := configureTracing(opts.traceLevel); err != nil {
			return err
		}
	}
	if opts.step <= 0 {
		return fmt.Errorf("%w: sampling step %g", curve3d.ErrOutOfRange, opts.step)
	}
	s, err := buildShape(opts)
	if err != nil {
		return err
	}
	c := s.Curve()
	fmt.Fprintf(w, "curve: %d points, %d segments, closed=%v, lock=%s, length=%.6f\n",
		c.N(), c.SegmentCount(), c.IsClosed(), c.AxisLock(), c.Length())
	fmt.Fprintf(w, "average size: %.6f\n", s.AverageSize())
	for p := range c.Along(opts.step) {
		a, err := s.AttributesAt(p.Distance)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "d=%9.4f  pos=%s  tangent=%s  reference=%s  size=%.4f\n", p.Distance,
			curve3d.VString(p.Origin), curve3d.VString(p.Tangent), curve3d.VString(p.Reference), a.Size)
		if opts.ring > 0 {
			outer, _, err := s.Ring(p.Distance, opts.ring)
			if err != nil {
				return err
			}
			for _, q := range outer {
				fmt.Fprintf(w, "    ring %s\n", curve3d.VString(q))
			}
		}
	}
	if opts.envelope {
		env, err := s.Extrude().Envelope(c)
		if err != nil {
			return err
		}
		lo, hi := outline.Extent(env)
		fmt.Fprintf(w, "envelope: area=%.6f extent=%s..%s\n", outline.Area(env), lo, hi)
	}
	return nil
}

// buildShape creates and recalculates a shape from the command line
// options.
func buildShape(opts *options) (*shape.Shape, error) {
	if len(opts.points)%3 != 0 {
		return nil, fmt.Errorf("%w: control points need 3 coordinates, got %d values",
			curve3d.ErrOutOfRange, len(opts.points))
	}
	if len(opts.points) < 6 {
		return nil, fmt.Errorf("%w: need at least 2 control points", curve3d.ErrDegenerateCurve)
	}
	if opts.samples < 1 {
		return nil, fmt.Errorf("%w: %d samples per segment", curve3d.ErrOutOfRange, opts.samples)
	}
	lock, err := curve3d.ParseAxisLock(opts.lock)
	if err != nil {
		return nil, err
	}
	c := bezier.NewCurve().Resolution(opts.samples).Lock(lock)
	for i := 0; i < len(opts.points); i += 3 {
		c.Knot(curve3d.V(opts.points[i], opts.points[i+1], opts.points[i+2]))
	}
	if opts.closed {
		c.Cycle()
	} else {
		c.End()
	}
	s, err := shape.New(c, shape.DefaultSettings())
	if err != nil {
		return nil, err
	}
	if opts.smooth {
		if err := s.Smooth(); err != nil {
			return nil, err
		}
	}
	if err := s.Recalculate(); err != nil {
		return nil, err
	}
	if len(opts.sizes) == 0 {
		return s, nil
	}
	if len(opts.sizes)%2 != 0 {
		return nil, fmt.Errorf("%w: size keyframes need distance and value", curve3d.ErrOutOfRange)
	}
	s.Size().SetUseKeyframes(true)
	for i := 0; i < len(opts.sizes); i += 2 {
		seg, t, err := c.SegmentTimeAtDistance(opts.sizes[i])
		if err != nil {
			return nil, err
		}
		if _, err := s.Size().AddKeyframe(c, seg, t, opts.sizes[i+1], track.Linear); err != nil {
			return nil, err
		}
		tracer().Infof("size keyframe at d=%.4f: %g", opts.sizes[i], opts.sizes[i+1])
	}
	return s, s.Recalculate()
}
