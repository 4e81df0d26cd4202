package smooth

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/curve3d"
)

// Controls finds Hobby control points for knots with tension 1 and curl 1.
// For open paths, pre[0] and post[n-1] are set to the terminal knots.
func Controls(knots []curve3d.Pair, cycle bool) (pre, post []curve3d.Pair, err error) {
	return Solve(knots, cycle, 1, 1)
}

// Solve finds Hobby control points for knots with a uniform tension and a
// uniform curl at the ends of open paths.
func Solve(knots []curve3d.Pair, cycle bool, tension, curl float64) (pre, post []curve3d.Pair, err error) {
	if err = validate(knots, cycle); err != nil {
		return nil, nil, err
	}
	if tension < 0.75 || math.IsNaN(tension) {
		return nil, nil, fmt.Errorf("%w: %g", ErrInvalidTension, tension)
	}
	s := &system{
		knots: knots,
		cycle: cycle,
		a:     1 / tension,
		b:     1 / tension,
		curl:  curl,
	}
	theta := s.solve()
	n := len(knots)
	pre = make([]curve3d.Pair, n)
	post = make([]curve3d.Pair, n)
	copy(pre, knots)
	copy(post, knots)
	joins := n - 1
	if cycle {
		joins = n
	}
	for i := 0; i < joins; i++ {
		phi := -s.psi(i+1) - theta[i+1]
		p2, p3 := s.controlOffsets(theta[i], phi, s.delta(i))
		post[i] = s.z(i) + p2
		pre[(i+1)%n] = s.z(i+1) - p3
	}
	tracer().Debugf("smoothed %d knots, cycle=%v", n, cycle)
	return pre, post, nil
}

// MustControls is like Controls, but panics on invalid knots.
func MustControls(knots []curve3d.Pair, cycle bool) (pre, post []curve3d.Pair) {
	pre, post, err := Controls(knots, cycle)
	if err != nil {
		panic(err)
	}
	return pre, post
}

func validate(knots []curve3d.Pair, cycle bool) error {
	n := len(knots)
	if cycle && n < 3 {
		return fmt.Errorf("%w: cycle needs at least 3 knots, got %d", ErrTooFewKnots, n)
	} else if n < 2 {
		return fmt.Errorf("%w: open path needs at least 2 knots, got %d", ErrTooFewKnots, n)
	}
	for i, z := range knots {
		if cmplx.IsNaN(z.C()) || cmplx.IsInf(z.C()) {
			return fmt.Errorf("%w at knot %d", ErrInvalidKnot, i)
		}
	}
	joins := n - 1
	if cycle {
		joins = n
	}
	for i := 0; i < joins; i++ {
		j := (i + 1) % n
		if (knots[j] - knots[i]).Abs() <= _epsilon {
			return fmt.Errorf("%w between knots %d and %d", ErrDegenerateSegment, i, j)
		}
	}
	return nil
}

// --- The linear system -----------------------------------------------------

type system struct {
	knots []curve3d.Pair
	cycle bool
	a, b  float64 // reciprocal tensions
	curl  float64
}

func (s *system) n() int {
	return len(s.knots)
}

func (s *system) z(i int) curve3d.Pair {
	return s.knots[i%s.n()]
}

func (s *system) delta(i int) curve3d.Pair {
	return s.z(i+1) - s.z(i)
}

func (s *system) d(i int) float64 {
	return s.delta(i).Abs()
}

// Turning angle at z.i.
func (s *system) psi(i int) float64 {
	if !s.cycle && (i <= 0 || i >= s.n()-1) {
		return 0
	}
	return reduceAngle(s.delta(i).Angle() - s.delta(i-1).Angle())
}

// solve returns the angles theta.i between the outgoing direction at z.i
// and the chord to z.i+1.
func (s *system) solve() []float64 {
	n := s.n()
	u := make([]float64, n+2)
	v := make([]float64, n+2)
	w := make([]float64, n+2)
	theta := make([]float64, n+2)
	if s.cycle {
		u[0], v[0], w[0] = 0, 0, 1
		s.equations(u, v, w, n)
		s.endCycle(theta, u, v, w)
		return theta
	}
	c := s.a * s.a * s.curl / (s.b * s.b)
	u[0] = ((3-s.a)*c + s.b) / (s.a*c + 3 - s.b)
	v[0] = -u[0] * s.psi(1)
	s.equations(u, v, w, n-2)
	s.endOpen(theta, u, v)
	return theta
}

func (s *system) equations(u, v, w []float64, upto int) {
	a, b := s.a, s.b
	for i := 1; i <= upto; i++ {
		A := a / (b * b * s.d(i-1))
		B := (3 - a) / (b * b * s.d(i-1))
		C := (3 - b) / (a * a * s.d(i))
		D := b / (a * a * s.d(i))
		t := B - u[i-1]*A + C
		u[i] = D / t
		v[i] = (-B*s.psi(i) - D*s.psi(i+1) - A*v[i-1]) / t
		if s.cycle {
			w[i] = -A * w[i-1] / t
		}
		tracer().Debugf("u.%d = %.4g, v.%d = %.4g", i, u[i], i, v[i])
	}
}

func (s *system) endOpen(theta, u, v []float64) {
	last := s.n() - 1
	c := s.b * s.b * s.curl / (s.a * s.a)
	u[last] = (s.b*c + 3 - s.a) / ((3-s.b)*c + s.a)
	if den := u[last-1] - u[last]; math.Abs(den) > _epsilon {
		theta[last] = v[last-1] / den
	}
	for i := last - 1; i >= 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
	}
}

func (s *system) endCycle(theta, u, v, w []float64) {
	n := s.n()
	var a, b float64 = 0, 1
	for i := n; i > 0; i-- {
		a = v[i] - a*u[i]
		b = w[i] - b*u[i]
	}
	t0 := (v[n] - a*u[n]) / (1 - (w[n] - b*u[n]))
	v[0] = t0
	for i := 1; i <= n; i++ {
		v[i] += w[i] * t0
	}
	theta[0], theta[n] = t0, t0
	for i := n - 1; i > 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
	}
}

// controlOffsets calculates the control points between z.i and z.i+1,
// relative to these knots.
func (s *system) controlOffsets(theta, phi float64, dvec curve3d.Pair) (curve3d.Pair, curve3d.Pair) {
	alpha, beta := alphaBeta(theta, phi)
	rho, sigma := (2+alpha)/beta, (2-alpha)/beta
	st, ct := math.Sincos(theta)
	sf, cf := math.Sincos(phi)
	dx, dy := dvec.X(), dvec.Y()
	uv1 := curve3d.P(dx*ct-dy*st, dx*st+dy*ct)
	uv2 := curve3d.P(dx*cf+dy*sf, -dx*sf+dy*cf)
	return scale(uv1, s.a/3*rho), scale(uv2, s.b/3*sigma)
}

func alphaBeta(theta, phi float64) (float64, float64) {
	const (
		constA  = 1.41421356    // sqrt(2) -- empiric constants, as explained by J.Hobby
		constB  = 0.0625        // 1/16
		constC  = 0.38196601125 // (3 - sqrt(5)) / 2
		constCC = 0.61803398875 // 1 - c
	)
	st, ct := math.Sincos(theta)
	sf, cf := math.Sincos(phi)
	alpha := constA * (st - constB*sf) * (sf - constB*st) * (ct - cf)
	beta := 1 + constCC*ct + constC*cf
	return alpha, beta
}

func scale(p curve3d.Pair, f float64) curve3d.Pair {
	return curve3d.P(p.X()*f, p.Y()*f)
}

// Reduce an angle to fit into -pi .. pi.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > math.Pi {
		if a > 0 {
			a -= 2 * math.Pi
		} else {
			a += 2 * math.Pi
		}
	}
	return a
}
