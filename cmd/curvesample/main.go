/*
Command curvesample builds a curve from control points given on the command
line and prints frames and track values sampled at regular distances.

	curvesample -p 0,0,0 -p 10,0,0 -p 10,10,0 --closed --lock z --step 2.5

Keyframes for the size track may be given as distance/value pairs:

	curvesample -p 0,0,0 -p 10,0,0 --size 0,1 --size 10,3

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options collects the command line flags.
type options struct {
	points     []float64 // x,y,z triples
	sizes      []float64 // distance,value pairs
	closed     bool
	lock       string
	samples    int
	step       float64
	smooth     bool
	ring       int
	envelope   bool
	traceLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "curvesample",
		Short: "Sample an arc-length parameterized Bezier curve",
		Long: `curvesample builds a 3D Bezier curve through the given control points and
prints positions, frames and track values at regular arc-length distances.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.Float64SliceVarP(&opts.points, "point", "p", nil, "control point x,y,z (repeatable)")
	f.Float64SliceVar(&opts.sizes, "size", nil, "size keyframe distance,value (repeatable)")
	f.BoolVar(&opts.closed, "closed", false, "close the curve into a loop")
	f.StringVar(&opts.lock, "lock", "none", "lock the curve to a plane: none, x, y or z")
	f.IntVar(&opts.samples, "samples", 10, "arc-length table samples per segment")
	f.Float64Var(&opts.step, "step", 1, "sampling distance")
	f.BoolVar(&opts.smooth, "smooth", false, "smooth the tangents (needs --lock)")
	f.IntVar(&opts.ring, "ring", 0, "print tube rings of this many points")
	f.BoolVar(&opts.envelope, "envelope", false, "print the extent of the profile envelope")
	f.StringVar(&opts.traceLevel, "trace", "", "trace level: Debug, Info or Error")
	return cmd
}
