package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/components/legs"
)

type swingOptions struct {
	limb    string
	start   string
	target  string
	frame   string
	profile string
	samples int
}

func newSwingCommand(root *rootOptions) *cobra.Command {
	opts := &swingOptions{}

	cmd := &cobra.Command{
		Use:   "swing",
		Short: "Compute a swing trajectory and print samples along it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSwing(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.limb, "limb", "LF", "limb to swing (LF, RF, LH, RH)")
	cmd.Flags().StringVar(&opts.start, "start", "0,0,0", "start position x,y,z")
	cmd.Flags().StringVar(&opts.target, "target", "0.2,0,0", "target position x,y,z")
	cmd.Flags().StringVar(&opts.frame, "frame", "", "frame of the positions (default: world frame)")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "straight, triangle or square (default: from config)")
	cmd.Flags().IntVar(&opts.samples, "samples", 10, "number of samples to print")

	return cmd
}

func runSwing(cmd *cobra.Command, root *rootOptions, opts *swingOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}

	limb, err := legged.ParseLimb(opts.limb)
	if err != nil {
		return err
	}

	start, err := parseVector(opts.start)
	if err != nil {
		return err
	}

	target, err := parseVector(opts.target)
	if err != nil {
		return err
	}

	if opts.samples < 2 {
		return errors.Errorf("need at least two samples, got %d", opts.samples)
	}

	state := legged.NewState()
	a := adapter.New(adapter.NewStateRobot(cfg.WorldFrame, state))

	frame := opts.frame
	if frame == "" {
		frame = a.WorldFrameID()
	}

	if !a.FrameIDExists(frame) {
		return errors.Errorf("unknown frame: %q", frame)
	}

	f := cfg.Footstep.NewFootstep(limb)
	if opts.profile != "" {
		f.SetProfileType(legs.Profile(opts.profile))
	}

	f.UpdateStartPosition(start)
	f.SetTargetPosition(frame, target)

	if err := f.PrepareComputation(state, a); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, f)
	fmt.Fprintf(out, "duration: %0.3fs\n", f.Duration())

	for i, k := range f.Knots() {
		fmt.Fprintf(out, "knot %d: t=%0.3f %s\n", i, k.Time, k.Position)
	}

	d := f.Duration()
	for i := 0; i < opts.samples; i++ {
		t := d * float64(i) / float64(opts.samples-1)
		fmt.Fprintf(out, "%0.3f\t%s\t%s\n", t, f.EvaluatePosition(t), f.EvaluateVelocity(t))
	}

	return nil
}
