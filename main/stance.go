package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adammck/legged"
	"github.com/adammck/legged/components/stance"
	"github.com/adammck/legged/math3d"
	"github.com/adammck/legged/utils"
)

type stanceOptions struct {
	dx         float64
	dy         float64
	dyaw       float64
	iterations int
}

func newStanceCommand(root *rootOptions) *cobra.Command {
	opts := &stanceOptions{}

	cmd := &cobra.Command{
		Use:   "stance",
		Short: "Optimize the base pose for a displaced nominal stance",
		Long: "Places the feet where the nominal configuration would put them with the base\n" +
			"moved by (dx, dy, dyaw), then optimizes the base pose starting from the origin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStance(cmd, root, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.dx, "dx", 0.05, "displacement of the feet along x (m)")
	cmd.Flags().Float64Var(&opts.dy, "dy", 0, "displacement of the feet along y (m)")
	cmd.Flags().Float64Var(&opts.dyaw, "dyaw", 0, "rotation of the feet around z (degrees)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 1, "number of linearize-and-solve steps")

	return cmd
}

func runStance(cmd *cobra.Command, root *rootOptions, opts *stanceOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}

	nominal := cfg.NominalStance()

	height := standingHeight(nominal)

	displaced := math3d.MakePose(math3d.MakeVector3(opts.dx, opts.dy, height), math3d.MakeYawRotation(utils.Rad(opts.dyaw)))
	feet := legged.Stance{}
	for l, v := range nominal {
		feet[l] = displaced.Transform(v)
	}

	o := stance.NewPoseOptimization()
	o.SetFeetPositions(feet)
	o.SetDesiredLegConfiguration(nominal)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "support polygon: %s\n", o.SupportPolygon())

	pose := math3d.MakePose(math3d.MakeVector3(0, 0, height), math3d.IdentityRotation)
	for i := 0; i < opts.iterations; i++ {
		pose, err = o.Optimize(pose)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "step %d: %s\n", i+1, pose)
	}

	return nil
}
