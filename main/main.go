package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adammck/legged"
	"github.com/adammck/legged/config"
	"github.com/adammck/legged/math3d"
)

type rootOptions struct {
	debug  bool
	config string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "legged",
		Short:        "Swing trajectories and stance optimization for legged robots",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "show debug logging")
	cmd.PersistentFlags().StringVarP(&opts.config, "config", "c", "", "robot config file (default: built-in quadruped)")

	cmd.AddCommand(newSwingCommand(opts))
	cmd.AddCommand(newStanceCommand(opts))
	cmd.AddCommand(newServeCommand(opts))

	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	if o.config == "" {
		return config.Default(), nil
	}

	return config.Load(o.config)
}

// parseVector parses "x,y,z".
func parseVector(s string) (math3d.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.ZeroVector3, errors.Errorf("expected x,y,z, got %q", s)
	}

	var f [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.ZeroVector3, errors.Wrapf(err, "invalid vector %q", s)
		}
		f[i] = v
	}

	return math3d.MakeVector3(f[0], f[1], f[2]), nil
}

// standingHeight returns the height of the base above the ground when the feet
// are at their nominal positions.
func standingHeight(nominal legged.Stance) float64 {
	if len(nominal) == 0 {
		return 0
	}

	h := 0.0
	for _, v := range nominal {
		h -= v.Z
	}

	return h / float64(len(nominal))
}
