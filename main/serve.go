package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/components/publisher"
	"github.com/adammck/legged/components/stance"
	"github.com/adammck/legged/math3d"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "main",
})

type serveOptions struct {
	addr     string
	stride   float64
	localize bool
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a simulated walk and publish the robot state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "address to serve on (default: from config)")
	cmd.Flags().Float64Var(&opts.stride, "stride", 0.1, "distance each foot moves forwards per step (m)")
	cmd.Flags().BoolVar(&opts.localize, "localize", true, "pretend the map frame is localized at the origin")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}

	addr := cfg.Publisher.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	state := legged.NewState()
	state.BasePose.Position.Z = standingHeight(cfg.NominalStance())

	sr := adapter.NewStateRobot(cfg.WorldFrame, state)
	if opts.localize {
		sr.SetFrameTransform(adapter.MapFrameID, math3d.IdentityPose)
	}

	a := adapter.New(sr)

	pub := publisher.New(a, addr, cfg.Publisher.FPS)
	pub.FramePrefix = cfg.FramePrefix

	adapt := stance.NewAdaptation(a, cfg.NominalStance(), 100*time.Millisecond)

	r := legged.NewRobot(state)
	r.Add(newWalker(a, adapt, cfg, opts.stride))
	r.Add(adapt)
	r.Add(pub)

	log.Info("booting components")
	if err := r.Boot(); err != nil {
		return err
	}
	defer pub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := time.NewTicker(time.Second / time.Duration(cfg.TickRate))
	defer t.Stop()

	log.Infof("running at %dHz", cfg.TickRate)
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil

		case now := <-t.C:
			if err := r.Tick(now); err != nil {
				log.Errorf("tick: %v", err)
			}
		}
	}
}
