// Package config loads the description of a robot from a YAML file.
package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/components/legs"
	"github.com/adammck/legged/math3d"
)

type Config struct {

	// Name of the odometry frame.
	WorldFrame string `yaml:"world_frame"`

	// Prepended to published frame ids.
	FramePrefix string `yaml:"frame_prefix,omitempty"`

	// Control loop frequency, in Hz.
	TickRate int `yaml:"tick_rate"`

	// Desired position of each foot in the base frame, keyed by limb name.
	Nominal map[string][]float64 `yaml:"nominal"`

	Footstep  Footstep  `yaml:"footstep"`
	Publisher Publisher `yaml:"publisher"`
}

// Footstep holds the defaults for new footsteps.
type Footstep struct {
	Profile           string  `yaml:"profile"`
	Height            float64 `yaml:"height"`
	AverageVelocity   float64 `yaml:"average_velocity"`
	MinimumDuration   float64 `yaml:"minimum_duration"`
	LiftOffVelocity   float64 `yaml:"lift_off_velocity"`
	TouchdownVelocity float64 `yaml:"touchdown_velocity"`
	IgnoreContact     bool    `yaml:"ignore_contact,omitempty"`

	// Leave swinging feet out of body pose adaptation.
	IgnoreForPoseAdaptation bool `yaml:"ignore_for_pose_adaptation,omitempty"`
}

type Publisher struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
}

// Default returns the config of a medium-sized quadruped.
func Default() *Config {
	return &Config{
		WorldFrame: "odom",
		TickRate:   60,
		Nominal: map[string][]float64{
			"LF": {0.33, 0.22, -0.48},
			"RF": {0.33, -0.22, -0.48},
			"LH": {-0.33, 0.22, -0.48},
			"RH": {-0.33, -0.22, -0.48},
		},
		Footstep: Footstep{
			Profile:           string(legs.ProfileTriangle),
			Height:            0.08,
			AverageVelocity:   0.6,
			MinimumDuration:   0.1,
			LiftOffVelocity:   0.05,
			TouchdownVelocity: -0.05,
		},
		Publisher: Publisher{
			Addr: ":8080",
			FPS:  30,
		},
	}
}

// Load reads the config at path over the defaults, and validates it. Unknown
// fields are rejected, to catch typos.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return c, nil
}

func (c *Config) Validate() error {
	switch c.WorldFrame {
	case "":
		return errors.New("world_frame is required")

	case adapter.BaseFrameID, adapter.MapFrameID, adapter.MapGAFrameID:
		return errors.Errorf("world_frame can't be %q", c.WorldFrame)
	}

	if c.TickRate <= 0 {
		return errors.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}

	if len(c.Nominal) == 0 {
		return errors.New("nominal leg configuration is empty")
	}

	for name, v := range c.Nominal {
		if _, err := legged.ParseLimb(name); err != nil {
			return errors.Wrap(err, "nominal")
		}

		if len(v) != 3 {
			return errors.Errorf("nominal position of %s must have three elements, got %d", name, len(v))
		}
	}

	if !legs.ValidProfile(legs.Profile(c.Footstep.Profile)) {
		return errors.Wrapf(legs.ErrUnsupportedProfile, "footstep.profile %q", c.Footstep.Profile)
	}

	if c.Footstep.MinimumDuration <= 0 {
		return errors.Errorf("footstep.minimum_duration must be positive, got %v", c.Footstep.MinimumDuration)
	}

	if c.Footstep.AverageVelocity < 0 {
		return errors.Errorf("footstep.average_velocity can't be negative, got %v", c.Footstep.AverageVelocity)
	}

	if c.Publisher.FPS <= 0 {
		return errors.Errorf("publisher.fps must be positive, got %d", c.Publisher.FPS)
	}

	return nil
}

// NominalStance returns the nominal leg configuration. The config must be
// valid.
func (c *Config) NominalStance() legged.Stance {
	s := legged.Stance{}
	for name, v := range c.Nominal {
		l, err := legged.ParseLimb(name)
		if err != nil {
			panic(err)
		}

		s[l] = math3d.MakeVector3(v[0], v[1], v[2])
	}

	return s
}

// NewFootstep returns a footstep for the limb, with the configured defaults.
func (f Footstep) NewFootstep(limb legged.Limb) *legs.Footstep {
	fs := legs.NewFootstep(limb)
	fs.SetProfileType(legs.Profile(f.Profile))
	fs.SetProfileHeight(f.Height)
	fs.SetAverageVelocity(f.AverageVelocity)
	fs.SetMinimumDuration(f.MinimumDuration)
	fs.SetLiftOffVelocity(f.LiftOffVelocity)
	fs.SetTouchdownVelocity(f.TouchdownVelocity)
	fs.SetIgnoreContact(f.IgnoreContact)
	fs.SetIgnoreForPoseAdaptation(f.IgnoreForPoseAdaptation)
	return fs
}
