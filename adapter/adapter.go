// Package adapter moves positions, orientations and poses between the frames
// known to the robot: the body-fixed base frame, the odometry (world) frame,
// and two map frames.
//
//	base --- world --- map
//	           \
//	            `---- map_ga
//
// There is no direct edge between base and a map frame, nor between the two
// map frames. Positions are routed through the world frame where possible.
package adapter

import (
	"github.com/sirupsen/logrus"

	"github.com/adammck/legged/math3d"
)

const (
	BaseFrameID  = "base"
	MapFrameID   = "map"
	MapGAFrameID = "map_ga"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "adapter",
})

// Robot is implemented once per robot platform. It supplies the parts of the
// frame graph which vary between them.
type Robot interface {

	// WorldFrameID returns the name of the odometry frame, e.g. "odom".
	WorldFrameID() string

	// BasePoseInWorld returns the current pose of the base in the world frame.
	BasePoseInWorld() math3d.Pose

	// FrameTransform returns the pose of the given map frame in the world
	// frame, or ErrTransformUnavailable if there is no estimate.
	FrameTransform(frameID string) (math3d.Pose, error)
}

// Adapter is what the motion components use to move geometry between frames.
type Adapter interface {
	FrameIDExists(frameID string) bool
	BaseFrameID() string
	WorldFrameID() string
	BasePoseInWorld() math3d.Pose
	FrameTransform(frameID string) (math3d.Pose, error)
	AvailableFrameTransforms() []string
	TransformPosition(inputFrameID, outputFrameID string, position math3d.Vector3) (math3d.Vector3, error)
	TransformOrientation(inputFrameID, outputFrameID string, orientation math3d.Rotation) (math3d.Rotation, error)
	TransformPose(inputFrameID, outputFrameID string, pose math3d.Pose) (math3d.Pose, error)
}

// Frames implements Adapter on top of a Robot. It holds no state of its own,
// so it's safe for concurrent use as long as the Robot is.
type Frames struct {
	robot Robot
}

var _ Adapter = (*Frames)(nil)

func New(robot Robot) *Frames {
	return &Frames{robot: robot}
}

func (f *Frames) BaseFrameID() string {
	return BaseFrameID
}

func (f *Frames) WorldFrameID() string {
	return f.robot.WorldFrameID()
}

func (f *Frames) BasePoseInWorld() math3d.Pose {
	return f.robot.BasePoseInWorld()
}

// FrameIDExists returns true for the four frames in the graph. It doesn't check
// whether the frame's transform is currently available.
func (f *Frames) FrameIDExists(frameID string) bool {
	switch frameID {
	case BaseFrameID, f.WorldFrameID(), MapFrameID, MapGAFrameID:
		return true
	}

	return false
}

func isMapFrame(frameID string) bool {
	return frameID == MapFrameID || frameID == MapGAFrameID
}

// FrameTransform returns the pose of a map frame in the world frame. It's only
// defined for the map frames; base and world are related by BasePoseInWorld.
func (f *Frames) FrameTransform(frameID string) (math3d.Pose, error) {
	world := f.WorldFrameID()
	if !isMapFrame(frameID) {
		return math3d.IdentityPose, newFrameError(kindTransform, world, frameID, nil)
	}

	p, err := f.robot.FrameTransform(frameID)
	if err != nil {
		return math3d.IdentityPose, newFrameError(kindTransform, world, frameID, err)
	}

	return p, nil
}

// AvailableFrameTransforms returns the map frames which currently have a
// transform from the world frame.
func (f *Frames) AvailableFrameTransforms() []string {
	frames := []string{}
	for _, id := range []string{MapFrameID, MapGAFrameID} {
		if _, err := f.robot.FrameTransform(id); err == nil {
			frames = append(frames, id)
		}
	}

	return frames
}

// TransformPosition expresses a position given in the input frame in the output
// frame.
func (f *Frames) TransformPosition(inputFrameID, outputFrameID string, position math3d.Vector3) (math3d.Vector3, error) {
	world := f.WorldFrameID()
	fail := func(err error) (math3d.Vector3, error) {
		log.Debugf("can't transform position from %q to %q: %v", inputFrameID, outputFrameID, err)
		return math3d.ZeroVector3, newFrameError(kindPosition, inputFrameID, outputFrameID, err)
	}

	switch {
	case inputFrameID == outputFrameID && f.FrameIDExists(inputFrameID):
		return position, nil

	case inputFrameID == BaseFrameID && outputFrameID == world:
		return f.BasePoseInWorld().Transform(position), nil

	case inputFrameID == world && outputFrameID == BaseFrameID:
		return f.BasePoseInWorld().InverseTransform(position), nil

	case inputFrameID == world && isMapFrame(outputFrameID):
		t, err := f.robot.FrameTransform(outputFrameID)
		if err != nil {
			return fail(err)
		}
		return t.InverseTransform(position), nil

	case isMapFrame(inputFrameID) && outputFrameID == world:
		t, err := f.robot.FrameTransform(inputFrameID)
		if err != nil {
			return fail(err)
		}
		return t.Transform(position), nil

	// No direct edge; go via the world frame.
	case inputFrameID == BaseFrameID && isMapFrame(outputFrameID):
		t, err := f.robot.FrameTransform(outputFrameID)
		if err != nil {
			return fail(err)
		}
		return t.InverseTransform(f.BasePoseInWorld().Transform(position)), nil

	case isMapFrame(inputFrameID) && outputFrameID == BaseFrameID:
		t, err := f.robot.FrameTransform(inputFrameID)
		if err != nil {
			return fail(err)
		}
		return f.BasePoseInWorld().InverseTransform(t.Transform(position)), nil
	}

	return fail(nil)
}

// TransformOrientation expresses an orientation given in the input frame in the
// output frame. Only the world and map frames are supported; the base frame is
// not valid at either end.
func (f *Frames) TransformOrientation(inputFrameID, outputFrameID string, orientation math3d.Rotation) (math3d.Rotation, error) {
	world := f.WorldFrameID()
	fail := func(err error) (math3d.Rotation, error) {
		log.Debugf("can't transform orientation from %q to %q: %v", inputFrameID, outputFrameID, err)
		return math3d.IdentityRotation, newFrameError(kindOrientation, inputFrameID, outputFrameID, err)
	}

	switch {
	case inputFrameID == world && outputFrameID == world:
		return orientation, nil

	case inputFrameID == world && isMapFrame(outputFrameID):
		t, err := f.robot.FrameTransform(outputFrameID)
		if err != nil {
			return fail(err)
		}
		return t.Rotation.Inverted().Multiply(orientation), nil

	case isMapFrame(inputFrameID) && outputFrameID == world:
		t, err := f.robot.FrameTransform(inputFrameID)
		if err != nil {
			return fail(err)
		}
		return t.Rotation.Multiply(orientation), nil
	}

	return fail(nil)
}

// TransformPose transforms the position and orientation of the pose
// independently.
func (f *Frames) TransformPose(inputFrameID, outputFrameID string, pose math3d.Pose) (math3d.Pose, error) {
	p, err := f.TransformPosition(inputFrameID, outputFrameID, pose.Position)
	if err != nil {
		return math3d.IdentityPose, err
	}

	r, err := f.TransformOrientation(inputFrameID, outputFrameID, pose.Rotation)
	if err != nil {
		return math3d.IdentityPose, err
	}

	return math3d.MakePose(p, r), nil
}
