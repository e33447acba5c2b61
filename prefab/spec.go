// Package prefab decodes YAML descriptions of bodies and builds them for a simulation.
package prefab

import (
	"fmt"
	"os"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/physics"
	"gopkg.in/yaml.v3"
)

// Spec is the top level of a prefab file.
type Spec struct {
	Bodies []BodySpec `yaml:"bodies"`
}

// BodySpec describes a single body.
type BodySpec struct {
	Name       string          `yaml:"name"`
	Kind       string          `yaml:"kind"`
	Sensor     bool            `yaml:"sensor"`
	Mass       float32         `yaml:"mass"`
	Controller *ControllerSpec `yaml:"controller"`
	Transform  TransformSpec   `yaml:"transform"`
	Collider   []BoxSpec       `yaml:"collider"`
}

// ControllerSpec holds the controller attributes of a body. Optional limits are left unset when
// absent from the file.
type ControllerSpec struct {
	Mode            string   `yaml:"mode"`
	Acceleration    *float32 `yaml:"acceleration"`
	Damping         *float32 `yaml:"damping"`
	JumpImpulse     *float32 `yaml:"jump_impulse"`
	MaxSlopeDegrees *float32 `yaml:"max_slope_degrees"`
	MaxSpeed        *float32 `yaml:"max_speed"`
	// Groundable defaults to true for controllers.
	Groundable *bool `yaml:"groundable"`
}

type TransformSpec struct {
	Position []float32 `yaml:"position"`
	Scale    []float32 `yaml:"scale"`
	// Yaw rotates the body around the up axis, in degrees.
	Yaw float32 `yaml:"yaw"`
}

type BoxSpec struct {
	Min []float32 `yaml:"min"`
	Max []float32 `yaml:"max"`
}

// Parse decodes a prefab document.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefab: unmarshal: %w", err)
	}
	return &spec, nil
}

// LoadSpec reads and decodes the prefab file at path.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefab: load %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("prefab: %s: %w", path, err)
	}
	return spec, nil
}

// Find returns the body spec with the given name.
func (s *Spec) Find(name string) (BodySpec, bool) {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodySpec{}, false
}

// Build creates the body described by the spec. Controllers take their gravity from the gravity
// passed.
func (s BodySpec) Build(id physics.BodyID, gravity mgl32.Vec3) (*body.Body, error) {
	kind, err := physics.ParseRigidBody(s.Kind)
	if err != nil {
		return nil, fmt.Errorf("prefab: body %q: %w", s.Name, err)
	}
	collider, err := s.collider()
	if err != nil {
		return nil, fmt.Errorf("prefab: body %q: %w", s.Name, err)
	}
	pos, err := vec3(s.Transform.Position, mgl32.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("prefab: body %q: position: %w", s.Name, err)
	}
	scale, err := vec3(s.Transform.Scale, mgl32.Vec3{1, 1, 1})
	if err != nil {
		return nil, fmt.Errorf("prefab: body %q: scale: %w", s.Name, err)
	}

	opts := []body.Option{
		body.WithPosition(pos),
		body.WithScale(scale),
		body.WithSensor(s.Sensor),
	}
	if s.Transform.Yaw != 0 {
		opts = append(opts, body.WithRotation(mgl32.QuatRotate(mgl32.DegToRad(s.Transform.Yaw), mgl32.Vec3{0, 1, 0})))
	}
	if s.Mass > 0 {
		opts = append(opts, body.WithMass(s.Mass))
	}

	if s.Controller == nil {
		return body.New(id, kind, collider, opts...), nil
	}
	if kind != physics.RigidBodyKinematic {
		return nil, fmt.Errorf("prefab: body %q: controllers must be kinematic, got %s", s.Name, kind)
	}
	controllerOpts, err := s.Controller.options()
	if err != nil {
		return nil, fmt.Errorf("prefab: body %q: %w", s.Name, err)
	}
	return body.NewController(id, collider, gravity, append(opts, controllerOpts...)...), nil
}

func (s BodySpec) collider() (physics.Collider, error) {
	if len(s.Collider) == 0 {
		return physics.Collider{}, fmt.Errorf("no collider boxes")
	}
	boxes := make([]cube.BBox, 0, len(s.Collider))
	for i, b := range s.Collider {
		lo, err := vec3(b.Min, mgl32.Vec3{})
		if err != nil {
			return physics.Collider{}, fmt.Errorf("collider box %d min: %w", i, err)
		}
		hi, err := vec3(b.Max, mgl32.Vec3{})
		if err != nil {
			return physics.Collider{}, fmt.Errorf("collider box %d max: %w", i, err)
		}
		if lo.X() >= hi.X() || lo.Y() >= hi.Y() || lo.Z() >= hi.Z() {
			return physics.Collider{}, fmt.Errorf("collider box %d is empty", i)
		}
		boxes = append(boxes, cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z()))
	}
	return physics.Collider{Boxes: boxes}, nil
}

func (c *ControllerSpec) options() ([]body.Option, error) {
	mode, err := body.ParseControllerMode(c.Mode)
	if err != nil {
		return nil, err
	}
	opts := []body.Option{body.WithMode(mode)}
	if c.Acceleration != nil {
		opts = append(opts, body.WithAcceleration(*c.Acceleration))
	}
	if c.Damping != nil {
		opts = append(opts, body.WithDamping(*c.Damping))
	}
	if c.JumpImpulse != nil {
		opts = append(opts, body.WithJumpImpulse(*c.JumpImpulse))
	}
	if c.MaxSlopeDegrees != nil {
		if *c.MaxSlopeDegrees < 0 || *c.MaxSlopeDegrees > 90 {
			return nil, fmt.Errorf("max slope %v out of range [0, 90]", *c.MaxSlopeDegrees)
		}
		opts = append(opts, body.WithMaxSlopeAngle(mgl32.DegToRad(*c.MaxSlopeDegrees)))
	}
	if c.MaxSpeed != nil {
		if *c.MaxSpeed < 0 {
			return nil, fmt.Errorf("negative max speed %v", *c.MaxSpeed)
		}
		opts = append(opts, body.WithMaxMovementSpeed(*c.MaxSpeed))
	}
	if c.Groundable != nil {
		opts = append(opts, body.WithGroundable(*c.Groundable))
	}
	return opts, nil
}

func vec3(v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(v))
}
