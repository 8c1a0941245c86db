package fabrik

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultRigPath is the path to the rig shipped with the repository.
const DefaultRigPath = "config/rig.defaults.json"

// maxRigFileSize caps the size of rig files read by LoadRigConfig.
const maxRigFileSize = 1 * 1024 * 1024

// RigConfig describes a set of legs and how to solve them. Optional fields
// are pointers; the Get* methods fall back to defaults for omitted values.
type RigConfig struct {
	Iterations       *int        `json:"iterations,omitempty"`
	Tolerance        *float64    `json:"tolerance,omitempty"`
	ConstrainForward *bool       `json:"constrain_forward,omitempty"`
	Step             *StepTuning `json:"step,omitempty"`
	Legs             []LegConfig `json:"legs"`
}

// StepTuning is the JSON form of StepConfig.
type StepTuning struct {
	Height      *float64 `json:"height,omitempty"`
	Length      *float64 `json:"length,omitempty"`
	Interval    *float64 `json:"interval,omitempty"` // seconds
	ArcFraction *float64 `json:"arc_fraction,omitempty"`
}

// LegConfig describes one chain. Bounds is indexed by joint like the solver's
// bounds; it may be empty for a free chain.
type LegConfig struct {
	Name   string        `json:"name"`
	Joints []JointConfig `json:"joints"`
	Bounds []BoundConfig `json:"bounds,omitempty"`
	Target *[3]float64   `json:"target,omitempty"` // defaults to the rest end effector
}

// JointConfig is a joint's rest transform. Rotation is a unit quaternion in
// w, x, y, z order and defaults to identity.
type JointConfig struct {
	Name     string      `json:"name"`
	Position [3]float64  `json:"position"`
	Rotation *[4]float64 `json:"rotation,omitempty"`
}

// BoundConfig is the six-scalar JSON form of ConstraintBound, in degrees.
type BoundConfig struct {
	XPos float64 `json:"x_pos"`
	XNeg float64 `json:"x_neg"`
	YPos float64 `json:"y_pos"`
	YNeg float64 `json:"y_neg"`
	ZPos float64 `json:"z_pos"`
	ZNeg float64 `json:"z_neg"`
}

// Bound converts the config to a ConstraintBound.
func (b BoundConfig) Bound() ConstraintBound {
	return NewConstraintBound(b.XPos, b.XNeg, b.YPos, b.YNeg, b.ZPos, b.ZNeg)
}

// LoadRigConfig loads and validates a RigConfig from a JSON file.
func LoadRigConfig(path string) (*RigConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("rig file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat rig file: %w", err)
	}
	if fileInfo.Size() > maxRigFileSize {
		return nil, fmt.Errorf("rig file too large: %d bytes (max %d)", fileInfo.Size(), maxRigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rig file: %w", err)
	}
	return ParseRigConfig(data)
}

// ParseRigConfig decodes and validates a RigConfig from JSON.
func ParseRigConfig(data []byte) (*RigConfig, error) {
	cfg := &RigConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rig JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rig: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultRig loads DefaultRigPath, searching the current directory
// and its parents. Panics if the file cannot be loaded; intended for tools and
// test setup.
func MustLoadDefaultRig() *RigConfig {
	candidates := []string{
		DefaultRigPath,
		"../" + DefaultRigPath,
		"../../" + DefaultRigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadRigConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultRigPath + " - run from repository root")
}

// Validate checks the config for values the solver would reject.
func (c *RigConfig) Validate() error {
	if c.Iterations != nil && *c.Iterations < 0 {
		return fmt.Errorf("iterations %d: %w", *c.Iterations, ErrInvalidBudget)
	}
	if c.Tolerance != nil && *c.Tolerance < 0 {
		return fmt.Errorf("tolerance %v: %w", *c.Tolerance, ErrInvalidBudget)
	}
	if s := c.Step; s != nil {
		if s.ArcFraction != nil && (*s.ArcFraction <= 0 || *s.ArcFraction > 1) {
			return fmt.Errorf("step arc_fraction %v must be in (0, 1]", *s.ArcFraction)
		}
		if s.Interval != nil && *s.Interval <= 0 {
			return fmt.Errorf("step interval %v must be positive", *s.Interval)
		}
	}
	if len(c.Legs) == 0 {
		return errors.New("rig has no legs")
	}

	names := make(map[string]bool, len(c.Legs))
	for i, leg := range c.Legs {
		if leg.Name == "" {
			return fmt.Errorf("leg %d has no name", i)
		}
		if names[leg.Name] {
			return fmt.Errorf("duplicate leg name %q", leg.Name)
		}
		names[leg.Name] = true

		if len(leg.Joints) < 2 {
			return fmt.Errorf("leg %q: %d joints: %w", leg.Name, len(leg.Joints), ErrChainTooShort)
		}
		if len(leg.Bounds) > 0 && len(leg.Bounds) < len(leg.Joints)-1 {
			return fmt.Errorf("leg %q: %d bounds for %d links: %w",
				leg.Name, len(leg.Bounds), len(leg.Joints)-1, ErrBoundsMismatch)
		}
		for j, b := range leg.Bounds {
			if err := b.Bound().Validate(); err != nil {
				return fmt.Errorf("leg %q bound %d: %w", leg.Name, j, err)
			}
		}
		for j := 1; j < len(leg.Joints); j++ {
			a := vecFromArray(leg.Joints[j-1].Position)
			b := vecFromArray(leg.Joints[j].Position)
			if l := r3.Norm(r3.Sub(b, a)); !(l >= MinLinkLength) {
				return fmt.Errorf("leg %q link %d: %w", leg.Name, j-1, ErrDegenerateLink)
			}
		}
	}
	return nil
}

// GetIterations returns the relaxation budget. Omitted or 0 means
// LegIterations.
func (c *RigConfig) GetIterations() int {
	if c.Iterations == nil || *c.Iterations == 0 {
		return LegIterations
	}
	return *c.Iterations
}

// GetTolerance returns the convergence distance (default DefaultTolerance).
func (c *RigConfig) GetTolerance() float64 {
	if c.Tolerance == nil {
		return DefaultTolerance
	}
	return *c.Tolerance
}

// GetConstrainForward returns whether the forward pass clamps (default false).
func (c *RigConfig) GetConstrainForward() bool {
	if c.ConstrainForward == nil {
		return false
	}
	return *c.ConstrainForward
}

// SolveOptions returns the solver options described by the config.
func (c *RigConfig) SolveOptions() SolveOptions {
	return SolveOptions{
		Iterations:       c.GetIterations(),
		Tolerance:        c.GetTolerance(),
		ConstrainForward: c.GetConstrainForward(),
	}
}

// GetStepConfig returns the gait step shape, with defaults for omitted fields.
func (c *RigConfig) GetStepConfig() StepConfig {
	var sc StepConfig
	if s := c.Step; s != nil {
		if s.Height != nil {
			sc.Height = *s.Height
		}
		if s.Length != nil {
			sc.Length = *s.Length
		}
		if s.Interval != nil {
			sc.Interval = float32(*s.Interval)
		}
		if s.ArcFraction != nil {
			sc.ArcFraction = *s.ArcFraction
		}
	}
	return sc.withDefaults()
}

// BuildLegs creates a Leg per LegConfig, in file order.
func (c *RigConfig) BuildLegs() ([]*Leg, error) {
	opts := c.SolveOptions()
	legs := make([]*Leg, 0, len(c.Legs))
	for _, lc := range c.Legs {
		joints := make([]Joint, len(lc.Joints))
		for i, jc := range lc.Joints {
			joints[i] = NewJoint(jc.Name, vecFromArray(jc.Position))
			if jc.Rotation != nil {
				r := jc.Rotation
				q := quat.Number{Real: r[0], Imag: r[1], Jmag: r[2], Kmag: r[3]}
				if abs := quat.Abs(q); abs > 0 {
					q = quat.Scale(1/abs, q)
				}
				joints[i].Rotation = q
			}
		}
		var bounds []ConstraintBound
		if len(lc.Bounds) > 0 {
			bounds = make([]ConstraintBound, len(lc.Bounds))
			for i, b := range lc.Bounds {
				bounds[i] = b.Bound()
			}
		}
		leg, err := NewLeg(lc.Name, joints, bounds)
		if err != nil {
			return nil, err
		}
		leg.Options = opts
		if lc.Target != nil {
			leg.Target = vecFromArray(*lc.Target)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

func vecFromArray(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
