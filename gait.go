package fabrik

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// StepConfig shapes the foot path of one step. Distances are in chain units,
// Interval in seconds. Zero fields take the defaults noted on each field.
type StepConfig struct {
	Height      float64        // peak lift of the foot (default 0.25)
	Length      float64        // forward reach of the foot (default 0.30)
	Interval    float32        // duration of one step (default 0.25)
	ArcFraction float64        // share of the step spent swinging, in (0, 1] (default 0.65)
	Ease        ease.TweenFunc // maps time to step progress (default ease.Linear)
}

// DefaultStepConfig returns the step shape the walking rig was tuned with.
func DefaultStepConfig() StepConfig {
	return StepConfig{}.withDefaults()
}

func (c StepConfig) withDefaults() StepConfig {
	if c.Height == 0 {
		c.Height = 0.25
	}
	if c.Length == 0 {
		c.Length = 0.30
	}
	if c.Interval == 0 {
		c.Interval = 0.25
	}
	switch {
	case c.ArcFraction <= 0:
		c.ArcFraction = 0.65
	case c.ArcFraction > 1:
		c.ArcFraction = 1
	}
	if c.Ease == nil {
		c.Ease = ease.Linear
	}
	return c
}

// Offset returns the foot offset from its reference point at the given step
// progress in [0, 1]. The foot first swings forward along a half circle
// (Z forward, Y up) and then slides back to the reference point while planted.
// With ArcFraction 1 the whole step is the swing and it ends Length ahead.
func (c StepConfig) Offset(percent float64) r3.Vec {
	c = c.withDefaults()
	percent = math.Max(0, math.Min(1, percent))
	if percent < c.ArcFraction || c.ArcFraction == 1 {
		half := c.Length / 2
		angle := math.Pi * (1 - percent/c.ArcFraction)
		return r3.Vec{
			Y: math.Sin(angle) * c.Height,
			Z: half + math.Cos(angle)*half,
		}
	}
	slide := 1 - (percent-c.ArcFraction)/(1-c.ArcFraction)
	return r3.Vec{Z: c.Length * slide}
}

// Side names a leg of a biped.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Gait alternates steps between two legs. While walking, each Update advances
// the current step, moves the stepping foot's target along the step path,
// solves that leg and swings the arms against its hip.
type Gait struct {
	Left, Right *Leg
	Config      StepConfig

	// LeftArm and RightArm are the arm rotations for the current frame: the
	// arm opposite the stepping leg copies its hip, the arm on the same side
	// takes the inverse.
	LeftArm, RightArm quat.Number

	solver   *Solver
	refLeft  r3.Vec
	refRight r3.Vec
	current  Side
	stepping bool
	phase    *gween.Tween
	debug    bool
}

// NewGait creates a gait over two legs. The legs' current targets become the
// reference foot positions. The first step is taken by the left leg.
func NewGait(left, right *Leg, cfg StepConfig, solver *Solver) *Gait {
	return &Gait{
		Left:     left,
		Right:    right,
		Config:   cfg.withDefaults(),
		LeftArm:  IdentityRotation,
		RightArm: IdentityRotation,
		solver:   solver,
		refLeft:  left.Target,
		refRight: right.Target,
		current:  SideRight,
	}
}

// SetDebug enables foot-switch logging through Logf.
func (g *Gait) SetDebug(enabled bool) {
	g.debug = enabled
}

// Stepping reports whether a step is in progress.
func (g *Gait) Stepping() bool {
	return g.stepping
}

// Current returns the side of the step in progress, or of the last step.
func (g *Gait) Current() Side {
	return g.current
}

// Update advances the gait by dt seconds. When walking is false nothing moves
// and no leg is solved, but a step in progress resumes on the next walking
// frame.
func (g *Gait) Update(dt float32, walking bool) error {
	if !walking {
		return nil
	}
	if !g.stepping {
		if g.current == SideLeft {
			g.current = SideRight
		} else {
			g.current = SideLeft
		}
		g.stepping = true
		g.phase = gween.New(0, 1, g.Config.Interval, g.Config.Ease)
		if g.debug {
			Logf("[fabrik] gait: %s step", g.current)
		}
	}

	percent, finished := g.phase.Update(dt)
	if finished {
		percent = 1
		g.stepping = false
	}
	offset := g.Config.Offset(float64(percent))

	leg, ref := g.Left, g.refLeft
	if g.current == SideRight {
		leg, ref = g.Right, g.refRight
	}
	leg.Target = r3.Add(ref, offset)
	if _, err := leg.Solve(g.solver); err != nil {
		return fmt.Errorf("gait %s step: %w", g.current, err)
	}

	hip := leg.Hip()
	if g.current == SideLeft {
		g.RightArm = hip
		g.LeftArm = quat.Inv(hip)
	} else {
		g.LeftArm = hip
		g.RightArm = quat.Inv(hip)
	}
	return nil
}

// Reset cancels any step and returns both foot targets to their reference
// points, as on landing from a jump or fall.
func (g *Gait) Reset() {
	g.stepping = false
	g.phase = nil
	g.Left.Target = g.refLeft
	g.Right.Target = g.refRight
}
