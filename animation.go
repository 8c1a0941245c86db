package fabrik

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// TweenGroup animates the three components of a target point at once.
// Create one with TweenTarget or TweenLegTarget and call Update(dt) each
// frame; it writes the interpolated point through the bound pointer.
//
// There is no global animation manager. Callers Update their own groups.
type TweenGroup struct {
	tweens [3]*gween.Tween
	target *r3.Vec
	Done   bool
}

// Update advances the tweens by dt seconds and writes the point.
func (g *TweenGroup) Update(dt float32) {
	if g.Done || g.target == nil {
		return
	}
	var v [3]float32
	allDone := true
	for i, tw := range g.tweens {
		val, finished := tw.Update(dt)
		v[i] = val
		if !finished {
			allDone = false
		}
	}
	*g.target = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
	g.Done = allDone
}

// TweenTarget creates a TweenGroup that moves *target to the point to over
// duration seconds using the easing function.
func TweenTarget(target *r3.Vec, to r3.Vec, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := *target
	return &TweenGroup{
		target: target,
		tweens: [3]*gween.Tween{
			gween.New(float32(from.X), float32(to.X), duration, fn),
			gween.New(float32(from.Y), float32(to.Y), duration, fn),
			gween.New(float32(from.Z), float32(to.Z), duration, fn),
		},
	}
}

// TweenLegTarget tweens the target of leg to the point to.
func TweenLegTarget(leg *Leg, to r3.Vec, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenTarget(&leg.Target, to, duration, fn)
}
