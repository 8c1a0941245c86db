package main

import (
	"fmt"
	"math"

	"github.com/phanxgames/fabrik"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// curve is the distance trace of one solve.
type curve struct {
	Target r3.Vec
	Result fabrik.Result
	Points plotter.XYs
}

// sweepTargets returns n targets on a circle in the leg's YZ plane, centred
// between the hip and the rest end effector, with a radius of a third of the
// leg's reach.
func sweepTargets(leg *fabrik.Leg, n int) []r3.Vec {
	if n < 1 {
		return nil
	}
	hip := leg.Joints()[0].Position
	foot := leg.RestEndEffector()
	centre := r3.Scale(0.5, r3.Add(hip, foot))
	radius := fabrik.ChainLength(leg.Cache().Joints()) / 3

	out := make([]r3.Vec, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = r3.Add(centre, r3.Vec{Y: radius * math.Cos(a), Z: radius * math.Sin(a)})
	}
	return out
}

// convergenceCurves solves leg toward each target from rest and records the
// distance after every pass. Pass 0 is the rest distance.
func convergenceCurves(leg *fabrik.Leg, s *fabrik.Solver, targets []r3.Vec) ([]curve, error) {
	curves := make([]curve, 0, len(targets))
	opts := leg.Options
	defer func() { leg.Options = opts }()

	for _, target := range targets {
		c := curve{Target: target}
		c.Points = append(c.Points, plotter.XY{X: 0, Y: r3.Norm(r3.Sub(leg.RestEndEffector(), target))})
		leg.Options.OnIteration = func(iteration int, distance float64) {
			c.Points = append(c.Points, plotter.XY{X: float64(iteration), Y: distance})
		}
		leg.Target = target
		res, err := leg.Solve(s)
		if err != nil {
			return nil, err
		}
		c.Result = res
		curves = append(curves, c)
	}
	return curves, nil
}

// savePlot draws one line per curve and writes the plot to file.
func savePlot(title string, curves []curve, file string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Pass"
	p.Y.Label.Text = "Distance to target"

	for i, c := range curves {
		if len(c.Points) < 2 {
			continue
		}
		line, err := plotter.NewLine(c.Points)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)

		label := fmt.Sprintf("(%.2f, %.2f)", c.Target.Y, c.Target.Z)
		if !c.Result.Converged {
			label += " *"
		}
		p.Legend.Add(label, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save plot %s: %w", file, err)
	}
	return nil
}
