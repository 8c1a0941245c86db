package fabrik

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestLoadReplayScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "target", "x": 0, "y": -1.5, "z": 0.5},
			{"action": "solve", "label": "reach"},
			{"action": "wait", "frames": 3},
			{"action": "tween", "x": 0, "y": -1.2, "z": 0.8, "frames": 4}
		]
	}`)

	runner, err := LoadReplayScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "target" || runner.steps[0].Y != -1.5 || runner.steps[0].Z != 0.5 {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "solve" || runner.steps[1].Label != "reach" {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[3].Action != "tween" || runner.steps[3].Frames != 4 {
		t.Error("step 3 mismatch")
	}
}

func TestLoadReplayScript_Invalid(t *testing.T) {
	if _, err := LoadReplayScript([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadReplayScript_Empty(t *testing.T) {
	if _, err := LoadReplayScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadReplayScript_UnknownAction(t *testing.T) {
	if _, err := LoadReplayScript([]byte(`{"steps": [{"action": "jump"}]}`)); err == nil {
		t.Error("expected error for unknown action")
	}
}

func newReplayLeg(t *testing.T) *Leg {
	t.Helper()
	leg, err := NewLeg("replay", bentLeg(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return leg
}

func TestReplayRunnerFullScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "target", "x": 0, "y": -1.5, "z": 0.5},
			{"action": "solve", "label": "reach"},
			{"action": "tween", "x": 0, "y": -1.2, "z": 0.8, "frames": 5},
			{"action": "solve", "label": "tweened"},
			{"action": "wait", "frames": 2},
			{"action": "reset"},
			{"action": "solve", "label": "rest"}
		]
	}`)
	runner, err := LoadReplayScript(data)
	if err != nil {
		t.Fatal(err)
	}
	leg := newReplayLeg(t)
	s := NewSolver()

	if err := runner.Run(leg, s, 1.0/60, 100); err != nil {
		t.Fatal(err)
	}
	if !runner.Done() {
		t.Fatal("runner should be done")
	}
	if got := len(runner.Snapshots()); got != 3 {
		t.Fatalf("snapshots = %d, want 3", got)
	}

	reach, ok := runner.Snapshot("reach")
	if !ok {
		t.Fatal("missing snapshot reach")
	}
	if reach.Frame != 2 {
		t.Errorf("reach frame = %d, want 2", reach.Frame)
	}
	if !reach.Result.Converged {
		t.Errorf("reach not converged: %+v", reach.Result)
	}
	assertVec(t, "reach target", reach.Target, r3.Vec{Y: -1.5, Z: 0.5})

	// target, solve, tween start, five tween frames, solve.
	tweened, _ := runner.Snapshot("tweened")
	if tweened.Frame != 9 {
		t.Errorf("tweened frame = %d, want 9", tweened.Frame)
	}
	if tweened.Target != (r3.Vec{Y: -1.2, Z: 0.8}) {
		t.Errorf("tweened target = %v, want exact tween end", tweened.Target)
	}

	rest, _ := runner.Snapshot("rest")
	if !rest.Result.Converged {
		t.Errorf("rest not converged: %+v", rest.Result)
	}
	for i, p := range leg.Cache().Rest() {
		assertVec(t, "rest joint", rest.Joints[i].Position, p.Position)
	}
}

func TestReplayRunnerTweenSolvesEveryFrame(t *testing.T) {
	data := []byte(`{"steps": [{"action": "tween", "x": 0, "y": -1.5, "z": 0.5, "frames": 4}]}`)
	runner, err := LoadReplayScript(data)
	if err != nil {
		t.Fatal(err)
	}
	leg := newReplayLeg(t)
	s := NewSolver()

	// Frame 1 starts the tween; frames 2-5 run it.
	if err := runner.Step(leg, s, 0.25); err != nil {
		t.Fatal(err)
	}
	if leg.Last().Iterations != 0 {
		t.Error("tween start should not solve")
	}
	if err := runner.Step(leg, s, 0.25); err != nil {
		t.Fatal(err)
	}
	if leg.Last().Iterations == 0 {
		t.Error("tween frame should solve")
	}
	if leg.Cache().AtRest() {
		t.Error("leg should have moved off rest")
	}
	if err := runner.Run(leg, s, 0.25, 10); err != nil {
		t.Fatal(err)
	}
	if leg.Target != (r3.Vec{Y: -1.5, Z: 0.5}) {
		t.Errorf("target = %v after tween", leg.Target)
	}
}

func TestReplayRunnerRunTimesOut(t *testing.T) {
	runner, err := LoadReplayScript([]byte(`{"steps": [{"action": "wait", "frames": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := runner.Run(newReplayLeg(t), NewSolver(), 1.0/60, 10); err == nil {
		t.Error("expected error when the script outlasts maxFrames")
	}
}

func TestReplayRunnerPropagatesSolveError(t *testing.T) {
	runner, err := LoadReplayScript([]byte(`{"steps": [{"action": "solve", "label": "bad"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	leg := newReplayLeg(t)
	leg.Options.Tolerance = -1
	if err := runner.Step(leg, NewSolver(), 1.0/60); err == nil {
		t.Error("expected solve error")
	}
}
