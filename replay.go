package fabrik

import (
	"encoding/json"
	"fmt"

	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// replayStep represents a single action in a replay script.
type replayStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Z      float64 `json:"z,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// replayScript is the top-level JSON structure for a replay script.
type replayScript struct {
	Steps []replayStep `json:"steps"`
}

// Snapshot is the state of a leg recorded by a "solve" step.
type Snapshot struct {
	Label  string
	Frame  int
	Target r3.Vec
	Result Result
	Joints []Pose
}

// ReplayRunner sequences target moves and solves on a Leg across frames, for
// regression tests and offline tooling. Supported actions:
//
//	target  set the target to (x, y, z)
//	tween   move the target linearly to (x, y, z) over frames, solving each frame
//	solve   solve once and record a Snapshot under label
//	wait    idle for frames
//	reset   restore the rest pose and rest target
type ReplayRunner struct {
	steps     []replayStep
	cursor    int
	waitCount int
	frame     int
	done      bool

	tween     *TweenGroup
	tweenEnd  r3.Vec
	tweenLeft int
	snapshots []Snapshot
}

// LoadReplayScript parses a JSON replay script.
func LoadReplayScript(jsonData []byte) (*ReplayRunner, error) {
	var script replayScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse replay script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse replay script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "target", "tween", "solve", "wait", "reset":
		default:
			return nil, fmt.Errorf("parse replay script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ReplayRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *ReplayRunner) Done() bool {
	return r.done
}

// Snapshots returns the snapshots recorded so far, in order.
func (r *ReplayRunner) Snapshots() []Snapshot {
	return r.snapshots
}

// Snapshot returns the first snapshot recorded under label.
func (r *ReplayRunner) Snapshot(label string) (Snapshot, bool) {
	for _, s := range r.snapshots {
		if s.Label == label {
			return s, true
		}
	}
	return Snapshot{}, false
}

// Step advances the runner by one frame of dt seconds.
func (r *ReplayRunner) Step(leg *Leg, s *Solver, dt float32) error {
	if r.done {
		return nil
	}
	r.frame++

	// Finish the running tween before advancing.
	if r.tween != nil {
		r.tween.Update(dt)
		r.tweenLeft--
		if r.tweenLeft <= 0 {
			// Land exactly on the end point despite float32 tween time.
			leg.Target = r.tweenEnd
			r.tween.Done = true
		}
		if _, err := leg.Solve(s); err != nil {
			return fmt.Errorf("replay tween: %w", err)
		}
		if !r.tween.Done {
			return nil
		}
		r.tween = nil
		r.checkDone()
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.checkDone()
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	point := r3.Vec{X: st.X, Y: st.Y, Z: st.Z}
	switch st.Action {
	case "target":
		leg.Target = point
	case "tween":
		frames := st.Frames
		if frames < 1 {
			frames = 1
		}
		r.tween = TweenLegTarget(leg, point, float32(frames)*dt, ease.Linear)
		r.tweenEnd = point
		r.tweenLeft = frames
	case "solve":
		res, err := leg.Solve(s)
		if err != nil {
			return fmt.Errorf("replay step %d: %w", r.cursor-1, err)
		}
		snap := Snapshot{
			Label:  st.Label,
			Frame:  r.frame,
			Target: leg.Target,
			Result: res,
			Joints: make([]Pose, len(leg.Joints())),
		}
		for i, j := range leg.Joints() {
			snap.Joints[i] = j.Pose()
		}
		r.snapshots = append(r.snapshots, snap)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "reset":
		leg.Reset()
	}
	r.checkDone()
	return nil
}

// checkDone marks the runner done once the last step has fully executed.
func (r *ReplayRunner) checkDone() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.tween == nil {
		r.done = true
	}
}

// Run steps the runner until it is done or maxFrames have elapsed.
func (r *ReplayRunner) Run(leg *Leg, s *Solver, dt float32, maxFrames int) error {
	for i := 0; i < maxFrames && !r.done; i++ {
		if err := r.Step(leg, s, dt); err != nil {
			return err
		}
	}
	if !r.done {
		return fmt.Errorf("replay: not finished after %d frames", maxFrames)
	}
	return nil
}
