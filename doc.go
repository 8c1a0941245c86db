// Package fabrik is a real-time inverse kinematics solver for articulated
// limbs such as legs and arms.
//
// It implements FABRIK (Forward And Backward Reaching Inverse Kinematics) over
// a chain of [Joint] values with per-joint angle limits, a straight-line
// fallback for targets out of reach, and an explicit convergence result.
// Vectors and rotations are [gonum] r3.Vec and quat.Number values.
//
// # Quick start
//
// Build a chain, capture its rest pose, and solve every frame:
//
//	joints := fabrik.NewStraightChain(r3.Vec{}, r3.Vec{Z: 1}, 1, 1)
//	cache, _ := fabrik.NewPoseCache(joints)
//	solver := fabrik.NewSolver()
//
//	// each frame:
//	cache.RestoreDefaults()
//	res, err := solver.Solve(joints, target, nil, fabrik.SolveOptions{Iterations: 30})
//	if err != nil { ... }
//	if !res.Converged { ... best effort pose ... }
//
// [Leg] bundles the joints, the [PoseCache], the bounds and the target so the
// restore-then-solve order cannot be skipped:
//
//	leg, _ := fabrik.NewLeg("left", joints, bounds)
//	leg.Target = r3.Vec{Y: -0.9, Z: 0.2}
//	leg.Solve(solver)
//
// # Rest pose
//
// The solver measures link lengths, rest directions and constraint angles from
// the pose it is handed, and composes rotations onto the current ones. Always
// restore the rest pose (PoseCache.RestoreDefaults or Leg.Solve) before a
// solve, or floating-point error accumulates across frames.
//
// # Constraints
//
// A [ConstraintBound] limits a link's deviation from its rest direction about
// each axis of the chain's parent frame, in degrees. The backward pass clamps
// every link; set SolveOptions.ConstrainForward to also clamp on the forward
// pass so a reachable solve commits a pose within the bounds.
//
// # Concurrency
//
// A [Solver] owns its scratch buffers and is not safe for concurrent use. Keep
// one per goroutine or check them out of a [SolverPool].
//
// # Animation helpers
//
// [Gait] alternates steps between two legs along an arc-and-slide foot path,
// [TweenGroup] tweens targets (via [gween]), and [ReplayRunner] plays back
// scripted target moves. Rigs can be loaded from JSON with [LoadRigConfig].
// An ECS adapter for [Donburi] lives in fabrik/ecs.
//
// [gonum]: https://www.gonum.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package fabrik
