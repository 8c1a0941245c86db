// Package ecs provides ECS adapters for fabrik.
//
// [LegComponent] attaches a [fabrik.Leg] to a [Donburi] entity and
// [SolveSystem] solves every such leg once per Update, publishing a
// [SolveEvent] per leg. Subscribe to [SolveEventType] in your ECS systems to
// react to solved poses or failures.
//
// Usage:
//
//	entity := ecs.AddLeg(world, leg)
//	system := ecs.NewSolveSystem()
//	// each frame:
//	system.Update(world)
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
