package ecs

import (
	"github.com/phanxgames/fabrik"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// LegData holds the leg an entity drives.
type LegData struct {
	Leg *fabrik.Leg
}

// TargetData is an optional per-entity target. When present, SolveSystem
// copies it onto the leg before solving.
type TargetData struct {
	Point r3.Vec
}

// LegComponent is the Donburi component for fabrik legs.
var LegComponent = donburi.NewComponentType[LegData]()

// TargetComponent is the Donburi component for leg targets.
var TargetComponent = donburi.NewComponentType[TargetData]()

// SolveEvent reports the outcome of solving one entity's leg.
type SolveEvent struct {
	Entity donburi.Entity
	Leg    string
	Result fabrik.Result
	Err    error
}

// SolveEventType is the Donburi event type for solve results.
var SolveEventType = events.NewEventType[SolveEvent]()

// AddLeg creates an entity carrying leg and returns it.
func AddLeg(world donburi.World, leg *fabrik.Leg) donburi.Entity {
	entity := world.Create(LegComponent)
	LegComponent.SetValue(world.Entry(entity), LegData{Leg: leg})
	return entity
}

// AddLegWithTarget creates an entity carrying leg and a TargetComponent
// initialized to the leg's current target.
func AddLegWithTarget(world donburi.World, leg *fabrik.Leg) donburi.Entity {
	entity := world.Create(LegComponent, TargetComponent)
	entry := world.Entry(entity)
	LegComponent.SetValue(entry, LegData{Leg: leg})
	TargetComponent.SetValue(entry, TargetData{Point: leg.Target})
	return entity
}

// SolveSystem solves every entity with a LegComponent. It owns one Solver and
// is meant to run on the world's update goroutine.
type SolveSystem struct {
	solver *fabrik.Solver
	query  *donburi.Query
}

// NewSolveSystem creates a system with its own solver.
func NewSolveSystem() *SolveSystem {
	return &SolveSystem{
		solver: fabrik.NewSolver(),
		query:  donburi.NewQuery(filter.Contains(LegComponent)),
	}
}

// Solver returns the system's solver, e.g. to enable debug output.
func (s *SolveSystem) Solver() *fabrik.Solver {
	return s.solver
}

// Update solves each leg and publishes a SolveEvent for it. Events are queued;
// process them with SolveEventType.ProcessEvents or events.ProcessAllEvents.
func (s *SolveSystem) Update(world donburi.World) {
	s.query.Each(world, func(entry *donburi.Entry) {
		leg := LegComponent.Get(entry).Leg
		if leg == nil {
			return
		}
		if entry.HasComponent(TargetComponent) {
			leg.Target = TargetComponent.Get(entry).Point
		}
		res, err := leg.Solve(s.solver)
		SolveEventType.Publish(world, SolveEvent{
			Entity: entry.Entity(),
			Leg:    leg.Name,
			Result: res,
			Err:    err,
		})
	})
}
