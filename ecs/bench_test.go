package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/archecs/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	r := newTestRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkSpawnWithMultipleComponents(b *testing.B) {
	r := newTestRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Spawn(
			Position{X: 1.0, Y: 2.0},
			Velocity{DX: 0.5, DY: 0.5},
			Health{Current: 100, Max: 100},
			Name{Value: "Entity"},
		)
	}
}

func BenchmarkDelete(b *testing.B) {
	r := newTestRegistry()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = r.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Destroy(ids[i])
	}
}

func BenchmarkGetComponent(b *testing.B) {
	r := newTestRegistry()

	id := r.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ecs.Get[Position](r, id)
	}
}

func BenchmarkAddComponent(b *testing.B) {
	r := newTestRegistry()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = r.Spawn(Position{X: 1.0, Y: 2.0})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.AddDynamic(r, ids[i], Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkRemoveComponent(b *testing.B) {
	r := newTestRegistry()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = r.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.RemoveDynamic(r, ids[i], reflect.TypeOf(Velocity{}))
	}
}

func BenchmarkViewFill(b *testing.B) {
	r := newTestRegistry()

	type PosVel struct {
		*Position
		*Velocity
	}

	view := ecs.NewView[PosVel](r)
	id := r.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var pv PosVel
		view.Fill(id, &pv)
	}
}

func BenchmarkViewGet(b *testing.B) {
	r := newTestRegistry()

	type PosVel struct {
		*Position
		*Velocity
	}

	view := ecs.NewView[PosVel](r)
	id := r.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = view.Get(id)
	}
}

func BenchmarkViewIter(b *testing.B) {
	r := newTestRegistry()

	type PosVel struct {
		*Position
		*Velocity
	}

	for i := 0; i < 1000; i++ {
		r.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
	}

	view := ecs.NewView[PosVel](r)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, pv := range view.Iter() {
			_ = pv
		}
	}
}

func BenchmarkViewIterLarge(b *testing.B) {
	r := newTestRegistry()

	type PosVel struct {
		*Position
		*Velocity
	}

	for i := 0; i < 10000; i++ {
		r.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
	}

	view := ecs.NewView[PosVel](r)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, pv := range view.Iter() {
			_ = pv
		}
	}
}

func BenchmarkMixedOperations(b *testing.B) {
	r := newTestRegistry()

	type PosVel struct {
		*Position
		*Velocity
	}

	view := ecs.NewView[PosVel](r)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := r.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
		_, _ = ecs.Get[Position](r, id)
		_ = ecs.AddDynamic(r, id, Health{Current: 100, Max: 100})
		_ = view.Get(id)
		_ = r.Destroy(id)
	}
}

func BenchmarkQueryIter(b *testing.B) {
	r := newTestRegistry()

	type PosVel struct {
		*Position
		*Velocity
	}

	for i := 0; i < 1000; i++ {
		r.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
	}

	query := ecs.NewQuery[PosVel](r)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Execute()
		for _, pv := range query.Iter() {
			_ = pv
		}
	}
}

func BenchmarkQueryIterLarge(b *testing.B) {
	r := newTestRegistry()

	type PosVel struct {
		*Position
		*Velocity
	}

	for i := 0; i < 10000; i++ {
		r.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
	}

	query := ecs.NewQuery[PosVel](r)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Execute()
		for _, pv := range query.Iter() {
			_ = pv
		}
	}
}

type benchMovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *benchMovementSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Values() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type benchHealthSystem struct {
	Entities ecs.Query[struct {
		*Health
	}]
}

func (s *benchHealthSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Values() {
		if item.Health.Current < item.Health.Max {
			item.Health.Current += int(1.0 * float32(frame.DeltaTime))
		}
	}
}

func BenchmarkSchedulerOnce(b *testing.B) {
	r := newTestRegistry()

	for i := 0; i < 1000; i++ {
		r.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
	}

	scheduler := ecs.NewScheduler(r)
	scheduler.Register(&benchMovementSystem{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scheduler.Once(0.016)
	}
}

func BenchmarkSchedulerMultipleSystems(b *testing.B) {
	r := newTestRegistry()

	for i := 0; i < 1000; i++ {
		r.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5}, Health{Current: 50, Max: 100})
	}

	scheduler := ecs.NewScheduler(r)
	scheduler.Register(&benchMovementSystem{})
	scheduler.Register(&benchHealthSystem{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scheduler.Once(0.016)
	}
}
