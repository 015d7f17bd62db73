package main

import "github.com/plus3/archecs/ecs"

// MovementSystem advances Position by Velocity every tick. The widest
// query in the benchmark: it matches every moving entity regardless of
// what else they carry.
type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for entity := range s.Entities.Values() {
		entity.Position.X += entity.Velocity.DX * dt
		entity.Position.Y += entity.Velocity.DY * dt
	}
}

// RegenSystem heals damaged entities a little every tick.
type RegenSystem struct {
	Entities ecs.Query[struct {
		*Health
	}]
	RegenPerSecond int
}

func (s *RegenSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Values() {
		if entity.Health.Current >= entity.Health.Max {
			continue
		}
		entity.Health.Current += int(float64(s.RegenPerSecond) * frame.DeltaTime)
		if entity.Health.Current > entity.Health.Max {
			entity.Health.Current = entity.Health.Max
		}
	}
}

// AISystem ticks a think timer and flips a tiny state machine, standing
// in for whatever per-entity decision logic a real game would run here.
type AISystem struct {
	Entities ecs.Query[struct {
		*AI
		*Velocity
	}]
}

func (s *AISystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for entity := range s.Entities.Values() {
		entity.AI.ThinkTimer -= dt
		if entity.AI.ThinkTimer > 0 {
			continue
		}
		entity.AI.ThinkTimer = 1.0
		entity.AI.State = (entity.AI.State + 1) % 4
		switch entity.AI.State {
		case 0:
			entity.Velocity.DX, entity.Velocity.DY = 1, 0
		case 1:
			entity.Velocity.DX, entity.Velocity.DY = 0, 1
		case 2:
			entity.Velocity.DX, entity.Velocity.DY = -1, 0
		case 3:
			entity.Velocity.DX, entity.Velocity.DY = 0, -1
		}
	}
}

// DecaySystem counts down a lifetime and defers destruction, exercising
// structural mutation (the archetype graph shrinking entities back out)
// alongside the steady-state queries above.
type DecaySystem struct {
	Entities ecs.Query[struct {
		Id ecs.EntityId
		*Decay
	}]
}

func (s *DecaySystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for entity := range s.Entities.Values() {
		entity.Decay.TimeToLive -= dt
		if entity.Decay.TimeToLive <= 0 {
			frame.Commands.Delete(entity.Id)
		}
	}
}

// SpawnerSystem queues perTick new random entities every tick, so the
// population keeps receiving fresh entities while DecaySystem removes
// others. The spawn count does not depend on how many entities were
// removed, so the entity count is not held steady.
type SpawnerSystem struct {
	rng      *rng
	perTick  int
	spawnedN int
}

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	for i := 0; i < s.perTick; i++ {
		s.spawnedN++
		frame.Commands.Spawn(randomEntity(s.rng, s.spawnedN)...)
	}
}
