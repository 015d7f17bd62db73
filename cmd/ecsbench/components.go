package main

import "github.com/plus3/archecs/ecs"

// Fixed component set exercising a spread of archetype shapes: plain
// numeric structs, a string field, a fixed-size array, and an entity
// reference, so the benchmark churns the archetype graph the way a real
// game's component set would rather than a single flat table.

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current, Max int
}

type Sprite struct {
	Color [3]uint8
	Layer int
}

type Name string

type Target struct {
	Ref ecs.EntityId
}

type Decay struct {
	TimeToLive float32
}

type AI struct {
	State      int
	ThinkTimer float32
}
