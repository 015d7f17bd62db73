package ecs_test

import "github.com/plus3/archecs/ecs"

// Common test component types.
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type AI struct {
	State int
}

// Custom primitive types for testing non-struct components.
type Score int32
type Tag string
type Temperature float64

type TestA string
type TestB string

type AIPointer struct {
	Target *Position
}
type Inventory struct {
	Items []string
}
type Stats struct {
	Attributes map[string]int
}
type Target struct {
	Enemy *Name
}
type Link struct {
	Next *Position
}
type Inner struct {
	Value int
}
type Outer struct {
	Data *Inner
	List []*Inner
}
type RefComponent struct {
	Ref *Position
}

func newTestRegistry() *ecs.Registry {
	return ecs.NewRegistry()
}
