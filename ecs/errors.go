package ecs

import "fmt"

// InvalidEntityError is returned when an entity id refers to an out-of-range
// slot, the reserved slot 0, or a slot whose stored generation no longer
// matches the id's generation (a stale reference).
type InvalidEntityError struct {
	Entity EntityId
}

func (e InvalidEntityError) Error() string {
	return fmt.Sprintf("ecs: invalid entity %v", e.Entity)
}

// AlreadyHasError is returned by Add when the entity already carries the component.
type AlreadyHasError struct {
	Entity    EntityId
	Component ComponentID
}

func (e AlreadyHasError) Error() string {
	return fmt.Sprintf("ecs: entity %v already has component %v", e.Entity, e.Component)
}

// MissingComponentError is returned by Remove/Update/Get when the entity lacks the component.
type MissingComponentError struct {
	Entity    EntityId
	Component ComponentID
}

func (e MissingComponentError) Error() string {
	return fmt.Sprintf("ecs: entity %v has no component %v", e.Entity, e.Component)
}

// OutOfBoundsError is returned when a row index is past the end of an archetype.
type OutOfBoundsError struct {
	Row, Len int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("ecs: row %d out of bounds (len %d)", e.Row, e.Len)
}

// MissingEdgeError is returned by Archetype.GetPlus/GetMinus when the edge has not been installed.
type MissingEdgeError struct {
	From      ArchetypeID
	Component ComponentID
	Direction string
}

func (e MissingEdgeError) Error() string {
	return fmt.Sprintf("ecs: archetype %v has no %s edge for component %v", e.From, e.Direction, e.Component)
}

// CapacityExceededError is returned by the component-type registrar once more
// than Config.MaxComponentTypes distinct types have been registered.
type CapacityExceededError struct {
	Limit int
}

func (e CapacityExceededError) Error() string {
	return fmt.Sprintf("ecs: component type capacity exceeded (limit %d)", e.Limit)
}
