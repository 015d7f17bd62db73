package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton provides efficient access to a single component instance that
// is not attached to any entity. Use it for global state: a clock, a
// config blob, an input snapshot.
type Singleton[T any] struct {
	registry      *Registry
	componentPtr  unsafe.Pointer
	componentType reflect.Type
}

// NewSingleton returns a Singleton accessor for registry, creating the
// backing value (from initializer, or a zero value if omitted) the first
// time T is requested. The singleton is guaranteed to exist after this call.
func NewSingleton[T any](registry *Registry, initializer ...T) *Singleton[T] {
	var zero T
	t := reflect.TypeOf(zero)

	ptr := registry.getSingletonEntry(t)
	if ptr == nil {
		value := zero
		if len(initializer) > 0 {
			value = initializer[0]
		}
		ptr = registry.addSingleton(t, value)
	}

	return &Singleton[T]{registry: registry, componentPtr: ptr, componentType: t}
}

// Init binds s to registry, creating the singleton with a zero value if it
// does not already exist. Called automatically by Scheduler.Register.
func (s *Singleton[T]) Init(registry *Registry) {
	var zero T
	s.registry = registry
	s.componentType = reflect.TypeOf(zero)

	ptr := registry.getSingletonEntry(s.componentType)
	if ptr == nil {
		ptr = registry.addSingleton(s.componentType, zero)
	}
	s.componentPtr = ptr
}

// Get returns a pointer to the singleton value.
func (s *Singleton[T]) Get() *T {
	return (*T)(s.componentPtr)
}

// ReadSingleton sets *out to the existing singleton of type T and reports
// true, or leaves it untouched and reports false if one was never created
// with NewSingleton. Unlike NewSingleton, it never materializes one.
func ReadSingleton[T any](r *Registry, out **T) bool {
	var zero T
	ptr := r.getSingletonEntry(reflect.TypeOf(zero))
	if ptr == nil {
		return false
	}
	*out = (*T)(ptr)
	return true
}
