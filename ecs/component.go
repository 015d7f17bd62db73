package ecs

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
)

// ComponentID is a 64-bit value with exactly one bit set, uniquely
// identifying a component type for the lifetime of the process.
type ComponentID uint64

// Bit returns the 0-63 bit position this id occupies.
func (c ComponentID) Bit() int {
	bit := 0
	for v := uint64(c) >> 1; v != 0; v >>= 1 {
		bit++
	}
	return bit
}

func (c ComponentID) String() string {
	if name, ok := componentRegistrar.nameByID(c); ok {
		return name
	}
	return "component(" + reflect.TypeOf(c).String() + ")"
}

// registrar assigns each distinct component type the next free bit on
// first use. It is process-wide: the id for a given type is stable and
// identical across every *Registry in the process, which only holds for a
// single-module-per-process program.
type registrar struct {
	mu       sync.Mutex
	byType   map[reflect.Type]ComponentID
	byBit    [64]reflect.Type
	newCol   [64]func(capacity int) column
	nextBit  int
}

var componentRegistrar = &registrar{
	byType: make(map[reflect.Type]ComponentID),
}

func (r *registrar) idFor(t reflect.Type, newCol func(capacity int) column) (ComponentID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byType[t]; ok {
		return id, nil
	}

	if r.nextBit >= Config.MaxComponentTypes {
		return 0, CapacityExceededError{Limit: Config.MaxComponentTypes}
	}

	bit := r.nextBit
	r.nextBit++

	id := ComponentID(uint64(1) << bit)
	r.byType[t] = id
	r.byBit[bit] = t
	r.newCol[bit] = newCol

	slog.Debug("component type registered", "type", t.String(), "id", id, "bit", bit)
	if r.nextBit >= Config.ComponentWarnThreshold {
		slog.Warn("approaching component-type capacity", "registered", r.nextBit, "limit", Config.MaxComponentTypes)
	}

	return id, nil
}

func (r *registrar) nameByID(id ComponentID) (string, bool) {
	bit := id.Bit()
	r.mu.Lock()
	defer r.mu.Unlock()
	if bit < 0 || bit >= 64 || r.byBit[bit] == nil {
		return "", false
	}
	return r.byBit[bit].String(), true
}

func (r *registrar) columnFor(id ComponentID, capacity int) column {
	bit := id.Bit()
	r.mu.Lock()
	newCol := r.newCol[bit]
	r.mu.Unlock()
	if newCol == nil {
		panic(bark.AddTrace(fmt.Errorf("ecs: column factory missing for registered component id %s", id)))
	}
	return newCol(capacity)
}

// ComponentIDFor returns the stable, process-wide component id for T,
// assigning the next free bit on first use. Panics with
// CapacityExceededError past the registrar's capacity ceiling — use
// TryComponentID to handle that case.
func ComponentIDFor[T any]() ComponentID {
	id, err := TryComponentID[T]()
	if err != nil {
		panic(err)
	}
	return id
}

// TryComponentID is the non-panicking form of ComponentIDFor: it returns
// CapacityExceededError instead of panicking once the registrar's capacity
// ceiling has been reached.
func TryComponentID[T any]() (ComponentID, error) {
	t := reflect.TypeFor[T]()
	return componentRegistrar.idFor(t, func(capacity int) column {
		return newGenericColumn[T](capacity)
	})
}

// ComponentName returns the registered type's name for id, or "" if id has
// not been assigned by this process.
func ComponentName(id ComponentID) string {
	name, _ := componentRegistrar.nameByID(id)
	return name
}

// ComponentType returns the reflect.Type registered for id, or nil if id has
// not been assigned by this process. Used by ecs/debugui to drive its
// reflection-based component inspector off an archetype's component ids.
func ComponentType(id ComponentID) reflect.Type {
	bit := id.Bit()
	componentRegistrar.mu.Lock()
	defer componentRegistrar.mu.Unlock()
	if bit < 0 || bit >= 64 {
		return nil
	}
	return componentRegistrar.byBit[bit]
}

// tryComponentIDForType resolves the component id for a reflect.Type,
// registering it with a reflection-backed column factory if this is the
// type's first use. View[T] only has a reflect.Type for each of its struct
// fields (the generic parameter T isn't known per-field), so it cannot call
// TryComponentID[T] directly. The reflect-driven registry operations
// (Spawn, AddDynamic, RemoveDynamic, HasDynamic, GetDynamic, and
// Commands.Flush through them) resolve ids here as well; the generic
// Add/Remove/Update/Has/Get functions use TryComponentID instead. A type
// first seen through this path is stored in a reflectColumn.
func tryComponentIDForType(t reflect.Type) (ComponentID, error) {
	return componentRegistrar.idFor(t, newReflectColumn(t))
}
