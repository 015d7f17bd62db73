package ecs

import (
	"log/slog"
	"reflect"
)

// Commands buffers structural operations issued by a system during
// Scheduler.Once so they apply after every system has run, rather than
// mutating archetypes mid-frame.
//
// EntityId never changes value across a structural transition in this
// design (unlike an id that encodes archetype+row), so unlike a storage
// keyed by such an id, Flush needs no id-rewrite bookkeeping between
// queued operations.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues an arbitrary function to run after structural commands are
// applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues creation of a new entity carrying components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues destruction of entity.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues attaching component to entity.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues detaching the component of type compType from
// entity.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, compType: compType})
}

// Flush applies every queued operation to registry, in the order
// deletes, removes, adds, spawns, defers, then resets the buffer. A failed
// operation (e.g. a double-add, or an entity deleted earlier in the same
// flush) is logged and skipped rather than aborting the rest of the batch.
func (c *Commands) Flush(registry *Registry) {
	for _, entity := range c.deletes {
		if err := registry.Destroy(entity); err != nil {
			slog.Warn("commands: deferred delete failed", "entity", entity, "error", err)
		}
	}

	for _, cmd := range c.removes {
		if err := registry.removeDynamic(cmd.entity, cmd.compType); err != nil {
			slog.Warn("commands: deferred remove failed", "entity", cmd.entity, "error", err)
		}
	}

	for _, cmd := range c.adds {
		if err := registry.addDynamic(cmd.entity, cmd.component); err != nil {
			slog.Warn("commands: deferred add failed", "entity", cmd.entity, "error", err)
		}
	}

	for _, cmd := range c.spawns {
		entity := registry.Create()
		for _, component := range cmd.components {
			if err := registry.addDynamic(entity, component); err != nil {
				slog.Warn("commands: deferred spawn component failed", "entity", entity, "error", err)
			}
		}
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
