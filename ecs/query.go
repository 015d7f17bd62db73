package ecs

import (
	"iter"
	"unsafe"
)

// Query wraps a View with per-frame caching: it remembers which archetypes
// match, rebuilding that list only when the registry has materialized new
// archetypes since the last Execute, and snapshots entities/components into
// flat slices so Iter/Values can replay them cheaply within a frame.
type Query[T any] struct {
	view               *View[T]
	registry           *Registry
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query with archetype-level caching.
func NewQuery[T any](registry *Registry) *Query[T] {
	return &Query[T]{
		view:               NewView[T](registry),
		registry:           registry,
		lastArchetypeCount: -1,
	}
}

// Init re-initializes the Query against registry. Called by the Scheduler
// during system registration.
func (q *Query[T]) Init(registry *Registry) {
	q.view = NewView[T](registry)
	q.registry = registry
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute (re)builds the entity and component snapshot for this frame.
// Called automatically by the Scheduler before systems run.
func (q *Query[T]) Execute() {
	q.invalidateIfNeeded()
	q.ensureArchetypeCache()

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	for _, a := range q.cachedArchetypes {
		for id, item := range q.iterArchetype(a) {
			q.cachedEntities = append(q.cachedEntities, id)
			q.cachedComponents = append(q.cachedComponents, item)
		}
	}

	q.cacheValid = true
}

func (q *Query[T]) invalidateIfNeeded() {
	current := q.registry.archetypeCount()
	if current != q.lastArchetypeCount {
		q.cachedArchetypes = nil
		q.lastArchetypeCount = current
	}
}

func (q *Query[T]) ensureArchetypeCache() {
	if q.cachedArchetypes != nil {
		return
	}
	q.cachedArchetypes = make([]*Archetype, 0)
	for _, a := range q.registry.Archetypes() {
		if q.view.matchesArchetype(a) {
			q.cachedArchetypes = append(q.cachedArchetypes, a)
		}
	}
}

func (q *Query[T]) iterArchetype(a *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for row := 0; row < a.Len(); row++ {
			entity, err := a.EntityAt(row)
			if err != nil {
				continue
			}
			var result T
			if !q.view.populate(unsafe.Pointer(&result), a, row, entity) {
				continue
			}
			if !yield(entity, result) {
				return
			}
		}
	}
}

// Iter returns an iterator over entity ids and component data. Panics if
// Execute has not been called this frame.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("ecs: Query.Iter called before Query.Execute")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only. Panics if Execute
// has not been called this frame.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("ecs: Query.Values called before Query.Execute")
	}
	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}
