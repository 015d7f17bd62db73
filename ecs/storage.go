package ecs

import (
	"errors"
	"log/slog"
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/bark"
	"github.com/kamstrup/intmap"
)

// Registry is the façade: it owns the archetype store, the entity index,
// and the recycle list, and exposes every entity/component operation
// (Create/Destroy/Add/Remove/Update/Has/Get/...). A zero-value Registry is
// not usable; construct one with NewRegistry.
type Registry struct {
	root       *Archetype
	store      *intmap.Map[ArchetypeID, *Archetype]
	index      []indexEntry
	recycle    []EntityId
	singletons map[reflect.Type]unsafe.Pointer
}

type indexEntry struct {
	archetype  *Archetype
	row        uint32
	generation uint8
}

// NewRegistry constructs a registry with the root archetype present and
// slot 0 reserved.
func NewRegistry() *Registry {
	root := newArchetype(0)
	r := &Registry{
		root:  root,
		store: intmap.New[ArchetypeID, *Archetype](64),
		index: make([]indexEntry, 1), // slot 0 reserved, permanently unused
	}
	return r
}

// Archetypes returns every materialized archetype, including the root, in
// unspecified order. Used by View/Query scans and by ecs/debugui.
func (r *Registry) Archetypes() []*Archetype {
	out := make([]*Archetype, 0, r.store.Len()+1)
	out = append(out, r.root)
	r.store.ForEach(func(_ ArchetypeID, a *Archetype) bool {
		out = append(out, a)
		return true
	})
	return out
}

// archetypeCount is a cheap, monotonically-bumped-on-growth count used by
// Query[T] to decide whether its archetype cache needs rebuilding.
func (r *Registry) archetypeCount() int {
	return r.store.Len() + 1
}

// archetypeByID returns the archetype for id, materializing it with empty
// columns for every bit in id if it does not already exist in the store.
func (r *Registry) archetypeByID(id ArchetypeID) *Archetype {
	if id == 0 {
		return r.root
	}
	if existing, ok := r.store.Get(id); ok {
		return existing
	}
	created := newArchetype(id)
	r.store.Put(id, created)
	slog.Debug("archetype materialized", "id", id.String())
	return created
}

// ArchetypeByID returns the archetype already materialized for id, without
// creating one, and reports whether it was found. Used by ecs/debugui to
// look up the archetype an entity belongs to for display.
func (r *Registry) ArchetypeByID(id ArchetypeID) (*Archetype, bool) {
	if id == 0 {
		return r.root, true
	}
	a, ok := r.store.Get(id)
	return a, ok
}

// ensurePlus returns a.plus[c], materializing the destination archetype and
// linking the edge (and its inverse) if the edge is not yet installed.
func (r *Registry) ensurePlus(a *Archetype, c ComponentID) *Archetype {
	if dest, err := a.GetPlus(c); err == nil {
		return dest
	}
	dest := r.archetypeByID(a.id | ArchetypeID(c))
	a.LinkPlus(c, dest)
	return dest
}

// ensureMinus returns a.minus[c], materializing/linking on demand.
func (r *Registry) ensureMinus(a *Archetype, c ComponentID) *Archetype {
	if dest, err := a.GetMinus(c); err == nil {
		return dest
	}
	dest := r.archetypeByID(a.id &^ ArchetypeID(c))
	a.LinkMinus(c, dest)
	return dest
}

// Create allocates a new entity in the root archetype, reusing a recycled
// slot (with its generation incremented) when one is available.
func (r *Registry) Create() EntityId {
	for len(r.recycle) > 0 {
		candidate := r.recycle[len(r.recycle)-1]
		r.recycle = r.recycle[:len(r.recycle)-1]

		gen := candidate.Generation()
		if gen >= maxGeneration {
			continue // retired: slot still exists but is never reused again
		}

		slot := candidate.Slot()
		newGen := gen + 1
		r.index[slot] = indexEntry{archetype: r.root, row: 0, generation: newGen}
		return newEntityId(slot, newGen)
	}

	slot := uint32(len(r.index))
	r.index = append(r.index, indexEntry{archetype: r.root, row: 0, generation: 0})
	return newEntityId(slot, 0)
}

// Spawn creates an entity and attaches each of components to it in order,
// a convenience wrapper around Create plus addDynamic for callers (tests,
// debugui, Commands.Flush's spawn path conceptually) that don't know the
// component types at compile time. A failed attach is logged and the
// remaining components are still attempted.
func (r *Registry) Spawn(components ...any) EntityId {
	e := r.Create()
	for _, c := range components {
		if err := r.addDynamic(e, c); err != nil {
			slog.Warn("registry: spawn component failed", "entity", e, "error", err)
		}
	}
	return e
}

// Destroy removes e's row from its archetype, marks its slot dead so e no
// longer resolves, and pushes e (with its current generation) onto the
// recycle list; Create increments the generation when it reuses the slot.
func (r *Registry) Destroy(e EntityId) error {
	slot, loc, err := r.resolve(e)
	if err != nil {
		return err
	}

	removed, err := loc.archetype.RemoveEntry(int(loc.row))
	if err != nil {
		panic(bark.AddTrace(err))
	}
	if removed.Swapped != 0 {
		r.patchRow(removed.Swapped, loc.row)
	}

	r.index[slot] = indexEntry{archetype: nil, row: 0, generation: loc.generation}
	r.recycle = append(r.recycle, newEntityId(slot, loc.generation))
	return nil
}

// resolve validates e against the index: the slot must be in range, not the
// reserved slot 0, live (not destroyed since it was last created), and its
// stored generation must match e's. The returned
// *indexEntry aliases r.index directly; it is only safe to hold across
// calls that do not Create (which can reallocate r.index's backing array).
func (r *Registry) resolve(e EntityId) (uint32, *indexEntry, error) {
	slot := e.Slot()
	if slot == 0 || int(slot) >= len(r.index) {
		return 0, nil, InvalidEntityError{Entity: e}
	}
	loc := &r.index[slot]
	if loc.archetype == nil || loc.generation != e.Generation() {
		return 0, nil, InvalidEntityError{Entity: e}
	}
	return slot, loc, nil
}

func (r *Registry) patchRow(e EntityId, row uint32) {
	slot := e.Slot()
	r.index[slot].row = row
}

func (r *Registry) setLocation(slot uint32, a *Archetype, row int) {
	r.index[slot].archetype = a
	r.index[slot].row = uint32(row)
}

// transfer moves the row at (from, row) to archetype to, applying mutate to
// the in-flight Entry (to add or delete the one component key that differs
// between from and to) before it lands in the destination's columns. e is
// the entity being moved; from's root case returns an empty Entry with no
// Entity of its own, so e is always the authority on identity here.
func (r *Registry) transfer(slot uint32, e EntityId, from *Archetype, row int, to *Archetype, mutate func(Entry) Entry) error {
	removed, err := from.RemoveEntry(row)
	if err != nil {
		panic(bark.AddTrace(err))
	}
	if removed.Swapped != 0 {
		r.patchRow(removed.Swapped, uint32(row))
	}

	removed.Entity = e
	removed = mutate(removed)
	newRow := to.AddEntry(removed)
	r.setLocation(slot, to, newRow)
	return nil
}

// Add attaches a component of type T to e. Fails with AlreadyHasError if e
// already carries the component, InvalidEntityError if e is not live.
func Add[T any](r *Registry, e EntityId, value T) error {
	c, err := TryComponentID[T]()
	if err != nil {
		return err
	}
	slot, loc, err := r.resolve(e)
	if err != nil {
		return err
	}
	from := loc.archetype
	if uint64(from.id)&uint64(c) != 0 {
		return AlreadyHasError{Entity: e, Component: c}
	}

	to := r.ensurePlus(from, c)
	row := int(loc.row)
	return r.transfer(slot, e, from, row, to, func(entry Entry) Entry {
		if entry.Components == nil {
			entry.Components = make(map[ComponentID]any, 1)
		}
		entry.Components[c] = value
		return entry
	})
}

// Remove detaches the component of type T from e. Fails with
// MissingComponentError if e does not carry it.
func Remove[T any](r *Registry, e EntityId) error {
	c, err := TryComponentID[T]()
	if err != nil {
		return err
	}
	slot, loc, err := r.resolve(e)
	if err != nil {
		return err
	}
	from := loc.archetype
	if uint64(from.id)&uint64(c) == 0 {
		return MissingComponentError{Entity: e, Component: c}
	}

	to := r.ensureMinus(from, c)
	row := int(loc.row)
	return r.transfer(slot, e, from, row, to, func(entry Entry) Entry {
		delete(entry.Components, c)
		return entry
	})
}

// Update overwrites e's existing component value of type T in place; it
// never triggers a structural (archetype) change. Fails with
// MissingComponentError if e does not carry the component.
func Update[T any](r *Registry, e EntityId, value T) error {
	c, err := TryComponentID[T]()
	if err != nil {
		return err
	}
	_, loc, err := r.resolve(e)
	if err != nil {
		return err
	}
	col, colErr := loc.archetype.Column(c)
	if colErr != nil {
		return MissingComponentError{Entity: e, Component: c}
	}
	col.set(int(loc.row), value)
	return nil
}

// TryAdd adds the component if e does not already have it. It returns
// (true, nil) when the component was added, (false, nil) when it was
// already present, and (false, err) for any other failure (e.g. an invalid
// entity or a registrar capacity error).
func TryAdd[T any](r *Registry, e EntityId, value T) (bool, error) {
	err := Add[T](r, e, value)
	if err == nil {
		return true, nil
	}
	var already AlreadyHasError
	if errors.As(err, &already) {
		return false, nil
	}
	return false, err
}

// AddOrUpdate updates e's component of type T if present, otherwise adds it.
func AddOrUpdate[T any](r *Registry, e EntityId, value T) error {
	c, err := TryComponentID[T]()
	if err != nil {
		return err
	}
	_, loc, err := r.resolve(e)
	if err != nil {
		return err
	}
	if uint64(loc.archetype.id)&uint64(c) != 0 {
		return Update[T](r, e, value)
	}
	return Add[T](r, e, value)
}

// TryRemove removes the component of type T if e has it, and is a no-op
// (false, nil) otherwise. Spec's "fold remove<T> over each T" for a pack of
// types is expressed by calling TryRemove once per type at the call site.
func TryRemove[T any](r *Registry, e EntityId) (bool, error) {
	err := Remove[T](r, e)
	if err == nil {
		return true, nil
	}
	var missing MissingComponentError
	if errors.As(err, &missing) {
		return false, nil
	}
	return false, err
}

// Has reports whether e carries a component of type T. An invalid entity
// reports false rather than erroring, since "has" is a query, not a mutation.
func Has[T any](r *Registry, e EntityId) bool {
	c, err := TryComponentID[T]()
	if err != nil {
		return false
	}
	_, loc, err := r.resolve(e)
	if err != nil {
		return false
	}
	return uint64(loc.archetype.id)&uint64(c) != 0
}

// HasDynamic is Has[T]'s reflect-driven twin, for callers that only have a
// runtime reflect.Type.
func HasDynamic(r *Registry, e EntityId, t reflect.Type) bool {
	c, err := tryComponentIDForType(t)
	if err != nil {
		return false
	}
	_, loc, err := r.resolve(e)
	if err != nil {
		return false
	}
	return uint64(loc.archetype.id)&uint64(c) != 0
}

// Get returns a pointer to e's component of type T. The pointer is valid
// only until the next structural mutation touching e's archetype (add,
// remove, or destroy of any entity sharing that archetype's columns).
func Get[T any](r *Registry, e EntityId) (*T, error) {
	c, err := TryComponentID[T]()
	if err != nil {
		return nil, err
	}
	_, loc, err := r.resolve(e)
	if err != nil {
		return nil, err
	}
	col, colErr := loc.archetype.Column(c)
	if colErr != nil {
		return nil, MissingComponentError{Entity: e, Component: c}
	}
	return col.get(int(loc.row)).(*T), nil
}

// TryGet writes e's component of type T into out and returns true, or
// returns false without touching out if e does not carry the component.
func TryGet[T any](r *Registry, e EntityId, out *T) bool {
	ptr, err := Get[T](r, e)
	if err != nil {
		return false
	}
	*out = *ptr
	return true
}

// GetDynamic is Get[T]'s reflect-driven twin, returning the component
// pointer as any for callers (the debugui inspector, most notably) that only
// have a runtime reflect.Type and mutate fields through reflection.
func GetDynamic(r *Registry, e EntityId, t reflect.Type) (any, error) {
	c, err := tryComponentIDForType(t)
	if err != nil {
		return nil, err
	}
	_, loc, err := r.resolve(e)
	if err != nil {
		return nil, err
	}
	col, colErr := loc.archetype.Column(c)
	if colErr != nil {
		return nil, MissingComponentError{Entity: e, Component: c}
	}
	return col.get(int(loc.row)), nil
}

// AddDynamic is Add[T]'s reflect-driven twin for callers that only have a
// runtime `any` component value and no compile-time type parameter. Prefer
// Add[T] whenever T is known at the call site.
func AddDynamic(r *Registry, e EntityId, value any) error {
	return r.addDynamic(e, value)
}

// RemoveDynamic is Remove[T]'s reflect-driven twin, exported for the same
// runtime-typed callers AddDynamic serves. Commands.Flush uses the
// unexported removeDynamic directly.
func RemoveDynamic(r *Registry, e EntityId, t reflect.Type) error {
	return r.removeDynamic(e, t)
}

func (r *Registry) addDynamic(e EntityId, value any) error {
	c, err := tryComponentIDForType(reflect.TypeOf(value))
	if err != nil {
		return err
	}
	slot, loc, err := r.resolve(e)
	if err != nil {
		return err
	}
	from := loc.archetype
	if uint64(from.id)&uint64(c) != 0 {
		return AlreadyHasError{Entity: e, Component: c}
	}
	to := r.ensurePlus(from, c)
	return r.transfer(slot, e, from, int(loc.row), to, func(entry Entry) Entry {
		if entry.Components == nil {
			entry.Components = make(map[ComponentID]any, 1)
		}
		entry.Components[c] = value
		return entry
	})
}

// ArchetypeOf returns the id of the archetype e currently resides in.
func (r *Registry) ArchetypeOf(e EntityId) (ArchetypeID, error) {
	_, loc, err := r.resolve(e)
	if err != nil {
		return 0, err
	}
	return loc.archetype.id, nil
}

// getSingletonEntry returns the stable pointer backing the singleton of
// type t, or nil if one has not been created yet.
func (r *Registry) getSingletonEntry(t reflect.Type) unsafe.Pointer {
	if r.singletons == nil {
		return nil
	}
	return r.singletons[t]
}

// addSingleton allocates stable, heap-addressable storage for a singleton
// of type t holding value, and records it for future lookups.
func (r *Registry) addSingleton(t reflect.Type, value any) unsafe.Pointer {
	if r.singletons == nil {
		r.singletons = make(map[reflect.Type]unsafe.Pointer)
	}
	boxed := reflect.New(t)
	boxed.Elem().Set(reflect.ValueOf(value))
	ptr := unsafe.Pointer(boxed.Pointer())
	r.singletons[t] = ptr
	return ptr
}

// removeDynamic is Remove[T]'s reflect-driven twin, used by Commands.Flush.
func (r *Registry) removeDynamic(e EntityId, t reflect.Type) error {
	c, err := tryComponentIDForType(t)
	if err != nil {
		return err
	}
	slot, loc, err := r.resolve(e)
	if err != nil {
		return err
	}
	from := loc.archetype
	if uint64(from.id)&uint64(c) == 0 {
		return MissingComponentError{Entity: e, Component: c}
	}
	to := r.ensureMinus(from, c)
	return r.transfer(slot, e, from, int(loc.row), to, func(entry Entry) Entry {
		delete(entry.Components, c)
		return entry
	})
}
