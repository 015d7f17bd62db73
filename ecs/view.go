package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View represents a query for entities with a specific combination of
// components. T must be a struct with pointer fields, one per component
// type. Embedded fields are always required; named fields can be marked
// optional with an `ecs:"optional"` struct tag.
type View[T any] struct {
	registry    *Registry
	components  []ComponentID
	optional    []bool
	fieldOffset []uintptr

	requiredMask ArchetypeID

	hasEntityField    bool
	entityFieldOffset uintptr
}

var entityIDType = reflect.TypeOf(EntityId(0))

// NewView builds a view for struct type T, resolving (and registering, if
// necessary) a ComponentID for every pointer field.
func NewView[T any](registry *Registry) *View[T] {
	var zero T
	structType := reflect.TypeOf(zero)

	if structType.Kind() != reflect.Struct {
		panic("ecs: View type parameter must be a struct")
	}

	n := structType.NumField()
	components := make([]ComponentID, 0, n)
	optional := make([]bool, 0, n)
	fieldOffset := make([]uintptr, 0, n)

	var requiredMask ArchetypeID
	var hasEntityField bool
	var entityFieldOffset uintptr
	for i := 0; i < n; i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityIDType {
			hasEntityField = true
			entityFieldOffset = field.Offset
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("ecs: View struct fields must be pointer types")
		}

		componentType := fieldType.Elem()
		c, err := tryComponentIDForType(componentType)
		if err != nil {
			panic(err)
		}
		components = append(components, c)
		fieldOffset = append(fieldOffset, field.Offset)

		isOptional := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				isOptional = true
			default:
				panic("ecs: invalid ecs tag value " + tag + " (only \"optional\" is supported)")
			}
		}
		optional = append(optional, isOptional)
		if !isOptional {
			requiredMask |= ArchetypeID(c)
		}
	}

	return &View[T]{
		registry:          registry,
		components:        components,
		optional:          optional,
		fieldOffset:       fieldOffset,
		requiredMask:      requiredMask,
		hasEntityField:    hasEntityField,
		entityFieldOffset: entityFieldOffset,
	}
}

// matchesArchetype reports whether a carries every required (non-optional)
// component for this view. Optional components are never checked.
func (v *View[T]) matchesArchetype(a *Archetype) bool {
	return uint64(a.id)&uint64(v.requiredMask) == uint64(v.requiredMask)
}

// Fill populates ptr's fields from e's components, returning false if e is
// missing any required component. Optional fields are set to nil when
// absent.
func (v *View[T]) Fill(e EntityId, ptr *T) bool {
	_, loc, err := v.registry.resolve(e)
	if err != nil {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), loc.archetype, int(loc.row), e)
}

func (v *View[T]) populate(structPtr unsafe.Pointer, a *Archetype, row int, entity EntityId) bool {
	if v.hasEntityField {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.entityFieldOffset)
		*(*EntityId)(fieldPtr) = entity
	}

	for i, c := range v.components {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		col, err := a.Column(c)
		if err != nil {
			if v.optional[i] {
				*(*unsafe.Pointer)(fieldPtr) = nil
				continue
			}
			return false
		}

		valuePtr := col.get(row)
		componentPtr := (*iface)(unsafe.Pointer(&valuePtr)).data
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}
	return true
}

// Get returns a populated view struct for e, or nil if e is missing a
// required component.
func (v *View[T]) Get(e EntityId) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// Iter returns an iterator over every entity matching this view's required
// component set, yielding (EntityId, T) pairs.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range v.registry.Archetypes() {
			if !v.matchesArchetype(a) {
				continue
			}
			for row := 0; row < a.Len(); row++ {
				entity, err := a.EntityAt(row)
				if err != nil {
					continue
				}
				var result T
				if !v.populate(unsafe.Pointer(&result), a, row, entity) {
					continue
				}
				if !yield(entity, result) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over just the component data, without entity
// ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
