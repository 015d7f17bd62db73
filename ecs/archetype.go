package ecs

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/TheBitDrifter/bark"
)

// ArchetypeID is the bitwise OR of the ids of every component type an
// archetype contains. The empty archetype has id 0 and is the graph root.
type ArchetypeID uint64

func (a ArchetypeID) String() string {
	if a == 0 {
		return "Archetype()"
	}
	var names []string
	for bit := 0; bit < 64; bit++ {
		c := ComponentID(uint64(1) << bit)
		if uint64(a)&uint64(c) == 0 {
			continue
		}
		if name := ComponentName(c); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return "Archetype(" + strings.Join(names, ",") + ")"
}

// Archetype is the storage bucket for every entity carrying exactly the
// component set encoded by id. It owns one dense column per component bit
// set in id, an entities sidecar in lockstep with those columns, and the
// plus/minus edges to its neighbours in the archetype graph.
//
// plus/minus are indexed by bit position (0-63), not by the ComponentID
// bitmask value itself — a fixed-width array of 64 pointers, the shape used
// by mlange-42/arche's archetypeNode.toAdd/toRemove, is both simpler and
// faster than a map at this design's 64-type ceiling.
type Archetype struct {
	id       ArchetypeID
	table    map[ComponentID]column
	entities []EntityId
	plus     [64]*Archetype
	minus    [64]*Archetype
}

// newArchetype builds an archetype with empty columns for every bit set in
// id. Used both for the root (id 0, no columns) and for archetypes
// materialized on demand while walking the graph.
func newArchetype(id ArchetypeID) *Archetype {
	a := &Archetype{
		id:    id,
		table: make(map[ComponentID]column),
	}
	for bit := 0; bit < 64; bit++ {
		c := ComponentID(uint64(1) << bit)
		if uint64(id)&uint64(c) == 0 {
			continue
		}
		a.table[c] = componentRegistrar.columnFor(c, Config.InitialColumnCapacity)
	}
	return a
}

// ID returns the archetype's id.
func (a *Archetype) ID() ArchetypeID {
	return a.id
}

// String renders the archetype's component set, e.g. "Archetype(Position,Velocity)".
func (a *Archetype) String() string {
	return a.id.String()
}

// Columns returns a snapshot of this archetype's component table, keyed by
// component id, as the read-only Column interface. Used by ecs/debugui to
// list a selected archetype's columns without exposing the mutable table
// itself or letting an outside package append/set/swapRemove through it.
func (a *Archetype) Columns() map[ComponentID]Column {
	out := make(map[ComponentID]Column, len(a.table))
	for c, col := range a.table {
		out[c] = col
	}
	return out
}

// Column returns the column storing component c's values. Fails with
// MissingComponentError if c is not a subset of a.id.
func (a *Archetype) Column(c ComponentID) (column, error) {
	col, ok := a.table[c]
	if !ok {
		return nil, MissingComponentError{Component: c}
	}
	return col, nil
}

// Len returns the number of rows: the length shared by entities and every
// column.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Entities returns a snapshot of the entity ids stored in this archetype, in
// row order. Used by ecs/debugui to list entities without exposing the
// mutable backing slice.
func (a *Archetype) Entities() []EntityId {
	out := make([]EntityId, len(a.entities))
	copy(out, a.entities)
	return out
}

// ComponentIDs returns the component ids this archetype's entities carry, in
// no particular order. Pair with ComponentName to render readable labels.
func (a *Archetype) ComponentIDs() []ComponentID {
	out := make([]ComponentID, 0, len(a.table))
	for c := range a.table {
		out = append(out, c)
	}
	return out
}

// Types returns the reflect.Type of each component this archetype's
// entities carry, in no particular order. A convenience wrapper around
// ComponentIDs and ComponentType for reflection-driven callers such as
// ecs/debugui's component inspector.
func (a *Archetype) Types() []reflect.Type {
	out := make([]reflect.Type, 0, len(a.table))
	for c := range a.table {
		if t := ComponentType(c); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// EntityAt returns the entity occupying row. Fails with OutOfBoundsError if
// row is past the end.
func (a *Archetype) EntityAt(row int) (EntityId, error) {
	if row < 0 || row >= len(a.entities) {
		return 0, OutOfBoundsError{Row: row, Len: len(a.entities)}
	}
	return a.entities[row], nil
}

// HasPlus reports whether the c-plus edge has been installed.
func (a *Archetype) HasPlus(c ComponentID) bool {
	return a.plus[c.Bit()] != nil
}

// HasMinus reports whether the c-minus edge has been installed.
func (a *Archetype) HasMinus(c ComponentID) bool {
	return a.minus[c.Bit()] != nil
}

// GetPlus follows an already-installed c-plus edge. Fails with
// MissingEdgeError if absent; callers that want on-demand materialization
// go through Registry.ensurePlus instead.
func (a *Archetype) GetPlus(c ComponentID) (*Archetype, error) {
	if dest := a.plus[c.Bit()]; dest != nil {
		return dest, nil
	}
	return nil, MissingEdgeError{From: a.id, Component: c, Direction: "plus"}
}

// GetMinus follows an already-installed c-minus edge. Fails with
// MissingEdgeError if absent.
func (a *Archetype) GetMinus(c ComponentID) (*Archetype, error) {
	if dest := a.minus[c.Bit()]; dest != nil {
		return dest, nil
	}
	return nil, MissingEdgeError{From: a.id, Component: c, Direction: "minus"}
}

// LinkPlus installs a.plus[c] = dest and its inverse dest.minus[c] = a.
// Idempotent when already installed with the same target.
func (a *Archetype) LinkPlus(c ComponentID, dest *Archetype) {
	a.plus[c.Bit()] = dest
	dest.minus[c.Bit()] = a
}

// LinkMinus installs a.minus[c] = dest and its inverse dest.plus[c] = a.
func (a *Archetype) LinkMinus(c ComponentID, dest *Archetype) {
	a.minus[c.Bit()] = dest
	dest.plus[c.Bit()] = a
}

// RemoveEntry removes row from every column and from entities by
// swap-with-last-then-pop, returning the moved-out component values and the
// identity of whichever entity was swapped into row (0 if none, including
// the empty-archetype special case where there are no columns to swap).
func (a *Archetype) RemoveEntry(row int) (Entry, error) {
	if len(a.table) == 0 {
		return Entry{}, nil
	}

	if row < 0 || row >= len(a.entities) {
		return Entry{}, OutOfBoundsError{Row: row, Len: len(a.entities)}
	}

	entity := a.entities[row]
	last := len(a.entities) - 1

	var swapped EntityId
	if row != last {
		swapped = a.entities[last]
	}

	components := make(map[ComponentID]any, len(a.table))
	for c, col := range a.table {
		components[c] = col.swapRemove(row)
	}

	a.entities[row] = a.entities[last]
	a.entities = a.entities[:last]

	return Entry{Entity: entity, Components: components, Swapped: swapped}, nil
}

// AddEntry appends entry's component values to their matching columns and
// entry.Entity to entities, returning the new row. An entry with no
// components (the empty-archetype special case) leaves the archetype
// unmutated and returns row 0.
func (a *Archetype) AddEntry(entry Entry) int {
	if len(entry.Components) == 0 {
		return 0
	}

	row := -1
	for c, value := range entry.Components {
		col, ok := a.table[c]
		if !ok {
			panic(bark.AddTrace(fmt.Errorf("ecs: AddEntry component %s not present in destination archetype %s", c, a.id)))
		}
		r := col.append(value)
		if row == -1 {
			row = r
		}
	}

	a.entities = append(a.entities, entry.Entity)
	return row
}
