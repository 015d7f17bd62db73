package ecs

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// column is a type-erased dense component column. An Archetype holds one
// column per component id set in its id. Storage is kept dense: removal is
// always swap-with-last-then-pop, never a tombstone, so there is no
// "Compact" pass the way a tombstoning storage would need one.
//
// Values cross the erased boundary as `any`; the concrete generic column
// type asserts back to T on the way in and wraps a *T on the way out.
// There is no free-slot tombstone bookkeeping since swap-remove makes it
// unnecessary.
type column interface {
	// append adds value (of the column's concrete type) to the end of the
	// column and returns the new row index.
	append(value any) int
	// get returns a pointer (as any, wrapping *T) to the value at row.
	get(row int) any
	// set overwrites the value at row in place; no structural change.
	set(row int, value any)
	// swapRemove removes row by swapping the last element into it and
	// popping the tail, returning the value that occupied row before the
	// swap (the one leaving the column).
	swapRemove(row int) any
	// len returns the number of rows currently stored.
	len() int
}

// Column is the read-only, exported face of column: every concrete column
// type satisfies it alongside the unexported interface, so code outside this
// package (ecs/debugui) can inspect a column's length and values without
// being able to mutate it through append/set/swapRemove.
type Column interface {
	// Len returns the number of rows currently stored.
	Len() int
	// At returns a pointer (as any, wrapping *T) to the value at row.
	At(row int) any
}

// genericColumn is the concrete, contiguously-typed implementation of
// column for component type T.
type genericColumn[T any] struct {
	data []T
}

func newGenericColumn[T any](capacity int) column {
	if capacity < 0 {
		capacity = 0
	}
	return &genericColumn[T]{data: make([]T, 0, capacity)}
}

func (c *genericColumn[T]) append(value any) int {
	v, ok := value.(T)
	if !ok {
		panic(bark.AddTrace(fmt.Errorf("ecs: column append type mismatch, got %T", value)))
	}
	c.data = append(c.data, v)
	return len(c.data) - 1
}

func (c *genericColumn[T]) get(row int) any {
	return &c.data[row]
}

func (c *genericColumn[T]) set(row int, value any) {
	v, ok := value.(T)
	if !ok {
		panic(bark.AddTrace(fmt.Errorf("ecs: column set type mismatch, got %T", value)))
	}
	c.data[row] = v
}

func (c *genericColumn[T]) swapRemove(row int) any {
	removed := c.data[row]
	last := len(c.data) - 1
	if row != last {
		c.data[row] = c.data[last]
	}
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
	return removed
}

func (c *genericColumn[T]) len() int {
	return len(c.data)
}

// Len and At implement Column for debugui and other cross-package readers.
func (c *genericColumn[T]) Len() int      { return c.len() }
func (c *genericColumn[T]) At(row int) any { return c.get(row) }

// reflectColumn is a column backed by a reflect.Value slice, used when a
// component type is first seen through a reflect.Type rather than a
// compile-time generic parameter (View[T] field setup, Spawn, and the
// *Dynamic registry operations). See tryComponentIDForType.
type reflectColumn struct {
	data reflect.Value
}

func newReflectColumn(t reflect.Type) func(capacity int) column {
	return func(capacity int) column {
		if capacity < 0 {
			capacity = 0
		}
		return &reflectColumn{data: reflect.MakeSlice(reflect.SliceOf(t), 0, capacity)}
	}
}

func (c *reflectColumn) append(value any) int {
	c.data = reflect.Append(c.data, reflect.ValueOf(value))
	return c.data.Len() - 1
}

func (c *reflectColumn) get(row int) any {
	return c.data.Index(row).Addr().Interface()
}

func (c *reflectColumn) set(row int, value any) {
	c.data.Index(row).Set(reflect.ValueOf(value))
}

func (c *reflectColumn) swapRemove(row int) any {
	removed := c.data.Index(row).Interface()
	last := c.data.Len() - 1
	if row != last {
		c.data.Index(row).Set(c.data.Index(last))
	}
	c.data.Index(last).Set(reflect.Zero(c.data.Type().Elem()))
	c.data = c.data.Slice(0, last)
	return removed
}

func (c *reflectColumn) len() int {
	return c.data.Len()
}

// Len and At implement Column for debugui and other cross-package readers.
func (c *reflectColumn) Len() int      { return c.len() }
func (c *reflectColumn) At(row int) any { return c.get(row) }
