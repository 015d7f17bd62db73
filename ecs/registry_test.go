package ecs_test

import (
	"testing"

	"github.com/plus3/archecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()
	assert.True(t, e.Valid())
	assert.Equal(t, uint8(0), e.Generation())
}

func TestCreateAssignsDistinctSlots(t *testing.T) {
	r := newTestRegistry()
	e1 := r.Create()
	e2 := r.Create()
	e3 := r.Create()

	assert.NotEqual(t, e1, e2)
	assert.NotEqual(t, e2, e3)
	assert.NotEqual(t, e1.Slot(), e2.Slot())
}

func TestAddAndGet(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()

	require.NoError(t, ecs.Add(r, e, Position{X: 1.0, Y: 2.0}))

	pos, err := ecs.Get[Position](r, e)
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), pos.X)
	assert.Equal(t, float32(2.0), pos.Y)

	_, err = ecs.Get[Velocity](r, e)
	assert.Error(t, err)
	assert.IsType(t, ecs.MissingComponentError{}, err)
}

func TestAddAlreadyHasFails(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()
	require.NoError(t, ecs.Add(r, e, Position{X: 1, Y: 1}))

	err := ecs.Add(r, e, Position{X: 2, Y: 2})
	assert.Error(t, err)
	assert.IsType(t, ecs.AlreadyHasError{}, err)
}

func TestRemoveComponent(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()
	require.NoError(t, ecs.Add(r, e, Position{X: 1, Y: 2}))
	require.NoError(t, ecs.Add(r, e, Velocity{DX: 0.5, DY: 0.5}))

	require.NoError(t, ecs.Remove[Velocity](r, e))

	assert.True(t, ecs.Has[Position](r, e))
	assert.False(t, ecs.Has[Velocity](r, e))

	pos, err := ecs.Get[Position](r, e)
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), pos.X)
}

func TestRemoveMissingComponentFails(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()
	require.NoError(t, ecs.Add(r, e, Position{}))

	err := ecs.Remove[Velocity](r, e)
	assert.Error(t, err)
	assert.IsType(t, ecs.MissingComponentError{}, err)
}

func TestUpdateInPlace(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()
	require.NoError(t, ecs.Add(r, e, Position{X: 1, Y: 1}))

	require.NoError(t, ecs.Update(r, e, Position{X: 10, Y: 20}))

	pos, err := ecs.Get[Position](r, e)
	require.NoError(t, err)
	assert.Equal(t, float32(10), pos.X)
	assert.Equal(t, float32(20), pos.Y)
}

func TestTryAdd(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()

	added, err := ecs.TryAdd(r, e, Position{X: 1, Y: 1})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = ecs.TryAdd(r, e, Position{X: 2, Y: 2})
	require.NoError(t, err)
	assert.False(t, added)

	pos, _ := ecs.Get[Position](r, e)
	assert.Equal(t, float32(1), pos.X)
}

func TestAddOrUpdate(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()

	require.NoError(t, ecs.AddOrUpdate(r, e, Health{Current: 10, Max: 10}))
	h, _ := ecs.Get[Health](r, e)
	assert.Equal(t, 10, h.Current)

	require.NoError(t, ecs.AddOrUpdate(r, e, Health{Current: 5, Max: 10}))
	h, _ = ecs.Get[Health](r, e)
	assert.Equal(t, 5, h.Current)
}

func TestTryRemove(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()
	require.NoError(t, ecs.Add(r, e, Velocity{DX: 1}))

	removed, err := ecs.TryRemove[Velocity](r, e)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = ecs.TryRemove[Velocity](r, e)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTryGet(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()
	require.NoError(t, ecs.Add(r, e, Score(42)))

	var out Score
	assert.True(t, ecs.TryGet(r, e, &out))
	assert.Equal(t, Score(42), out)

	var missing Velocity
	assert.False(t, ecs.TryGet(r, e, &missing))
}

func TestDestroyAndSwapRemove(t *testing.T) {
	r := newTestRegistry()
	e1 := r.Create()
	e2 := r.Create()
	e3 := r.Create()
	require.NoError(t, ecs.Add(r, e1, Position{X: 1}))
	require.NoError(t, ecs.Add(r, e2, Position{X: 2}))
	require.NoError(t, ecs.Add(r, e3, Position{X: 3}))

	require.NoError(t, r.Destroy(e1))

	pos2, err := ecs.Get[Position](r, e2)
	require.NoError(t, err)
	assert.Equal(t, float32(2), pos2.X)

	pos3, err := ecs.Get[Position](r, e3)
	require.NoError(t, err)
	assert.Equal(t, float32(3), pos3.X)

	_, err = ecs.Get[Position](r, e1)
	assert.Error(t, err)
	assert.IsType(t, ecs.InvalidEntityError{}, err)
}

func TestDestroyInvalidatesStaleGeneration(t *testing.T) {
	r := newTestRegistry()
	e := r.Create()
	require.NoError(t, r.Destroy(e))

	err := r.Destroy(e)
	assert.Error(t, err)
	assert.IsType(t, ecs.InvalidEntityError{}, err)

	assert.False(t, ecs.Has[Position](r, e))
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	r := newTestRegistry()
	e1 := r.Create()
	require.NoError(t, r.Destroy(e1))

	e2 := r.Create()
	assert.Equal(t, e1.Slot(), e2.Slot())
	assert.NotEqual(t, e1.Generation(), e2.Generation())

	_, err := ecs.Get[Position](r, e1)
	assert.Error(t, err)
}

func TestLargeNumberOfEntities(t *testing.T) {
	r := newTestRegistry()

	const numEntities = 10000
	ids := make([]ecs.EntityId, numEntities)
	for i := range numEntities {
		ids[i] = r.Create()
		require.NoError(t, ecs.Add(r, ids[i], Position{X: float32(i), Y: float32(i * 2)}))
		require.NoError(t, ecs.Add(r, ids[i], Health{Current: i, Max: i * 10}))
	}

	for i, id := range ids {
		pos, err := ecs.Get[Position](r, id)
		require.NoError(t, err)
		assert.Equal(t, float32(i), pos.X)

		health, err := ecs.Get[Health](r, id)
		require.NoError(t, err)
		assert.Equal(t, i, health.Current)
	}
}

func TestArchetypeIsOrderIndependent(t *testing.T) {
	r := newTestRegistry()
	e1 := r.Create()
	require.NoError(t, ecs.Add(r, e1, Position{}))
	require.NoError(t, ecs.Add(r, e1, Velocity{}))

	e2 := r.Create()
	require.NoError(t, ecs.Add(r, e2, Velocity{}))
	require.NoError(t, ecs.Add(r, e2, Position{}))

	a1, err1 := r.ArchetypeOf(e1)
	a2, err2 := r.ArchetypeOf(e2)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, a1, a2)
}

func TestPointerComponent(t *testing.T) {
	r := newTestRegistry()
	target := &Position{X: 10.0, Y: 20.0}

	e := r.Create()
	require.NoError(t, ecs.Add(r, e, AIPointer{Target: target}))

	ai, err := ecs.Get[AIPointer](r, e)
	require.NoError(t, err)
	assert.Equal(t, float32(10.0), ai.Target.X)

	ai.Target.X = 100.0
	assert.Equal(t, float32(100.0), target.X)
}

func TestInvalidEntityIdRejected(t *testing.T) {
	r := newTestRegistry()

	_, err := ecs.Get[Position](r, ecs.EntityId(0))
	assert.Error(t, err)
	assert.IsType(t, ecs.InvalidEntityError{}, err)

	err = r.Destroy(ecs.EntityId(0))
	assert.Error(t, err)
}
