package ecs

import (
	"fmt"
	"reflect"
	"time"
)

// ArchetypeStats describes a single materialized archetype for inspection
// by debugui.
type ArchetypeStats struct {
	ID             ArchetypeID
	ComponentTypes []ComponentID
	EntityCount    int
}

// StorageStats is a point-in-time snapshot of a Registry's archetype table
// and singleton slots, named StorageStats (rather than RegistryStats). Its
// caller in this module is debugui's performance stats window.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// CollectStats walks every materialized archetype and singleton slot,
// producing a snapshot safe to read after the call returns (it shares no
// backing storage with the registry's live state).
func (r *Registry) CollectStats() *StorageStats {
	stats := &StorageStats{
		SingletonTypes: make([]string, 0, len(r.singletons)),
	}

	for _, a := range r.Archetypes() {
		entityCount := a.Len()
		if a.id == 0 && entityCount == 0 {
			continue
		}
		stats.ArchetypeCount++
		stats.TotalEntityCount += entityCount

		types := make([]ComponentID, 0, len(a.table))
		for cid := range a.table {
			types = append(types, cid)
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             a.id,
			ComponentTypes: types,
			EntityCount:    entityCount,
		})
	}

	for t := range r.singletons {
		stats.SingletonCount++
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}

	return stats
}

// SystemStats aggregates per-system execution timing collected by the
// scheduler across every Once call since Register.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// SchedulerStats is a snapshot of every registered system's timing history.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// GetStats returns a snapshot of per-system execution counts and timings
// accumulated since each system was registered.
func (s *Scheduler) GetStats() SchedulerStats {
	stats := SchedulerStats{SystemCount: len(s.systems)}
	for _, system := range s.systems {
		timing := s.timings[system]
		if timing == nil {
			stats.Systems = append(stats.Systems, SystemStats{Name: systemName(system)})
			continue
		}
		stats.TotalExecutions += timing.count
		avg := time.Duration(0)
		if timing.count > 0 {
			avg = timing.total / time.Duration(timing.count)
		}
		stats.Systems = append(stats.Systems, SystemStats{
			Name:           systemName(system),
			ExecutionCount: timing.count,
			MinDuration:    timing.min,
			MaxDuration:    timing.max,
			AvgDuration:    avg,
			LastDuration:   timing.last,
			TotalDuration:  timing.total,
		})
	}
	return stats
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func (s *Scheduler) recordExecution(system System, d time.Duration) {
	if s.timings == nil {
		s.timings = make(map[System]*systemTiming)
	}
	t := s.timings[system]
	if t == nil {
		t = &systemTiming{min: d, max: d}
		s.timings[system] = t
	}
	t.count++
	t.total += d
	t.last = d
	if d < t.min {
		t.min = d
	}
	if d > t.max {
		t.max = d
	}
}

type systemTiming struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
	last  time.Duration
}

func (a ArchetypeStats) String() string {
	return fmt.Sprintf("Archetype(0x%X, %d components, %d entities)", uint64(a.ID), len(a.ComponentTypes), a.EntityCount)
}
