package debugui

import "github.com/plus3/archecs/ecs"

// SpawnDebugUI attaches one entity per debug panel to registry. Component
// types register their bit lazily on this first Spawn call, so there is no
// separate registration step the way the scheduler's systems need none
// either.
func SpawnDebugUI(registry *ecs.Registry) {
	registry.Spawn(NewEntityBrowserComponent(100))
	registry.Spawn(NewComponentInspectorComponent())
	registry.Spawn(NewArchetypeViewerComponent())
	registry.Spawn(NewPerformanceStatsComponent(120))
	registry.Spawn(NewQueryDebuggerComponent())
}
