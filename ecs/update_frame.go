package ecs

// UpdateFrame is passed to every System.Execute call for one scheduler
// tick: the elapsed time, a Commands buffer for deferred structural
// changes, and the Registry systems query against directly.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Registry  *Registry
}

func newUpdateFrame(dt float64, registry *Registry) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Registry:  registry,
	}
}
