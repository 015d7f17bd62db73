package ecs

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/TheBitDrifter/bark"
)

// systemTiming and recordExecution live in stats.go alongside SchedulerStats.

// Scheduler runs a fixed, registration-ordered list of systems each tick,
// driving their Query/Singleton fields through Init/Execute via reflection
// over each system's struct fields.
type Scheduler struct {
	registry *Registry
	systems  []System
	timings  map[System]*systemTiming
}

// NewScheduler creates a scheduler bound to registry.
func NewScheduler(registry *Registry) *Scheduler {
	return &Scheduler{
		registry: registry,
		systems:  make([]System, 0),
	}
}

// Register adds system to the scheduler, initializing any Query[T] or
// Singleton[T] fields it declares.
func (s *Scheduler) Register(system System) {
	s.initializeFields(system)
	s.systems = append(s.systems, system)
}

func (s *Scheduler) initializeFields(system System) {
	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return
	}

	structType := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		fieldType := structType.Field(i)

		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		if !strings.HasPrefix(typeName, "Query[") && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic(bark.AddTrace(fmt.Errorf("ecs: Init method not found on field %s", fieldType.Name)))
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.registry)})
	}
}

// Once runs every registered system exactly once with the given delta time,
// then flushes the frame's deferred Commands against the registry.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.registry)

	s.forEachQueryField(func(v reflect.Value) {
		if m := v.Addr().MethodByName("Execute"); m.IsValid() {
			m.Call(nil)
		}
	})

	for _, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		s.recordExecution(system, time.Since(start))
	}

	frame.Commands.Flush(s.registry)
}

// Run calls Once repeatedly at interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// forEachQueryField visits every Query[T]-typed field of every registered
// system, invoking fn with the field's addressable reflect.Value.
func (s *Scheduler) forEachQueryField(fn func(reflect.Value)) {
	for _, system := range s.systems {
		value := reflect.ValueOf(system)
		if value.Kind() == reflect.Ptr {
			value = value.Elem()
		}
		if value.Kind() != reflect.Struct {
			continue
		}

		for i := 0; i < value.NumField(); i++ {
			field := value.Field(i)
			if field.Kind() != reflect.Struct {
				continue
			}
			if !strings.HasPrefix(field.Type().Name(), "Query[") {
				continue
			}
			fn(field)
		}
	}
}
