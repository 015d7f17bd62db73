// Command ecsbench drives the registry and scheduler against a fixed
// component/system set under sustained churn (movement, regen, AI
// decisions, and a decay/spawn pair that keeps entities entering and
// leaving the archetype graph) and reports timing and memory stats.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/archecs/ecs"
)

const (
	componentCount = 8 // Position, Velocity, Health, Sprite, Name, Target, Decay, AI
	systemCount    = 5
)

type rng struct{ *rand.Rand }

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	seed := flag.Int64("seed", 1, "Seed for the entity generator's RNG.")
	flag.Parse()

	log.Println("Starting ECS stress test...")

	r := &rng{rand.New(rand.NewSource(*seed))}

	registry := ecs.NewRegistry()
	scheduler := ecs.NewScheduler(registry)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&RegenSystem{RegenPerSecond: 2})
	scheduler.Register(&AISystem{})
	scheduler.Register(&DecaySystem{})
	scheduler.Register(&SpawnerSystem{rng: r, perTick: *entityCount / 600})

	log.Printf("Populating registry with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		registry.Spawn(randomEntity(r, i)...)
	}
	log.Println("Population complete.")

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     componentCount,
		Systems:        systemCount,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.Once(deltaTime.Seconds())
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

// randomEntity builds a random archetype from the fixed component set so
// the run exercises a spread of archetypes rather than one flat table.
func randomEntity(r *rng, i int) []any {
	components := []any{
		Position{X: r.Float32() * 1000, Y: r.Float32() * 1000},
		Velocity{DX: r.Float32()*2 - 1, DY: r.Float32()*2 - 1},
	}

	if r.Intn(4) != 0 {
		components = append(components, Health{Current: 100, Max: 100})
	}
	if r.Intn(3) == 0 {
		components = append(components, Sprite{Color: [3]uint8{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256))}, Layer: r.Intn(4)})
	}
	if r.Intn(5) == 0 {
		components = append(components, Name(fmt.Sprintf("entity-%d", i)))
	}
	if r.Intn(4) == 0 {
		components = append(components, AI{ThinkTimer: r.Float32()})
	}
	if r.Intn(6) == 0 {
		components = append(components, Decay{TimeToLive: 5 + r.Float32()*20})
	}
	if r.Intn(8) == 0 {
		components = append(components, Target{})
	}

	return components
}
