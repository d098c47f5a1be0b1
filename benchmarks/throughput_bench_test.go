// Package benchmarks provides performance benchmarks for event throughput.
package benchmarks

import (
	"sync"
	"testing"

	"github.com/comalice/chartforms/internal/primitives"
)

func BenchmarkEventThroughput(b *testing.B) {
	m := Start(GenFlatConfig(1))
	e := primitives.NewEvent("tick", nil)
	numWorkers := 8
	eventsPerWorker := b.N / numWorkers
	if eventsPerWorker == 0 {
		eventsPerWorker = 1
	}
	var wg sync.WaitGroup
	b.ResetTimer()
	b.ReportAllocs()
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < eventsPerWorker; i++ {
				m.Send(e)
			}
		}()
	}
	wg.Wait()
	b.StopTimer()

	if got, want := m.State().Context.Ticks, numWorkers*eventsPerWorker; got != want {
		b.Fatalf("processed %d events, want %d", got, want)
	}
	b.ReportMetric(float64(numWorkers*eventsPerWorker)/b.Elapsed().Seconds(), "events/sec")
}
