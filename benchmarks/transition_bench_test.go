// Package benchmarks provides performance benchmarks for the statechart engine core transitions.
package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/chartforms/internal/primitives"
)

func benchmarkSend(b *testing.B, config primitives.MachineConfig) {
	m := Start(config)
	e := primitives.NewEvent("tick", nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !m.Send(e).Changed {
			b.Fatal("tick was not handled")
		}
	}
}

func BenchmarkSimpleTransition(b *testing.B) {
	benchmarkSend(b, GenFlatConfig(1))
}

func BenchmarkFlatTransition(b *testing.B) {
	for _, n := range []int{2, 16, 128} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			benchmarkSend(b, GenFlatConfig(n))
		})
	}
}

func BenchmarkHierarchicalTransition(b *testing.B) {
	for _, depth := range []int{1, 5, 20} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			benchmarkSend(b, GenDeepConfig(depth))
		})
	}
}

func BenchmarkParallelTransition(b *testing.B) {
	for _, regions := range []int{2, 8} {
		b.Run(fmt.Sprintf("regions=%d", regions), func(b *testing.B) {
			benchmarkSend(b, GenParallelConfig(regions))
		})
	}
}

func BenchmarkGuardedTransition(b *testing.B) {
	benchmarkSend(b, GenGuardedConfig(10))
}
