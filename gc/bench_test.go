// ABOUTME: Collection benchmarks over randomly linked node graphs
// ABOUTME: Half of each graph is garbage held together by cycles

package gc_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/prateek/cyclegc/gc"
)

func BenchmarkCollect(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("nodes=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				h := newTestHeap()
				r := rand.New(rand.NewSource(int64(i)))
				nodes := make([]*gc.Gc[*node], n)
				for j := range nodes {
					nodes[j] = newNode(h, "n", nil)
				}
				for j := range nodes {
					to := nodes[r.Intn(n)]
					w, _ := nodes[j].Get().edges.BorrowMut()
					w.Replace(append(w.Get(), to.Clone()))
					w.Release()
				}
				for j := n / 2; j < n; j++ {
					nodes[j].Drop()
				}
				b.StartTimer()

				h.Collect()
			}
		})
	}
}
