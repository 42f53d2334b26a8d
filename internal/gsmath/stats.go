package gsmath

import (
	"runtime"
	"sync"
)

// countVisible counts set entries of a visibility mask, split across
// workers like any other launch.
func countVisible(visible []bool) int {
	n := len(visible)
	if n == 0 {
		return 0
	}
	workers := runtime.NumCPU()
	if Serial || workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	per, rem := n/workers, n%workers
	var wg sync.WaitGroup
	counts := make(chan int, workers)

	start := 0
	for w := 0; w < workers; w++ {
		span := per
		if w < rem {
			span++
		}
		lo, hi := start, start+span
		start = hi
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := 0
			for i := lo; i < hi; i++ {
				if visible[i] {
					local++
				}
			}
			counts <- local
		}()
	}

	wg.Wait()
	close(counts)

	total := 0
	for c := range counts {
		total += c
	}
	return total
}
