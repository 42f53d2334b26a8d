package gsmath

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// launch runs fn once for every primitive index in [0, n). Indices are
// claimed in fixed-size groups, the last group partially filled when n
// is not a multiple of GroupSize. Workers share nothing but the group
// counter; fn must only touch its own primitive's slice of the buffers,
// so no locking is needed. n <= 0 launches nothing.
func launch(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	groups := (n + GroupSize - 1) / GroupSize
	workers := runtime.NumCPU()
	if Serial || workers < 1 {
		workers = 1
	}
	if workers > groups {
		workers = groups
	}
	DebugLogOnce("launch: %d workers, groups of %d", workers, GroupSize)
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var next int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				g := int(atomic.AddInt64(&next, 1)) - 1
				if g >= groups {
					return
				}
				start := g * GroupSize
				end := imin(start+GroupSize, n)
				for i := start; i < end; i++ {
					fn(i)
				}
			}
		}()
	}
	wg.Wait()
}
