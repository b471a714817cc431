package utils

import (
	"runtime"
	"sync"
)

type ParallelOptions struct {
	Routines int
}

// ParallelMap runs proc over col with a bounded number of goroutines and returns
// the outputs in the order of col. The first error wins and stops new work.
func ParallelMap[T, O any](col []T, proc func(T) (O, error), opts ...ParallelOptions) ([]O, error) {
	routines := Max(Min(runtime.GOMAXPROCS(-1), runtime.NumCPU()/2)-1, 1)
	for _, o := range opts {
		if o.Routines > 0 {
			routines = o.Routines
		}
	}
	routines = Min(routines, Max(len(col), 1))

	result := make([]O, len(col))

	var (
		wg       sync.WaitGroup
		mutex    sync.Mutex
		firstErr error
	)

	failed := func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return firstErr != nil
	}

	input := make(chan int, routines)

	for i := 0; i < routines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range input {
				if failed() {
					continue
				}

				output, err := proc(col[idx])
				if err != nil {
					mutex.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mutex.Unlock()
					continue
				}

				result[idx] = output
			}
		}()
	}

	for i := range col {
		input <- i
	}
	close(input)

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return result, nil
}
