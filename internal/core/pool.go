package core

import (
	"context"
	"sync"
)

// Pool bounds the number of scan tasks running at once
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with size slots
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Size returns the number of slots
func (p *Pool) Size() int {
	return cap(p.slots)
}

// Go waits for a free slot and runs fn in a new goroutine tracked by wg.
// fn may call release to give its slot back early; the slot is released
// when fn returns in any case. Go returns ctx's error if the context ends
// before a slot frees up, in which case fn never runs.
func (p *Pool) Go(ctx context.Context, wg *sync.WaitGroup, fn func(release func())) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		var once sync.Once
		release := func() {
			once.Do(func() { <-p.slots })
		}
		defer release()

		fn(release)
	}()

	return nil
}
