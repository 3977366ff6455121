package service

import (
	"context"
	"sync"
)

// opQueue admits one operation at a time, strictly in the order acquire was
// called. Each admitted operation waits for the one queued before it.
type opQueue struct {
	mu      sync.Mutex
	tail    chan struct{}
	pending int
}

// acquire blocks until every earlier operation released. A caller whose ctx
// ends while waiting still holds its place; the turn passes on when it comes.
func (q *opQueue) acquire(ctx context.Context) (func(), error) {
	done := make(chan struct{})

	q.mu.Lock()
	prev := q.tail
	q.tail = done
	q.pending++
	q.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			q.mu.Lock()
			q.pending--
			q.mu.Unlock()
			close(done)
		})
	}

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			go func() {
				<-prev
				release()
			}()
			return nil, ctx.Err()
		}
	}
	return release, nil
}

// len counts running plus waiting operations.
func (q *opQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
