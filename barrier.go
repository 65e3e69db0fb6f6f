package ecs

import "sync"

// cyclicBarrier is a reusable rendezvous point for a fixed number of
// goroutines: every call to SignalAndWait blocks until all n parties have
// called it, then releases all of them together, and resets itself for
// the next round. The dispatcher uses two of these back to back, one to
// start a bucket and one to confirm it finished.
type cyclicBarrier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	parties  int
	waiting  int
	round    int
}

func newCyclicBarrier(parties int) *cyclicBarrier {
	b := &cyclicBarrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// SignalAndWait blocks the calling goroutine until all parties have
// called SignalAndWait for the current round.
func (b *cyclicBarrier) SignalAndWait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	round := b.round
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.round++
		b.cond.Broadcast()
		return
	}
	for b.round == round {
		b.cond.Wait()
	}
}
