package notify

import "sync/atomic"

// ReloadFunc adapts a plain function to a reload trigger
type ReloadFunc func()

func (f ReloadFunc) Fire() {
	if f != nil {
		f()
	}
}

// ReloadCounter counts how often it was fired
type ReloadCounter struct {
	fired atomic.Int64
	ch    chan struct{}
}

func NewReloadCounter() *ReloadCounter {
	return &ReloadCounter{ch: make(chan struct{}, 16)}
}

func (c *ReloadCounter) Fire() {
	c.fired.Add(1)
	select {
	case c.ch <- struct{}{}:
	default:
	}
}

func (c *ReloadCounter) Count() int {
	return int(c.fired.Load())
}

// Fired receives one value per Fire, up to the buffer size
func (c *ReloadCounter) Fired() <-chan struct{} {
	return c.ch
}

// Reloaders fires several triggers in order
type Reloaders []interface{ Fire() }

func (r Reloaders) Fire() {
	for _, t := range r {
		t.Fire()
	}
}
