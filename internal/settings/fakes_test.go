package settings

import (
	"context"
	"sync"
	"testing"
	"time"

	"aisettings/config/models"
)

// staticStore answers immediately with fixed results
type staticStore struct {
	mu       sync.Mutex
	cfg      models.Config
	getErr   error
	setOK    bool
	setErr   error
	setCalls int
	lastSet  models.Config
}

func (s *staticStore) Get(context.Context) (models.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.getErr
}

func (s *staticStore) Set(_ context.Context, cfg models.Config) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	s.lastSet = cfg
	return s.setOK, s.setErr
}

func (s *staticStore) SetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}

type getReply struct {
	cfg models.Config
	err error
}

type setReply struct {
	ok  bool
	err error
}

type pendingGet struct {
	ctx   context.Context
	reply chan getReply
}

type pendingSet struct {
	cfg   models.Config
	reply chan setReply
}

// gateStore blocks every call until the test answers it
type gateStore struct {
	gets chan *pendingGet
	sets chan *pendingSet

	mu       sync.Mutex
	setCalls int
}

func newGateStore() *gateStore {
	return &gateStore{gets: make(chan *pendingGet, 8), sets: make(chan *pendingSet, 8)}
}

func (s *gateStore) Get(ctx context.Context) (models.Config, error) {
	p := &pendingGet{ctx: ctx, reply: make(chan getReply, 1)}
	s.gets <- p
	r := <-p.reply
	return r.cfg, r.err
}

func (s *gateStore) Set(_ context.Context, cfg models.Config) (bool, error) {
	s.mu.Lock()
	s.setCalls++
	s.mu.Unlock()

	p := &pendingSet{cfg: cfg, reply: make(chan setReply, 1)}
	s.sets <- p
	r := <-p.reply
	return r.ok, r.err
}

func (s *gateStore) SetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}

func (s *gateStore) nextGet(t *testing.T) *pendingGet {
	t.Helper()
	select {
	case p := <-s.gets:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Get")
		return nil
	}
}

func (s *gateStore) nextSet(t *testing.T) *pendingSet {
	t.Helper()
	select {
	case p := <-s.sets:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Set")
		return nil
	}
}

// fakeClock captures scheduled callbacks instead of running them
type fakeClock struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delays = append(c.delays, d)
	c.funcs = append(c.funcs, f)
}

func (c *fakeClock) scheduled() ([]time.Duration, []func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...), append([]func(){}, c.funcs...)
}

type openerFunc func(string) error

func (f openerFunc) Open(url string) error { return f(url) }

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for operation")
	}
}
