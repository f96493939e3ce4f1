// Package settings synchronizes an editable provider/model/key draft with the
// persisted configuration store.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"aisettings/internal/catalog"
	"aisettings/internal/notify"
)

// ReloadDelay separates a successful save from the reload trigger
const ReloadDelay = 1500 * time.Millisecond

// Notification texts
const (
	titleError        = "Error"
	titleSuccess      = "Success"
	messageLoadFailed = "Failed to load settings"
	messageSaved      = "Settings saved successfully"
	messageSaveFailed = "Failed to save settings"
)

// State of the dialog lifecycle
type State int

const (
	StateClosed State = iota
	StateLoading
	StateReady
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures a Controller. Only Store is required.
type Options struct {
	Store    Store
	Notifier Notifier
	Opener   LinkOpener
	Reload   ReloadTrigger
	Logger   *log.Logger

	// ReloadDelay overrides the default delay; zero means ReloadDelay
	ReloadDelay time.Duration

	// AfterFunc schedules f after d; defaults to time.AfterFunc
	AfterFunc func(d time.Duration, f func())
}

// Snapshot is a consistent copy of the controller state
type Snapshot struct {
	State      State
	Draft      Draft
	InFlight   bool
	Generation uint64

	// LastError is the failure of the most recent load or save, if any
	LastError error
}

// CanSave mirrors the enabled state of the save action
func (s Snapshot) CanSave() bool {
	return s.State == StateReady && !s.InFlight && s.Draft.APIKey != ""
}

// Controller owns one draft and sequences loads and saves against it.
// At most one load or save generation is current; results of older generations
// are dropped when they arrive.
type Controller struct {
	mu         sync.Mutex
	opts       Options
	state      State
	draft      Draft
	generation uint64
	inFlight   bool
	lastErr    error
}

// New creates a closed Controller
func New(opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, errors.New("settings store is required")
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Opener == nil {
		opts.Opener = noopOpener{}
	}
	if opts.Reload == nil {
		opts.Reload = noopReload{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.ReloadDelay <= 0 {
		opts.ReloadDelay = ReloadDelay
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return &Controller{opts: opts, state: StateClosed}, nil
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:      c.state,
		Draft:      c.draft.Clone(),
		InFlight:   c.inFlight,
		Generation: c.generation,
		LastError:  c.lastErr,
	}
}

// CanSave reports whether Save would be accepted now, apart from model validity
func (c *Controller) CanSave() bool {
	return c.Snapshot().CanSave()
}

// Open starts a new load cycle. The draft shows the defaults until the store
// answers. Opening while a previous cycle is still running supersedes it.
// The returned channel is closed once the load outcome was applied or dropped.
func (c *Controller) Open(ctx context.Context) <-chan struct{} {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.draft = DefaultDraft()
	c.inFlight = true
	c.lastErr = nil
	c.mu.Unlock()

	c.opts.Logger.Printf("load %d started", gen)

	done := make(chan struct{})
	go func() {
		defer close(done)
		cfg, err := c.opts.Store.Get(ctx)
		c.finishLoad(gen, func() (Draft, error) {
			if err != nil {
				return Draft{}, err
			}
			d, adjustments := DraftFromConfig(cfg)
			for _, a := range adjustments {
				c.opts.Logger.Printf("load %d: replaced %s %q with %q", gen, a.Field, a.From, a.To)
			}
			return d, nil
		})
	}()
	return done
}

func (c *Controller) finishLoad(gen uint64, result func() (Draft, error)) {
	d, err := result()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.opts.Logger.Printf("load %d superseded, result dropped", gen)
		return
	}
	c.state = StateReady
	c.inFlight = false
	if err != nil {
		c.lastErr = &Failure{Kind: LoadFailure, Err: err}
	} else {
		c.draft = d
	}
	failure := c.lastErr
	c.mu.Unlock()

	if failure != nil {
		c.opts.Logger.Printf("load %d: %v", gen, failure)
		c.opts.Notifier.Show(titleError, messageLoadFailed, notify.KindError)
		return
	}
	c.opts.Logger.Printf("load %d applied", gen)
}

// ChangeProvider selects p and resets every category to p's default model
func (c *Controller) ChangeProvider(p catalog.Provider) error {
	if !p.Valid() {
		return fmt.Errorf("unknown provider: %s", p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return fmt.Errorf("%w: %s", ErrNotReady, c.state)
	}
	c.draft.resetModels(p)
	return nil
}

// PickModel assigns id to category cat. The id is not checked against the
// catalog; callers only offer ids listed for the current provider.
func (c *Controller) PickModel(cat catalog.Category, id string) error {
	if !cat.Valid() {
		return fmt.Errorf("unknown category: %s", cat)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return fmt.Errorf("%w: %s", ErrNotReady, c.state)
	}
	c.draft.Models[cat] = id
	return nil
}

// SetAPIKey replaces the draft key verbatim
func (c *Controller) SetAPIKey(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return fmt.Errorf("%w: %s", ErrNotReady, c.state)
	}
	c.draft.APIKey = key
	return nil
}

// Save writes the draft to the store. It is rejected without a store call when
// the controller is not ready, another operation is in flight, the key is empty
// or a model selection is not offered by the provider.
// The returned channel is closed once the outcome was applied or dropped.
func (c *Controller) Save(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	switch {
	case c.inFlight:
		c.mu.Unlock()
		return nil, ErrBusy
	case c.state != StateReady:
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotReady, state)
	case c.draft.APIKey == "":
		c.mu.Unlock()
		return nil, ErrEmptyAPIKey
	}
	if err := c.draft.Validate(); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.generation++
	gen := c.generation
	c.state = StateSaving
	c.inFlight = true
	c.lastErr = nil
	record := c.draft.Config()
	c.mu.Unlock()

	c.opts.Logger.Printf("save %d started", gen)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ok, err := c.opts.Store.Set(ctx, record)
		c.finishSave(gen, ok, err)
	}()
	return done, nil
}

func (c *Controller) finishSave(gen uint64, ok bool, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.opts.Logger.Printf("save %d superseded, result dropped", gen)
		return
	}
	c.inFlight = false
	if err == nil && ok {
		c.state = StateClosed
		c.draft = Draft{}
		c.mu.Unlock()

		c.opts.Logger.Printf("save %d succeeded, reload in %s", gen, c.opts.ReloadDelay)
		c.opts.Notifier.Show(titleSuccess, messageSaved, notify.KindSuccess)
		c.opts.AfterFunc(c.opts.ReloadDelay, c.opts.Reload.Fire)
		return
	}

	failure := &Failure{Kind: SaveFailure, Err: err}
	c.state = StateReady
	c.lastErr = failure
	c.mu.Unlock()

	c.opts.Logger.Printf("save %d: %v", gen, failure)
	c.opts.Notifier.Show(titleError, messageSaveFailed, notify.KindError)
}

// Close discards the draft. Results of running operations are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed && !c.inFlight {
		return
	}
	c.generation++
	c.state = StateClosed
	c.draft = Draft{}
	c.inFlight = false
}

// OpenHelp opens the key management page of the selected provider.
// It does not block on the opener.
func (c *Controller) OpenHelp() string {
	c.mu.Lock()
	provider := c.draft.Provider
	c.mu.Unlock()
	if !provider.Valid() {
		provider = catalog.DefaultProvider
	}

	url := catalog.Info(provider).HelpURL
	go func() {
		if err := c.opts.Opener.Open(url); err != nil {
			c.opts.Logger.Printf("failed to open %s: %v", url, err)
		}
	}()
	return url
}
