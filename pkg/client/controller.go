package client

import (
	"context"
	"sync"
	"time"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

// DefaultDebounce is the delay between the last keystroke and the dispatched
// search when using SetQuery.
const DefaultDebounce = 500 * time.Millisecond

// Result is one settled search delivered to the OnResult callback.
type Result struct {
	Hospitals   []entities.Hospital
	NoResults   bool
	HasExternal bool

	// CanRegister is set when the result contains directory-sourced records
	// and the current user is allowed to register a hospital. It drives the
	// "add this hospital" affordance.
	CanRegister bool

	Err error
}

// SearchController drives interactive hospital search on top of a Client.
// Queries typed via SetQuery are debounced; explicit submits go out
// immediately. Responses are applied in last-submitted-wins order: a search
// that returns after a newer one was dispatched is dropped, never rendered.
type SearchController struct {
	client   Client
	onResult func(Result)

	debounce   time.Duration
	authorized func() bool

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	closed     bool

	// deliverMu serializes the staleness check with the onResult call, so an
	// older generation can never deliver after a newer one.
	deliverMu sync.Mutex
}

// ControllerOption configures a SearchController.
type ControllerOption func(*SearchController)

// WithDebounce overrides the debounce interval for SetQuery.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *SearchController) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithAuthorization injects the capability check behind CanRegister.
// Without it no result offers registration.
func WithAuthorization(authorized func() bool) ControllerOption {
	return func(c *SearchController) {
		c.authorized = authorized
	}
}

// NewSearchController creates a controller that reports settled searches to
// onResult. The callback runs on the controller's dispatch goroutines, one
// settled result at a time is guaranteed per generation.
func NewSearchController(client Client, onResult func(Result), opts ...ControllerOption) *SearchController {
	c := &SearchController{
		client:   client,
		onResult: onResult,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery schedules a debounced search for the given term. A newer call
// before the delay elapses replaces the pending one.
func (c *SearchController) SetQuery(term string, searchType entities.SearchType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.dispatch(term, searchType)
	})
}

// Submit dispatches a search immediately, bypassing the debounce and
// cancelling any pending debounced query.
func (c *SearchController) Submit(term string, searchType entities.SearchType) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.dispatch(term, searchType)
}

// Close stops any pending dispatch and discards in-flight responses. The
// controller is unusable afterwards.
func (c *SearchController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// Invalidate anything still in flight.
	c.generation++
}

func (c *SearchController) dispatch(term string, searchType entities.SearchType) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	go func() {
		hospitals, err := c.client.SearchHospitals(context.Background(), entities.SearchRequest{
			SearchTerm: term,
			SearchType: searchType,
		})

		c.deliverMu.Lock()
		defer c.deliverMu.Unlock()

		c.mu.Lock()
		stale := c.closed || gen != c.generation
		c.mu.Unlock()
		if stale {
			return
		}

		result := Result{Hospitals: hospitals, Err: err}
		if err == nil {
			result.NoResults = len(hospitals) == 0
			for _, h := range hospitals {
				if h.IsExternal {
					result.HasExternal = true
					break
				}
			}
			if result.HasExternal && c.authorized != nil && c.authorized() {
				result.CanRegister = true
			}
		}

		if c.onResult != nil {
			c.onResult(result)
		}
	}()
}
