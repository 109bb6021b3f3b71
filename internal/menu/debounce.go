package menu

import (
	"context"
	"sync"
	"time"

	"github.com/sunghokim128/littlelemon/internal/models"
)

// DefaultDebounceWait is the quiet period a search input must hold before
// its query executes.
const DefaultDebounceWait = 500 * time.Millisecond

// Debouncer coalesces a stream of search inputs so that only the most
// recent query after a quiet period executes, and a superseded query's
// result arriving late never overwrites a newer query's result. Each call
// to Set restarts the quiet-period timer; delivery order is intent order,
// not arrival order, enforced with a generation counter.
type Debouncer struct {
	controller *Controller
	wait       time.Duration
	deliver    func([]models.Section, error)

	mu        sync.Mutex
	timer     *time.Timer
	gen       uint64
	delivered uint64

	// deliverMu serializes the staleness check with the deliver callback,
	// so delivery happens in intent order.
	deliverMu sync.Mutex
}

// NewDebouncer creates a debouncer that runs queries against controller and
// hands results to deliver. A non-positive wait uses DefaultDebounceWait.
// deliver is called from the debouncer's own goroutines, one call at a time
// and in intent order; it may call Set but must not call Flush.
func NewDebouncer(controller *Controller, wait time.Duration, deliver func([]models.Section, error)) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounceWait
	}
	return &Debouncer{
		controller: controller,
		wait:       wait,
		deliver:    deliver,
	}
}

// Set records the latest search input. The query runs only if no newer
// input arrives within the quiet period.
func (d *Debouncer) Set(ctx context.Context, category, searchText string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		d.run(ctx, gen, category, searchText)
	})
}

// Flush executes the pending input immediately, skipping the remainder of
// its quiet period. No-op when nothing is pending.
func (d *Debouncer) Flush(ctx context.Context, category, searchText string) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.run(ctx, gen, category, searchText)
}

func (d *Debouncer) run(ctx context.Context, gen uint64, category, searchText string) {
	sections, err := d.controller.Query(ctx, category, searchText)

	// Holding deliverMu across the staleness check and the callback keeps
	// delivery in intent order: a newer generation cannot slip its delivery
	// in between an older one's check and its callback.
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	d.mu.Lock()
	// Drop the result if a newer query was issued, or if a newer query
	// already delivered. Either way this result is stale by intent order.
	stale := gen != d.gen || gen <= d.delivered
	if !stale {
		d.delivered = gen
	}
	d.mu.Unlock()

	if !stale {
		d.deliver(sections, err)
	}
}
