// Package poller drives the status loop for one analysis job.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"courtiq/internal/api"
	"courtiq/internal/model"
)

// DefaultInterval is the fixed poll period.
const DefaultInterval = 2 * time.Second

// StatusClient answers status queries for a job handle.
type StatusClient interface {
	Status(ctx context.Context, handle model.JobHandle) (api.StatusReport, error)
}

// Terminal is the single final outcome of a poll loop: either a raw result
// or a classified error, never both.
type Terminal struct {
	Result *model.RawResult
	Err    *model.ErrorInfo
}

// UpdateFunc receives non-terminal status changes.
type UpdateFunc func(status model.JobStatus)

// TerminalFunc receives the one terminal outcome.
type TerminalFunc func(t Terminal)

// Poller polls one job on a fixed interval until a terminal status.
//
// Exactly one terminal notification is delivered per handle, and after
// Cancel no callback of either kind fires, even for a response already in
// flight when cancellation was requested.
type Poller struct {
	client   StatusClient
	interval time.Duration

	mu     sync.Mutex
	done   bool
	cancel context.CancelFunc
}

// New constructs a Poller. interval <= 0 uses DefaultInterval.
func New(client StatusClient, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{client: client, interval: interval}
}

// Start begins polling. It returns immediately; callbacks fire from the
// poll goroutine. Start must be called at most once per Poller.
func (p *Poller) Start(ctx context.Context, handle model.JobHandle, onUpdate UpdateFunc, onTerminal TerminalFunc) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		cancel()
		return
	}
	p.cancel = cancel
	p.mu.Unlock()

	go p.loop(ctx, handle, onUpdate, onTerminal)
}

// Cancel stops the loop and suppresses any further callback. Safe to call
// concurrently and more than once.
func (p *Poller) Cancel() {
	p.mu.Lock()
	p.done = true
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (p *Poller) loop(ctx context.Context, handle model.JobHandle, onUpdate UpdateFunc, onTerminal TerminalFunc) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		report, err := p.client.Status(ctx, handle)

		// The request may have been in flight when Cancel was called;
		// decide delivery only after it returns.
		switch {
		case err != nil:
			p.finish(ctx, onTerminal, Terminal{Err: model.AsErrorInfo(err, model.ErrServerFailure)})
			return
		case report.Status == model.StatusSucceeded:
			if report.Result == nil {
				p.finish(ctx, onTerminal, Terminal{Err: model.NewError(model.ErrServerFailure,
					"job succeeded but the server returned no result")})
				return
			}
			p.finish(ctx, onTerminal, Terminal{Result: report.Result})
			return
		case report.Status == model.StatusFailed:
			msg := report.Error
			if msg == "" {
				msg = "Unknown error"
			}
			p.finish(ctx, onTerminal, Terminal{Err: model.NewError(model.ErrServerFailure,
				fmt.Sprintf("Processing failed: %s", msg))})
			return
		case report.Status.Known():
			p.deliverUpdate(ctx, onUpdate, report.Status)
		default:
			p.finish(ctx, onTerminal, Terminal{Err: model.NewError(model.ErrServerFailure,
				fmt.Sprintf("unexpected job status %q", report.Status))})
			return
		}
	}
}

// deliverUpdate invokes onUpdate unless the poller was cancelled or finished.
func (p *Poller) deliverUpdate(ctx context.Context, onUpdate UpdateFunc, status model.JobStatus) {
	p.mu.Lock()
	suppressed := p.done || ctx.Err() != nil
	p.mu.Unlock()
	if !suppressed && onUpdate != nil {
		onUpdate(status)
	}
}

// finish delivers the terminal outcome at most once, discarding it entirely
// when cancellation won the race.
func (p *Poller) finish(ctx context.Context, onTerminal TerminalFunc, t Terminal) {
	p.mu.Lock()
	suppressed := p.done || ctx.Err() != nil
	p.done = true
	p.mu.Unlock()
	if !suppressed && onTerminal != nil {
		onTerminal(t)
	}
}
