package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"courtiq/internal/api"
	"courtiq/internal/model"
)

const testInterval = 5 * time.Millisecond

// scriptedClient returns canned reports in order, repeating the last one.
type scriptedClient struct {
	mu      sync.Mutex
	script  []func() (api.StatusReport, error)
	calls   int
	release chan struct{} // when non-nil, Status blocks until closed
}

func (c *scriptedClient) Status(ctx context.Context, handle model.JobHandle) (api.StatusReport, error) {
	c.mu.Lock()
	idx := c.calls
	if idx >= len(c.script) {
		idx = len(c.script) - 1
	}
	c.calls++
	step := c.script[idx]
	release := c.release
	c.mu.Unlock()

	if release != nil {
		<-release
	}
	return step()
}

func processing() (api.StatusReport, error) {
	return api.StatusReport{Status: model.StatusProcessing}, nil
}

type recorder struct {
	mu        sync.Mutex
	updates   []model.JobStatus
	terminals []Terminal
}

func (r *recorder) onUpdate(s model.JobStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, s)
}

func (r *recorder) onTerminal(t Terminal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminals = append(r.terminals, t)
}

func (r *recorder) snapshot() ([]model.JobStatus, []Terminal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.JobStatus(nil), r.updates...), append([]Terminal(nil), r.terminals...)
}

func waitForTerminal(t *testing.T, r *recorder) Terminal {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		_, terms := r.snapshot()
		if len(terms) > 0 {
			return terms[0]
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for terminal notification")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestPollerSuccess(t *testing.T) {
	raw := &model.RawResult{TotalFrames: 100, FramesWithPose: 75}
	client := &scriptedClient{script: []func() (api.StatusReport, error){
		processing,
		processing,
		func() (api.StatusReport, error) {
			return api.StatusReport{Status: model.StatusSucceeded, Result: raw}, nil
		},
	}}

	var rec recorder
	p := New(client, testInterval)
	p.Start(context.Background(), model.JobHandle{TaskID: "abc"}, rec.onUpdate, rec.onTerminal)

	term := waitForTerminal(t, &rec)
	if term.Err != nil {
		t.Fatalf("terminal error = %v, want result", term.Err)
	}
	if term.Result != raw {
		t.Fatalf("terminal result = %+v, want the raw payload", term.Result)
	}

	updates, _ := rec.snapshot()
	if len(updates) != 2 {
		t.Fatalf("updates = %v, want two PROCESSING ticks", updates)
	}
	for _, u := range updates {
		if u != model.StatusProcessing {
			t.Errorf("update = %v, want PROCESSING", u)
		}
	}

	// Exactly one terminal, ever.
	time.Sleep(5 * testInterval)
	_, terms := rec.snapshot()
	if len(terms) != 1 {
		t.Fatalf("terminal notifications = %d, want 1", len(terms))
	}
}

func TestPollerFailureStatus(t *testing.T) {
	client := &scriptedClient{script: []func() (api.StatusReport, error){
		func() (api.StatusReport, error) {
			return api.StatusReport{Status: model.StatusFailed, Error: "decode error"}, nil
		},
	}}

	var rec recorder
	p := New(client, testInterval)
	p.Start(context.Background(), model.JobHandle{TaskID: "abc"}, rec.onUpdate, rec.onTerminal)

	term := waitForTerminal(t, &rec)
	if term.Err == nil {
		t.Fatal("want terminal error")
	}
	if term.Err.Class != model.ErrServerFailure {
		t.Errorf("class = %v, want server_failure", term.Err.Class)
	}
	if got := term.Err.Message; got != "Processing failed: decode error" {
		t.Errorf("message = %q", got)
	}
}

func TestPollerTransportError(t *testing.T) {
	client := &scriptedClient{script: []func() (api.StatusReport, error){
		func() (api.StatusReport, error) {
			return api.StatusReport{}, model.NewError(model.ErrNetworkUnreachable, "no response from server")
		},
	}}

	var rec recorder
	p := New(client, testInterval)
	p.Start(context.Background(), model.JobHandle{TaskID: "abc"}, rec.onUpdate, rec.onTerminal)

	term := waitForTerminal(t, &rec)
	if term.Err == nil || term.Err.Class != model.ErrNetworkUnreachable {
		t.Fatalf("terminal = %+v, want network_unreachable error", term)
	}

	// A single failed poll terminates the loop; no retries happen.
	time.Sleep(5 * testInterval)
	client.mu.Lock()
	calls := client.calls
	client.mu.Unlock()
	if calls != 1 {
		t.Fatalf("status calls = %d, want 1", calls)
	}
}

func TestPollerSuccessWithoutResult(t *testing.T) {
	client := &scriptedClient{script: []func() (api.StatusReport, error){
		func() (api.StatusReport, error) {
			return api.StatusReport{Status: model.StatusSucceeded}, nil
		},
	}}

	var rec recorder
	p := New(client, testInterval)
	p.Start(context.Background(), model.JobHandle{TaskID: "abc"}, rec.onUpdate, rec.onTerminal)

	term := waitForTerminal(t, &rec)
	if term.Err == nil || term.Err.Class != model.ErrServerFailure {
		t.Fatalf("terminal = %+v, want server_failure for missing result", term)
	}
}

func TestPollerCancelDiscardsInFlightResponse(t *testing.T) {
	release := make(chan struct{})
	client := &scriptedClient{
		release: release,
		script: []func() (api.StatusReport, error){
			func() (api.StatusReport, error) {
				return api.StatusReport{Status: model.StatusSucceeded, Result: &model.RawResult{}}, nil
			},
		},
	}

	var rec recorder
	p := New(client, testInterval)
	p.Start(context.Background(), model.JobHandle{TaskID: "abc"}, rec.onUpdate, rec.onTerminal)

	// Wait until the first request is in flight, then cancel and let the
	// response land.
	deadline := time.After(2 * time.Second)
	for {
		client.mu.Lock()
		started := client.calls > 0
		client.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("poll request never started")
		case <-time.After(time.Millisecond):
		}
	}
	p.Cancel()
	close(release)

	time.Sleep(10 * testInterval)
	updates, terms := rec.snapshot()
	if len(updates) != 0 || len(terms) != 0 {
		t.Fatalf("callbacks after cancel: updates=%v terminals=%v", updates, terms)
	}
}

func TestPollerCancelBeforeStart(t *testing.T) {
	client := &scriptedClient{script: []func() (api.StatusReport, error){processing}}
	var rec recorder
	p := New(client, testInterval)
	p.Cancel()
	p.Start(context.Background(), model.JobHandle{TaskID: "abc"}, rec.onUpdate, rec.onTerminal)

	time.Sleep(5 * testInterval)
	client.mu.Lock()
	calls := client.calls
	client.mu.Unlock()
	if calls != 0 {
		t.Fatalf("status calls after pre-start cancel = %d, want 0", calls)
	}
}
