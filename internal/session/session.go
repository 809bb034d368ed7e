// Package session owns the analysis job lifecycle: validate, upload, poll,
// project, publish-or-fail.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"courtiq/internal/api"
	"courtiq/internal/media"
	"courtiq/internal/model"
	"courtiq/internal/poller"
	"courtiq/internal/progress"
	"courtiq/internal/results"
)

// DefaultCompleteDelay is how long a finished result stays on screen before
// the completion notification fires.
const DefaultCompleteDelay = 3 * time.Second

// Phase is the externally observable lifecycle position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseUploading
	PhasePolling
	PhaseComplete
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseUploading:
		return "uploading"
	case PhasePolling:
		return "polling"
	case PhaseComplete:
		return "complete"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the session's single observable state. Exactly one State is
// current at any time; only the session mutates it.
type State struct {
	Phase    Phase
	Progress float64                // 0..100 synthetic estimate
	Status   model.JobStatus        // remote task state while polling
	Result   *model.ProjectedResult // set in PhaseComplete
	Err      *model.ErrorInfo       // set in PhaseFailed
}

// Service is the remote surface a session needs: submit and poll.
type Service interface {
	Analyze(ctx context.Context, file model.MediaFile, onProgress api.ProgressFunc) (model.JobHandle, error)
	Status(ctx context.Context, handle model.JobHandle) (api.StatusReport, error)
}

// Session drives one file through the analysis service. A session may be
// reused for repeated select/submit cycles; a new submission first cancels
// any run still in flight.
type Session struct {
	id            string
	service       Service
	interval      time.Duration
	completeDelay time.Duration
	reporter      progress.Reporter
	onComplete    func()

	mu          sync.Mutex
	file        *model.MediaFile
	state       State
	est         progress.Estimator
	runCancel   context.CancelFunc
	runDone     chan struct{}
	poll        *poller.Poller
	notifyTimer *time.Timer
	closed      bool
}

// Option configures a Session.
type Option func(*Session)

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(r progress.Reporter) Option {
	return func(s *Session) {
		s.reporter = r
	}
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithPollInterval overrides the status poll period.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		s.interval = d
	}
}

// WithCompleteDelay overrides the delay before the completion notification.
func WithCompleteDelay(d time.Duration) Option {
	return func(s *Session) {
		s.completeDelay = d
	}
}

// WithOnComplete registers the collaborator notified after a successful
// analysis (e.g. to switch the surrounding UI to the history view).
// Best-effort: invoked once after the display delay, never retried.
func WithOnComplete(fn func()) Option {
	return func(s *Session) {
		s.onComplete = fn
	}
}

// New constructs a Session with defaults for missing options.
func New(service Service, opts ...Option) *Session {
	s := &Session{
		service:       service,
		interval:      poller.DefaultInterval,
		completeDelay: DefaultCompleteDelay,
		state:         State{Phase: PhaseIdle},
	}
	for _, o := range opts {
		o(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s
}

// ID returns the session's job identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the current observable state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Select stores the file for the next submission, clearing any prior
// terminal state. A file that fails validation is rejected up front and not
// stored, so a later Submit is a no-op rather than a network call.
// Selecting while a run is in flight supersedes it: the run is canceled and
// drained first, so it cannot republish over the fresh idle state.
func (s *Session) Select(file model.MediaFile) error {
	if err := media.Validate(file); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.NewError(model.ErrClientSetup, "session is closed")
	}
	prevCancel, prevDone := s.runCancel, s.runDone
	s.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.NewError(model.ErrClientSetup, "session is closed")
	}
	s.file = &file
	s.state = State{Phase: PhaseIdle}
	s.est = progress.Estimator{}
	return nil
}

// Submit runs the full lifecycle for the selected file and blocks until a
// terminal state or cancellation. The observable State and the reporter
// track intermediate transitions; concurrent callers can watch State or
// call Cancel.
//
// A Submit issued while a prior run is in flight cancels that run first.
func (s *Session) Submit(ctx context.Context) (*model.ProjectedResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, model.NewError(model.ErrClientSetup, "session is closed")
	}
	prevCancel, prevDone := s.runCancel, s.runDone
	s.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	defer close(done)
	defer cancel()

	s.mu.Lock()
	s.runCancel, s.runDone = cancel, done
	s.est = progress.Estimator{}
	file := s.file
	s.mu.Unlock()

	if file == nil {
		// No valid file was ever selected; stay Idle, touch no network.
		return nil, model.NewError(model.ErrClientSetup, "Please select a video file")
	}

	s.publish(runCtx, State{Phase: PhaseValidating})
	if err := media.Validate(*file); err != nil {
		ei := model.AsErrorInfo(err, model.ErrClientSetup)
		s.fail(runCtx, ei)
		return nil, ei
	}

	s.publish(runCtx, State{Phase: PhaseUploading, Progress: 0})
	handle, err := s.service.Analyze(runCtx, *file, func(frac float64) {
		s.publishUpload(runCtx, frac)
	})
	if err != nil {
		if runCtx.Err() != nil {
			return nil, runCtx.Err()
		}
		ei := model.AsErrorInfo(err, model.ErrServerFailure)
		s.fail(runCtx, ei)
		return nil, ei
	}

	// Upload done; the processing ramp starts from the upload ceiling.
	s.publishPolling(runCtx, model.StatusProcessing, false)

	p := poller.New(s.service, s.interval)
	s.mu.Lock()
	s.poll = p
	s.mu.Unlock()

	terminal := make(chan poller.Terminal, 1)
	p.Start(runCtx, handle,
		func(status model.JobStatus) { s.publishPolling(runCtx, status, true) },
		func(t poller.Terminal) { terminal <- t },
	)

	select {
	case <-runCtx.Done():
		p.Cancel()
		return nil, runCtx.Err()
	case t := <-terminal:
		if t.Err != nil {
			s.fail(runCtx, t.Err)
			return nil, t.Err
		}
		proj := results.Project(*t.Result)
		s.complete(runCtx, &proj)
		return &proj, nil
	}
}

// Cancel tears down the in-flight run, if any. No state transition is
// observable afterward; queued responses are discarded.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.runCancel
	p := s.poll
	s.mu.Unlock()
	if p != nil {
		p.Cancel()
	}
	if cancel != nil {
		cancel()
	}
}

// Close releases the session on every exit path: cancels any run and stops
// the pending completion notification. The session is unusable afterward.
func (s *Session) Close() {
	s.Cancel()
	s.mu.Lock()
	s.closed = true
	timer := s.notifyTimer
	s.notifyTimer = nil
	s.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
}

// publish replaces the observable state unless the run was torn down.
func (s *Session) publish(ctx context.Context, st State) {
	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.state = st
	s.mu.Unlock()
	s.report(st)
}

// publishUpload folds a fractional upload completion into the estimate.
// Called from the transport's read path, possibly off the Submit goroutine.
func (s *Session) publishUpload(ctx context.Context, frac float64) {
	s.mu.Lock()
	if s.closed || ctx.Err() != nil || s.state.Phase != PhaseUploading {
		s.mu.Unlock()
		return
	}
	st := State{Phase: PhaseUploading, Progress: s.est.Upload(frac)}
	s.state = st
	var sent *int64
	if s.file != nil && s.file.SizeBytes > 0 {
		n := int64(frac * float64(s.file.SizeBytes))
		sent = &n
	}
	s.mu.Unlock()
	s.reportWith(st, sent)
}

// publishPolling records a poll-phase status, optionally advancing the ramp.
func (s *Session) publishPolling(ctx context.Context, status model.JobStatus, tick bool) {
	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	pct := s.est.Current()
	if tick {
		pct = s.est.Tick()
	}
	st := State{Phase: PhasePolling, Progress: pct, Status: status}
	s.state = st
	s.mu.Unlock()
	s.report(st)
}

func (s *Session) complete(ctx context.Context, proj *model.ProjectedResult) {
	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	st := State{Phase: PhaseComplete, Progress: s.est.Finish(), Status: model.StatusSucceeded, Result: proj}
	s.state = st
	if s.onComplete != nil {
		if s.notifyTimer != nil {
			s.notifyTimer.Stop()
		}
		s.notifyTimer = time.AfterFunc(s.completeDelay, s.onComplete)
	}
	s.mu.Unlock()

	s.report(st)
	if s.reporter != nil {
		s.reporter.Result(progress.Result{JobID: s.id, Result: proj})
	}
}

func (s *Session) fail(ctx context.Context, ei *model.ErrorInfo) {
	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	st := State{Phase: PhaseFailed, Progress: s.est.Current(), Err: ei}
	s.state = st
	s.mu.Unlock()

	s.report(st)
	if s.reporter != nil {
		s.reporter.Result(progress.Result{JobID: s.id, Err: ei})
	}
}

// report translates a state into a reporter update.
func (s *Session) report(st State) {
	s.reportWith(st, nil)
}

func (s *Session) reportWith(st State, bytes *int64) {
	if s.reporter == nil {
		return
	}
	u := progress.Update{JobID: s.id, Percent: st.Progress, Status: st.Status, Bytes: bytes}
	switch st.Phase {
	case PhaseValidating:
		u.Stage = progress.StageValidating
		u.Message = "Checking video file"
	case PhaseUploading:
		u.Stage = progress.StageUploading
		u.Message = "Uploading video"
	case PhasePolling:
		u.Stage = progress.StageProcessing
		u.Message = fmt.Sprintf("Analyzing video (%s)", st.Status)
	case PhaseComplete:
		u.Stage = progress.StageCompleted
		u.Message = "Analysis complete"
	case PhaseFailed:
		u.Stage = progress.StageError
		u.Percent = -1
		if st.Err != nil {
			u.Message = st.Err.Message
		}
	default:
		return
	}
	s.reporter.Update(u)
}
