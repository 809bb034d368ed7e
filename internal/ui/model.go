package ui

import (
	"context"
	"fmt"
	"path/filepath"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"courtiq/internal/api"
	"courtiq/internal/model"
	"courtiq/internal/progress"
	"courtiq/internal/results"
	"courtiq/internal/session"
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	client *api.Client

	// Service reachability
	svcChecked bool
	svcErr     error

	// Jobs
	files    []model.MediaFile
	opts     model.CLIOptions
	jobOrder []string
	jobs     map[string]*jobState
	workers  int
	running  int
	next     int // next index in files to start

	// UI
	width, height int
	styles        Styles

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, client *api.Client, files []model.MediaFile, opts model.CLIOptions) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	jobs := make(map[string]*jobState, len(files))
	order := make([]string, 0, len(files))
	for _, f := range files {
		id := uuid.NewString()
		js := newJobState(id, f, sty)
		js.bar = bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(40))
		jobs[id] = &js
		order = append(order, id)
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = 2
	}

	return Model{
		ctx:      c,
		cancel:   cancel,
		client:   client,
		files:    files,
		opts:     opts,
		jobs:     jobs,
		jobOrder: order,
		workers:  workers,
		styles:   sty,
		eventCh:  make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		sp := m.jobs[id].spinner
		cmds = append(cmds, sp.Tick)
	}
	// Listen for reporter events
	cmds = append(cmds, m.listenEventsCmd())
	// Probe the service before uploading anything
	cmds = append(cmds, m.checkServiceCmd())
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case serviceCheckedMsg:
		m.svcChecked = true
		m.svcErr = msg.Err
		if m.svcErr != nil {
			// Mark all as errored
			for _, id := range m.jobOrder {
				js := m.jobs[id]
				js.stage = progress.StageError
				js.status = fmt.Sprintf("Service unavailable: %v", m.svcErr)
				js.err = m.svcErr
				js.done = true
			}
			return m, tea.Quit
		}
		// Start initial workers
		return m.startNextWorkers()

	case jobUpdateMsg:
		u := msg.U
		if js, ok := m.jobs[u.JobID]; ok {
			js.stage = u.Stage
			js.percent = u.Percent
			js.status = u.Message
			if u.Bytes != nil {
				js.bytes = *u.Bytes
			}
		}
	case jobResultMsg:
		r := msg.R
		if js, ok := m.jobs[r.JobID]; ok && !js.done {
			js.done = true
			js.err = r.Err
			if r.Err == nil {
				js.stage = progress.StageCompleted
				js.percent = 100
				js.result = r.Result
				js.status = "Analysis complete"
			} else {
				js.stage = progress.StageError
				js.status = r.Err.Error()
				js.percent = -1
			}
			m.running--
			// Start next job if any remain
			return m.startNextWorkers()
		}
	case jobSavedMsg:
		if js, ok := m.jobs[msg.JobID]; ok {
			if msg.Err != nil {
				js.status = fmt.Sprintf("Analysis complete (save failed: %v)", msg.Err)
			} else {
				js.savedPath = msg.Path
				js.status = fmt.Sprintf("Saved: %s", filepath.Base(msg.Path))
			}
		}
	case allDoneMsg:
		return m, tea.Quit
	}

	// Update per-job components (spinner)
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	// Keep listening for events
	cmds = append(cmds, m.listenEventsCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	summary := m.viewSummary()
	if summary != "" {
		return m.viewHeader() + "\n\n" + m.viewJobs() + "\n" + summary
	}
	return m.viewHeader() + "\n\n" + m.viewJobs()
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return allDoneMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

func (m Model) checkServiceCmd() tea.Cmd {
	return func() tea.Msg {
		return serviceCheckedMsg{Err: m.client.Health(m.ctx)}
	}
}

// startNextWorkers launches job goroutines up to the worker limit. It runs
// inside Update so the scheduling counters survive into the returned model.
func (m Model) startNextWorkers() (tea.Model, tea.Cmd) {
	select {
	case <-m.ctx.Done():
		return m, tea.Quit
	default:
	}
	for m.running < m.workers && m.next < len(m.files) {
		idx := m.next
		jobID := m.jobOrder[idx]
		file := m.files[idx]
		m.next++
		m.running++
		if js := m.jobs[jobID]; js != nil {
			js.started = true
			js.status = "Queued"
			js.stage = progress.StageValidating
		}
		go m.runJob(jobID, file)
	}
	if m.next >= len(m.files) && m.running == 0 {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) runJob(jobID string, file model.MediaFile) {
	rep := teaReporter{ch: m.eventCh}

	sess := session.New(m.client,
		session.WithJobID(jobID),
		session.WithReporter(rep),
		session.WithPollInterval(m.opts.PollInterval),
	)
	defer sess.Close()

	if err := sess.Select(file); err != nil {
		rep.Result(progress.Result{JobID: jobID, Err: err})
		return
	}

	proj, err := sess.Submit(m.ctx)
	if err != nil || proj == nil {
		// The session already reported the failure; a canceled run stays
		// silent so the quit path is not raced by stale messages.
		return
	}

	if m.opts.SaveResults {
		path := results.ExportPath(m.opts.OutDir)
		if len(m.files) > 1 {
			path = results.ExportPathFor(m.opts.OutDir, file.Name)
		}
		saveErr := results.Save(path, *proj)
		select {
		case m.eventCh <- jobSavedMsg{JobID: jobID, Path: path, Err: saveErr}:
		case <-m.ctx.Done():
		}
	}
}

type teaReporter struct {
	ch chan tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	// Block on completion messages to ensure they're delivered
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.ch <- jobUpdateMsg{U: u}
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	// Always block on Result messages - they're critical
	r.ch <- jobResultMsg{R: res}
}
