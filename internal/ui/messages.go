package ui

import "courtiq/internal/progress"

type serviceCheckedMsg struct {
	Err error
}

type jobUpdateMsg struct {
	U progress.Update
}

type jobResultMsg struct {
	R progress.Result
}

type jobSavedMsg struct {
	JobID string
	Path  string
	Err   error
}

type allDoneMsg struct{}
