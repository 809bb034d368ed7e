package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"courtiq/internal/model"
	"courtiq/internal/progress"
)

type jobState struct {
	id     string
	file   model.MediaFile
	stage  progress.Stage
	status string
	err    error
	done   bool

	result    *model.ProjectedResult
	savedPath string
	bytes     int64
	percent   float64 // -1 means unknown

	spinner spinner.Model
	bar     bubblesprogress.Model

	started bool
}

func newJobState(id string, file model.MediaFile, styles Styles) jobState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return jobState{
		id:      id,
		file:    file,
		stage:   progress.StageValidating,
		status:  "Queued",
		percent: -1,
		spinner: sp,
		bar:     bar,
	}
}
