package progress

import "courtiq/internal/model"

// Stage identifies a high-level step in the analysis lifecycle.
type Stage string

const (
	StageValidating Stage = "validating"
	StageUploading  Stage = "uploading"
	StageProcessing Stage = "processing"
	StageCompleted  Stage = "completed"
	StageError      Stage = "error"
)

// Update conveys progress or stage changes for a job.
// Percent is 0..100 when known; set to a negative value (e.g., -1) to mean unknown.
type Update struct {
	JobID   string
	Stage   Stage
	Percent float64 // 0..100, or <0 if unknown

	Status  model.JobStatus // remote task state during the processing stage
	Bytes   *int64          // optional cumulative bytes uploaded
	Message string          // short human-friendly status line
}

// Result is emitted once per job when it completes or fails.
type Result struct {
	JobID  string
	Result *model.ProjectedResult // nil on failure
	Err    error                  // nil on success
}

// Reporter is implemented by UI or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Result(r Result)
}
