package model

// JobStatus is the remote task state as reported by the analysis service.
type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusStarted    JobStatus = "STARTED"
	StatusProcessing JobStatus = "PROCESSING"
	StatusSucceeded  JobStatus = "SUCCESS"
	StatusFailed     JobStatus = "FAILURE"
)

// Terminal reports whether no further status transitions follow.
func (s JobStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Known reports whether the status is one the client understands.
func (s JobStatus) Known() bool {
	switch s {
	case StatusPending, StatusStarted, StatusProcessing, StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

// MediaFile is a locally selected video file. Immutable once constructed;
// re-selection replaces it wholesale.
type MediaFile struct {
	Path      string
	Name      string
	MIMEType  string
	SizeBytes int64
}

// JobHandle identifies one server-side analysis task.
type JobHandle struct {
	TaskID string `json:"task_id"`
}

// RawResult is the analysis payload exactly as the service returns it.
// Percentage fields and duration are optional; the projector fills the gaps.
type RawResult struct {
	TotalFrames         int      `json:"total_frames"`
	FramesWithPose      int      `json:"frames_with_pose"`
	Duration            *float64 `json:"duration,omitempty"`
	PosePercentage      *float64 `json:"pose_percentage,omitempty"`
	JumpingFrames       int      `json:"jumping_frames,omitempty"`
	JumpingPercentage   *float64 `json:"jumping_percentage,omitempty"`
	ShootingFrames      int      `json:"shooting_frames,omitempty"`
	ShootingPercentage  *float64 `json:"shooting_percentage,omitempty"`
	DribblingFrames     int      `json:"dribbling_frames,omitempty"`
	DribblingPercentage *float64 `json:"dribbling_percentage,omitempty"`
	SampleFrames        []string `json:"sample_frames,omitempty"`
	ResultID            string   `json:"result_id,omitempty"`
}

// ProjectedResult is a RawResult with every ratio field guaranteed present.
// FPS is nil when the service did not report a usable duration.
type ProjectedResult struct {
	TotalFrames         int      `json:"total_frames"`
	FramesWithPose      int      `json:"frames_with_pose"`
	Duration            float64  `json:"duration"`
	PosePercentage      float64  `json:"pose_percentage"`
	JumpingFrames       int      `json:"jumping_frames"`
	JumpingPercentage   float64  `json:"jumping_percentage"`
	ShootingFrames      int      `json:"shooting_frames"`
	ShootingPercentage  float64  `json:"shooting_percentage"`
	DribblingFrames     int      `json:"dribbling_frames"`
	DribblingPercentage float64  `json:"dribbling_percentage"`
	FPS                 *float64 `json:"fps,omitempty"`
	SampleFrames        []string `json:"sample_frames,omitempty"`
	ResultID            string   `json:"result_id,omitempty"`
}

// StoredResult is one entry from the service's result history.
type StoredResult struct {
	ID                  string  `json:"_id"`
	VideoName           string  `json:"video_name"`
	TotalFrames         int     `json:"total_frames"`
	FramesWithPose      int     `json:"frames_with_pose"`
	DetectionRate       float64 `json:"detection_rate"`
	JumpingFrames       int     `json:"jumping_frames"`
	ShootingFrames      int     `json:"shooting_frames"`
	DribblingFrames     int     `json:"dribbling_frames"`
	JumpingPercentage   float64 `json:"jumping_percentage"`
	ShootingPercentage  float64 `json:"shooting_percentage"`
	DribblingPercentage float64 `json:"dribbling_percentage"`
	Duration            float64 `json:"duration"`
	CreatedAt           string  `json:"created_at"`
}

// StatsSummary aggregates all stored analyses.
type StatsSummary struct {
	TotalAnalyses        int     `json:"total_analyses"`
	TotalFrames          int64   `json:"total_frames"`
	TotalPoseFrames      int64   `json:"total_pose_frames"`
	TotalJumpingFrames   int64   `json:"total_jumping_frames"`
	TotalShootingFrames  int64   `json:"total_shooting_frames"`
	TotalDribblingFrames int64   `json:"total_dribbling_frames"`
	AvgDetectionRate     float64 `json:"avg_detection_rate"`
	AvgDuration          float64 `json:"avg_duration"`
}
