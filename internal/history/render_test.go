package history

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"courtiq/internal/model"
)

func TestRenderResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderResults(&buf, nil)
	assert.Contains(t, buf.String(), "No analyses found.")
}

// Stored rates arrive as fractions, the way the service computes them
// (frames_with_pose / total_frames and so on); rendering must scale them
// to percentages.
func TestRenderResultsTable(t *testing.T) {
	var buf bytes.Buffer
	RenderResults(&buf, []model.StoredResult{
		{
			ID:                  "66f1aa00bb11cc22dd33ee44",
			VideoName:           "game1.mp4",
			TotalFrames:         900,
			DetectionRate:       0.75,
			JumpingPercentage:   0.12,
			ShootingPercentage:  0.30,
			DribblingPercentage: 0.41,
			CreatedAt:           "2026-08-12T14:03:22Z",
		},
	})
	out := buf.String()
	assert.Contains(t, out, "66f1aa00")
	assert.NotContains(t, out, "66f1aa00bb11cc22dd33ee44")
	assert.Contains(t, out, "game1.mp4")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "12%")
	assert.Contains(t, out, "30%")
	assert.Contains(t, out, "41%")
	assert.Contains(t, out, "2026-08-12 14:03")
	assert.Contains(t, out, "1 result(s)")
}

func TestRenderResultDetail(t *testing.T) {
	var buf bytes.Buffer
	RenderResult(&buf, model.StoredResult{
		ID:             "abc",
		VideoName:      "drill.mov",
		TotalFrames:    75,
		FramesWithPose: 60,
		DetectionRate:  0.8,
		Duration:       150,
	})
	out := buf.String()
	assert.Contains(t, out, "drill.mov")
	assert.Contains(t, out, "60 frames (80.0%)")
	assert.Contains(t, out, "2m30s")
}

func TestRenderStats(t *testing.T) {
	var buf bytes.Buffer
	RenderStats(&buf, model.StatsSummary{
		TotalAnalyses:    4,
		TotalFrames:      3600,
		AvgDetectionRate: 0.667,
		AvgDuration:      180,
	})
	out := buf.String()
	assert.Contains(t, out, "Analyses:          4")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "3m")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", formatDuration(0))
	assert.Equal(t, "45s", formatDuration(45))
	assert.Equal(t, "1m5s", formatDuration(65))
	assert.Equal(t, "2m", formatDuration(120))
}
