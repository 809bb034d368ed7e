package results

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"courtiq/internal/model"
)

func f64(v float64) *float64 { return &v }

func TestProjectComputesMissingPercentages(t *testing.T) {
	raw := model.RawResult{
		TotalFrames:     100,
		FramesWithPose:  75,
		JumpingFrames:   20,
		ShootingFrames:  15,
		DribblingFrames: 30,
	}
	p := Project(raw)

	if p.PosePercentage != 75 {
		t.Errorf("pose = %v, want 75", p.PosePercentage)
	}
	if p.JumpingPercentage != 27 { // 20/75 rounded
		t.Errorf("jumping = %v, want 27", p.JumpingPercentage)
	}
	if p.ShootingPercentage != 20 {
		t.Errorf("shooting = %v, want 20", p.ShootingPercentage)
	}
	if p.DribblingPercentage != 40 {
		t.Errorf("dribbling = %v, want 40", p.DribblingPercentage)
	}
	if p.FPS != nil {
		t.Errorf("fps = %v, want unavailable without duration", *p.FPS)
	}
}

func TestProjectPrefersSuppliedPercentages(t *testing.T) {
	raw := model.RawResult{
		TotalFrames:         200,
		FramesWithPose:      150,
		Duration:            f64(8.0),
		PosePercentage:      f64(75.25),
		JumpingFrames:       40,
		JumpingPercentage:   f64(26.67),
		ShootingFrames:      30,
		ShootingPercentage:  f64(20.0),
		DribblingFrames:     60,
		DribblingPercentage: f64(40.0),
		SampleFrames:        []string{"/static/a.jpg", "/static/b.jpg"},
		ResultID:            "65f0",
	}
	p := Project(raw)

	if p.PosePercentage != 75.25 || p.JumpingPercentage != 26.67 ||
		p.ShootingPercentage != 20.0 || p.DribblingPercentage != 40.0 {
		t.Errorf("supplied percentages were not passed through: %+v", p)
	}
	if p.FPS == nil || *p.FPS != 25 {
		t.Errorf("fps = %v, want 25", p.FPS)
	}
	if len(p.SampleFrames) != 2 || p.SampleFrames[0] != "/static/a.jpg" {
		t.Errorf("sample frames not passed through: %v", p.SampleFrames)
	}
	if p.ResultID != "65f0" {
		t.Errorf("result id = %q", p.ResultID)
	}

	// Idempotence: projecting again changes nothing.
	if !equalProjected(Project(raw), p) {
		t.Errorf("projection is not idempotent")
	}
}

// ProjectedResult contains a pointer and a slice, so compare field-wise.
func equalProjected(a, b model.ProjectedResult) bool {
	if a.TotalFrames != b.TotalFrames || a.FramesWithPose != b.FramesWithPose ||
		a.Duration != b.Duration || a.PosePercentage != b.PosePercentage ||
		a.JumpingPercentage != b.JumpingPercentage || a.ShootingPercentage != b.ShootingPercentage ||
		a.DribblingPercentage != b.DribblingPercentage || a.ResultID != b.ResultID {
		return false
	}
	if (a.FPS == nil) != (b.FPS == nil) {
		return false
	}
	if a.FPS != nil && *a.FPS != *b.FPS {
		return false
	}
	if len(a.SampleFrames) != len(b.SampleFrames) {
		return false
	}
	for i := range a.SampleFrames {
		if a.SampleFrames[i] != b.SampleFrames[i] {
			return false
		}
	}
	return true
}

func TestProjectZeroDenominators(t *testing.T) {
	t.Run("no pose frames", func(t *testing.T) {
		p := Project(model.RawResult{TotalFrames: 50, FramesWithPose: 0, JumpingFrames: 0})
		if p.PosePercentage != 0 {
			t.Errorf("pose = %v, want 0", p.PosePercentage)
		}
		if p.JumpingPercentage != 0 || p.ShootingPercentage != 0 || p.DribblingPercentage != 0 {
			t.Errorf("action percentages with zero pose frames: %+v", p)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		p := Project(model.RawResult{})
		if p.PosePercentage != 0 || p.FPS != nil {
			t.Errorf("empty payload projected to %+v", p)
		}
	})

	t.Run("zero duration gives no fps", func(t *testing.T) {
		p := Project(model.RawResult{TotalFrames: 100, Duration: f64(0)})
		if p.FPS != nil {
			t.Errorf("fps = %v, want unavailable", *p.FPS)
		}
	})
}

func TestWriteAndSave(t *testing.T) {
	p := Project(model.RawResult{TotalFrames: 100, FramesWithPose: 75, JumpingFrames: 20})

	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded["pose_percentage"] != 75.0 {
		t.Errorf("exported pose_percentage = %v", decoded["pose_percentage"])
	}
	if _, present := decoded["fps"]; present {
		t.Errorf("fps should be omitted when unavailable")
	}

	path := ExportPath(t.TempDir())
	if filepath.Base(path) != ExportFilename {
		t.Fatalf("ExportPath() = %q", path)
	}
	if err := Save(path, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestExportPathFor(t *testing.T) {
	if got := ExportPathFor("out", ""); got != filepath.Join("out", ExportFilename) {
		t.Errorf("ExportPathFor with empty name = %q", got)
	}
	want := filepath.Join("out", "game1-"+ExportFilename)
	if got := ExportPathFor("out", "game1.mp4"); got != want {
		t.Errorf("ExportPathFor() = %q, want %q", got, want)
	}
	if got := ExportPathFor("", "clip"); got != filepath.Join(".", "clip-"+ExportFilename) {
		t.Errorf("ExportPathFor with empty dir = %q", got)
	}
}
