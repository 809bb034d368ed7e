// Package results normalizes raw analysis payloads for display and export.
package results

import (
	"math"

	"courtiq/internal/model"
)

// Project normalizes a raw payload into a display-ready result. It never
// fails for well-formed input. Every ratio field in the output is defined:
// service-supplied when present, otherwise computed, and 0 when the
// denominator is 0.
func Project(raw model.RawResult) model.ProjectedResult {
	p := model.ProjectedResult{
		TotalFrames:     raw.TotalFrames,
		FramesWithPose:  raw.FramesWithPose,
		JumpingFrames:   raw.JumpingFrames,
		ShootingFrames:  raw.ShootingFrames,
		DribblingFrames: raw.DribblingFrames,
		SampleFrames:    raw.SampleFrames,
		ResultID:        raw.ResultID,
	}

	p.PosePercentage = pickPercent(raw.PosePercentage, raw.FramesWithPose, raw.TotalFrames)
	p.JumpingPercentage = pickPercent(raw.JumpingPercentage, raw.JumpingFrames, raw.FramesWithPose)
	p.ShootingPercentage = pickPercent(raw.ShootingPercentage, raw.ShootingFrames, raw.FramesWithPose)
	p.DribblingPercentage = pickPercent(raw.DribblingPercentage, raw.DribblingFrames, raw.FramesWithPose)

	if raw.Duration != nil {
		p.Duration = *raw.Duration
	}
	// FPS only when a usable duration exists; never a computed infinity.
	if raw.Duration != nil && *raw.Duration > 0 {
		fps := float64(raw.TotalFrames) / *raw.Duration
		p.FPS = &fps
	}

	return p
}

// pickPercent prefers the service-supplied value and otherwise computes
// round(count/denom*100), with 0 for an empty denominator.
func pickPercent(supplied *float64, count, denom int) float64 {
	if supplied != nil {
		return *supplied
	}
	if denom == 0 {
		return 0
	}
	return math.Round(float64(count) / float64(denom) * 100)
}
