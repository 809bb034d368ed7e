package history

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"courtiq/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// RenderResults writes a table of stored analyses, newest first as returned
// by the service.
func RenderResults(w io.Writer, results []model.StoredResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No analyses found.")
		return
	}
	// The header row goes through the tabwriter unstyled so escape
	// sequences cannot skew the column widths.
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVIDEO\tFRAMES\tPOSE\tJUMP\tSHOT\tDRIBBLE\tDATE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f%%\t%.0f%%\t%.0f%%\t%.0f%%\t%s\n",
			shortID(r.ID),
			truncateName(r.VideoName, 32),
			r.TotalFrames,
			pct(r.DetectionRate),
			pct(r.JumpingPercentage),
			pct(r.ShootingPercentage),
			pct(r.DribblingPercentage),
			formatDate(r.CreatedAt),
		)
	}
	tw.Flush()
	fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("%d result(s)", len(results))))
}

// RenderResult writes the full detail of one stored analysis.
func RenderResult(w io.Writer, r model.StoredResult) {
	fmt.Fprintln(w, headerStyle.Render(r.VideoName))
	fmt.Fprintf(w, "  ID:              %s\n", r.ID)
	fmt.Fprintf(w, "  Analyzed:        %s\n", formatDate(r.CreatedAt))
	fmt.Fprintf(w, "  Total frames:    %d\n", r.TotalFrames)
	fmt.Fprintf(w, "  Pose detected:   %d frames (%.1f%%)\n", r.FramesWithPose, pct(r.DetectionRate))
	fmt.Fprintf(w, "  Jumping:         %d frames (%.1f%%)\n", r.JumpingFrames, pct(r.JumpingPercentage))
	fmt.Fprintf(w, "  Shooting:        %d frames (%.1f%%)\n", r.ShootingFrames, pct(r.ShootingPercentage))
	fmt.Fprintf(w, "  Dribbling:       %d frames (%.1f%%)\n", r.DribblingFrames, pct(r.DribblingPercentage))
	if r.Duration > 0 {
		fmt.Fprintf(w, "  Duration:        %s\n", formatDuration(r.Duration))
	}
}

// RenderStats writes the aggregate summary over all stored analyses.
func RenderStats(w io.Writer, s model.StatsSummary) {
	fmt.Fprintln(w, headerStyle.Render("CourtIQ statistics"))
	fmt.Fprintf(w, "  Analyses:          %d\n", s.TotalAnalyses)
	fmt.Fprintf(w, "  Frames processed:  %d\n", s.TotalFrames)
	fmt.Fprintf(w, "  Pose frames:       %d\n", s.TotalPoseFrames)
	fmt.Fprintf(w, "  Jumping frames:    %d\n", s.TotalJumpingFrames)
	fmt.Fprintf(w, "  Shooting frames:   %d\n", s.TotalShootingFrames)
	fmt.Fprintf(w, "  Dribbling frames:  %d\n", s.TotalDribblingFrames)
	fmt.Fprintf(w, "  Avg detection:     %.1f%%\n", pct(s.AvgDetectionRate))
	fmt.Fprintf(w, "  Avg duration:      %s\n", formatDuration(s.AvgDuration))
}

// pct scales a stored rate up for display. The service stores
// detection_rate and the per-action percentage fields as fractions in
// [0,1] (plain frame-count divisions, never scaled).
func pct(frac float64) float64 {
	return frac * 100
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateName(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}

// formatDate re-renders an RFC 3339 timestamp as a compact local date.
// Unparseable input is shown as-is.
func formatDate(raw string) string {
	if raw == "" {
		return "-"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return raw
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return strings.TrimSuffix(fmt.Sprintf("%dm%ds", m, s), "0s")
}
