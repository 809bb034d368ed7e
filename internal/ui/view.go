package ui

import (
	"fmt"
	"strings"

	"courtiq/internal/progress"
	"courtiq/internal/util/format"
)

func (m Model) viewHeader() string {
	done, total := 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done++
		}
	}
	title := m.styles.Title.Render("CourtIQ - Basketball Video Analysis")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Jobs: %d/%d done • q: quit", done, total))
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		b.WriteString(m.viewJob(js))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJob(js *jobState) string {
	stageStyle := m.styles.JobInfo
	switch js.stage {
	case progress.StageValidating:
		stageStyle = m.styles.StageCheck
	case progress.StageUploading:
		stageStyle = m.styles.StageUp
	case progress.StageProcessing:
		stageStyle = m.styles.StageProc
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	left := m.styles.JobTitle.Render(truncate(js.file.Name, 48))
	if js.file.SizeBytes > 0 {
		left += " " + m.styles.Faint.Render(format.HumanizeBytes(js.file.SizeBytes))
	}
	stage := stageStyle.Render(string(js.stage))

	var right string
	if js.percent >= 0 && js.percent <= 100 {
		right = fmt.Sprintf("%s %5.1f%%", js.bar.ViewAs(js.percent/100.0), js.percent)
	} else if js.done && js.err == nil {
		right = m.styles.Success.Render("✓ done")
	} else if js.err != nil {
		right = m.styles.Error.Render("✗ error")
	} else {
		right = m.styles.Spinner.Render(js.spinner.View()) + " " + m.styles.Faint.Render("waiting")
	}

	info := js.status
	if js.stage == progress.StageUploading && js.bytes > 0 {
		info += fmt.Sprintf(" (%s sent)", format.HumanizeBytes(js.bytes))
	}
	line1 := fmt.Sprintf("%s  %s", left, stage)
	line2 := m.styles.JobInfo.Render(info)
	return m.styles.Box.Render(line1 + "\n" + right + "\n" + line2)
}

func (m Model) viewSummary() string {
	type row struct {
		name string
		line string
	}
	var completed []row
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js.done && js.err == nil && js.result != nil {
			r := js.result
			line := fmt.Sprintf("pose %.0f%% • jump %.0f%% • shot %.0f%% • dribble %.0f%%",
				r.PosePercentage, r.JumpingPercentage, r.ShootingPercentage, r.DribblingPercentage)
			if js.savedPath != "" {
				line += " • saved " + js.savedPath
			}
			completed = append(completed, row{name: js.file.Name, line: line})
		}
	}

	if len(completed) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("✓ Completed Analyses:"))
	b.WriteString("\n")
	for _, c := range completed {
		b.WriteString(m.styles.Success.Render("  • " + c.name))
		b.WriteString(m.styles.Faint.Render("  " + c.line))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 || len([]rune(s)) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n-1]) + "…"
}
