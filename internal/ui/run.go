package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"courtiq/internal/api"
	"courtiq/internal/model"
)

// Run launches the TUI over the given files and blocks until all jobs settle
// or the user quits.
func Run(ctx context.Context, client *api.Client, files []model.MediaFile, opts model.CLIOptions) error {
	m := NewModel(ctx, client, files, opts)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		var failed []string
		for _, id := range fm.jobOrder {
			js := fm.jobs[id]
			if js != nil && js.err != nil {
				name := js.file.Name
				msg := js.err.Error()
				if name != "" {
					failed = append(failed, fmt.Sprintf("- %s: %s", name, msg))
				} else {
					failed = append(failed, fmt.Sprintf("- %s", msg))
				}
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d job(s) failed:\n%s", len(failed), strings.Join(failed, "\n"))
		}
	}
	return nil
}
