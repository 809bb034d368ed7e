package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"courtiq/internal/api"
	"courtiq/internal/dirs"
	"courtiq/internal/media"
	"courtiq/internal/model"
	"courtiq/internal/progress"
	"courtiq/internal/results"
	"courtiq/internal/session"
	"courtiq/internal/ui"
)

type runMode struct {
	ForceTUI bool
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "analyze [videos...]",
		Short:         "Upload videos and wait for analysis results",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PreRunE:       analyzePreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeExecute(cmd, args, runMode{ForceTUI: false})
		},
	}
	// Bind same flags as root for explicit subcommand usage
	bindAnalyzeFlags(cmd.Flags())
	return cmd
}

type ctxKey string

const analyzeInputsKey ctxKey = "analyzeInputs"

type analyzeInputs struct {
	Files   []model.MediaFile
	Options model.CLIOptions
}

func analyzePreRun(cmd *cobra.Command, args []string) error {
	files, opts, err := assembleAnalyzeInputs(cmd, args)
	if err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			return ee
		}
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	ctx := context.WithValue(cmd.Context(), analyzeInputsKey, analyzeInputs{
		Files:   files,
		Options: opts,
	})
	cmd.SetContext(ctx)
	return nil
}

func assembleAnalyzeInputs(cmd *cobra.Command, args []string) ([]model.MediaFile, model.CLIOptions, error) {
	// Persistent flags with precedence: flag > env/config > default
	apiURL := getPersistentString(cmd, "api-url", "")
	if apiURL == "" {
		apiURL = viper.GetString("api_url")
	}
	if apiURL == "" {
		apiURL = api.DefaultBaseURL
	}
	outDir := getPersistentString(cmd, "out-dir", "")
	if outDir == "" {
		outDir = viper.GetString("out_dir")
	}
	if outDir == "" {
		if d, err := dirs.DefaultOutputDir(); err == nil {
			outDir = d
		} else {
			outDir = "."
		}
	}
	verbose := getPersistentBool(cmd, "verbose", false)
	jobs := getPersistentInt(cmd, "jobs", 2)
	if jobs <= 0 {
		jobs = 2
	}

	// Analyze flags
	saveResults, _ := cmd.Flags().GetBool("save-results")
	pollInterval, _ := cmd.Flags().GetDuration("poll-interval")
	noUI, _ := cmd.Flags().GetBool("no-ui")

	if pollInterval < 0 {
		return nil, model.CLIOptions{}, fmt.Errorf("invalid --poll-interval: %s", pollInterval)
	}

	// Every path must point at a readable video of a supported type
	// before anything is uploaded.
	var files []model.MediaFile
	for _, raw := range args {
		f, err := media.FromPath(raw)
		if err != nil {
			return nil, model.CLIOptions{}, &ExitError{Code: exitCodeFor(err), Err: err}
		}
		if err := media.Validate(f); err != nil {
			return nil, model.CLIOptions{}, &ExitError{Code: exitCodeFor(err), Err: err}
		}
		files = append(files, f)
	}

	opts := model.CLIOptions{
		APIURL:       apiURL,
		OutDir:       filepath.Clean(outDir),
		SaveResults:  saveResults,
		PollInterval: pollInterval,
		Verbose:      verbose,
		NoUI:         noUI,
		Jobs:         jobs,
	}
	return files, opts, nil
}

func analyzeExecute(cmd *cobra.Command, args []string, mode runMode) error {
	// Grab inputs from context; if not present (root directly called
	// without PreRunE), assemble now.
	var in analyzeInputs
	if v := cmd.Context().Value(analyzeInputsKey); v != nil {
		in = v.(analyzeInputs)
	} else {
		files, opts, err := assembleAnalyzeInputs(cmd, args)
		if err != nil {
			var ee *ExitError
			if errors.As(err, &ee) {
				return ee
			}
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		in = analyzeInputs{Files: files, Options: opts}
	}

	if in.Options.SaveResults {
		if err := ensureDir(in.Options.OutDir); err != nil {
			return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
		}
	}

	client := api.NewClient(in.Options.APIURL)

	// TUI path (forced or auto if TTY and not disabled)
	useTUI := mode.ForceTUI || (!in.Options.NoUI && isTerminal())
	if useTUI {
		if err := ui.Run(cmd.Context(), client, in.Files, in.Options); err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		return nil
	}

	// Non-UI path: probe the service once, then run files sequentially.
	if err := client.Health(cmd.Context()); err != nil {
		return &ExitError{Code: exitCodeFor(err), Err: err}
	}

	for _, file := range in.Files {
		if err := processOne(cmd.Context(), client, file, in.Options, len(in.Files) > 1); err != nil {
			var ee *ExitError
			if errors.As(err, &ee) {
				return ee
			}
			return &ExitError{Code: exitCodeFor(err), Err: err}
		}
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func processOne(ctx context.Context, client *api.Client, file model.MediaFile, opts model.CLIOptions, multi bool) error {
	sess := session.New(client,
		session.WithReporter(newConsoleReporter(file.Name)),
		session.WithPollInterval(opts.PollInterval),
	)
	defer sess.Close()

	if err := sess.Select(file); err != nil {
		return &ExitError{Code: exitCodeFor(err), Err: err}
	}
	proj, err := sess.Submit(ctx)
	if err != nil {
		return &ExitError{Code: exitCodeFor(err), Err: err}
	}

	printResult(file.Name, proj)

	if opts.SaveResults {
		path := results.ExportPath(opts.OutDir)
		if multi {
			path = results.ExportPathFor(opts.OutDir, file.Name)
		}
		if err := results.Save(path, *proj); err != nil {
			return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to save results: %v", err)}
		}
		fmt.Printf("Saved: %s\n", path)
	}
	return nil
}

func printResult(name string, r *model.ProjectedResult) {
	fmt.Printf("%s\n", name)
	fmt.Printf("  Frames analyzed:  %d\n", r.TotalFrames)
	fmt.Printf("  Pose detected:    %d frames (%.0f%%)\n", r.FramesWithPose, r.PosePercentage)
	fmt.Printf("  Jumping:          %d frames (%.0f%%)\n", r.JumpingFrames, r.JumpingPercentage)
	fmt.Printf("  Shooting:         %d frames (%.0f%%)\n", r.ShootingFrames, r.ShootingPercentage)
	fmt.Printf("  Dribbling:        %d frames (%.0f%%)\n", r.DribblingFrames, r.DribblingPercentage)
	if r.FPS != nil {
		fmt.Printf("  Frame rate:       %.1f fps over %s\n", *r.FPS, time.Duration(r.Duration*float64(time.Second)).Round(time.Second))
	}
}

// consoleReporter prints stage transitions as plain lines for non-TTY runs.
// Repeated poll ticks with an unchanged message are dropped to keep logs
// readable.
type consoleReporter struct {
	name string
	last *string
}

func newConsoleReporter(name string) consoleReporter {
	return consoleReporter{name: name, last: new(string)}
}

func (r consoleReporter) Update(u progress.Update) {
	if u.Message == "" || u.Message == *r.last {
		return
	}
	*r.last = u.Message
	fmt.Printf("[%s] %s\n", r.name, u.Message)
}

func (r consoleReporter) Result(res progress.Result) {
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "[%s] failed: %v\n", r.name, res.Err)
	}
}
