package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/dermalab/derma/internal/core/styles"
	"github.com/dermalab/derma/internal/core/workflow"
	"github.com/dermalab/derma/internal/derma"
	"github.com/dermalab/derma/pkg/iojson"
)

type PredictCmd struct {
	flags *Flags
	app   *derma.App

	// flags
	guest      bool
	jsonOutput bool
}

// NewPredictCmd creates a new predict command
func NewPredictCmd(flags *Flags, app *derma.App) *PredictCmd {
	return &PredictCmd{flags: flags, app: app}
}

// Register adds the predict command to the application
func (cmd *PredictCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "predict",
		Usage:     "Analyze one or more skin images",
		UsageText: "derma predict [--guest] [--json] <image|glob>...",
		Description: `Uploads each image for analysis and prints the predicted condition
with its confidence. Arguments may be paths or glob patterns like
'photos/**/*.jpg'.

Without --guest a signed-in session is required and results are added
to your history. With --guest nothing is saved.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "guest",
				Aliases:     []string{"g"},
				Usage:       "analyze without an account; results are not saved",
				Destination: &cmd.guest,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output results as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PredictCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("no images given. Usage: derma predict <image|glob>...")
	}

	paths, err := expandGlobs(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match the given patterns")
	}

	if !cmd.guest && !cmd.app.Client.IsLoggedIn() {
		return fmt.Errorf("not signed in. Run 'derma login', or use --guest")
	}

	out := c.Root().Writer

	if cmd.guest && cmd.app.Gate.ShouldShowWarning() && !cmd.jsonOutput {
		fmt.Fprintln(out, styles.WarningStyle.Render("You are in Guest Mode"))
		fmt.Fprintln(out, styles.MutedStyle.Render("Your analysis history will not be saved. To keep a record of your results, please create an account or log in."))
		fmt.Fprintln(out)
	}

	wf := cmd.app.NewWorkflow(cmd.guest)
	defer wf.Close()

	var failed int
	for _, path := range paths {
		if err := cmd.analyzeOne(ctx, wf, path, out); err != nil {
			failed++
			fmt.Fprintln(out, styles.ErrorStyle.Render(fmt.Sprintf("%s: %s", path, err)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(paths))
	}
	return nil
}

func (cmd *PredictCmd) analyzeOne(ctx context.Context, wf *workflow.Workflow, path string, out io.Writer) error {
	if err := wf.Select(path); err != nil {
		return err
	}

	rec, err := wf.Analyze(ctx)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteLine(out, rec)
	}

	band := workflow.Classify(rec.Confidence)
	fmt.Fprintf(out, "%s  %s %s\n",
		filepath.Base(path),
		styles.TitleStyle.Render(rec.Disease),
		styles.Confidence(string(band)).Render(fmt.Sprintf("(%.1f%%)", rec.Confidence)),
	)
	return nil
}

// expandGlobs resolves each argument as a doublestar pattern, passing
// plain paths through untouched so a missing file still surfaces as an
// upload error rather than silently matching nothing.
func expandGlobs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !hasGlobMeta(arg) {
			paths = append(paths, arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func hasGlobMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
