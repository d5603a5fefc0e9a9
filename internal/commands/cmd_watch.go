package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/dermalab/derma/internal/core/styles"
	"github.com/dermalab/derma/internal/derma"
)

type WatchCmd struct {
	flags *Flags
	app   *derma.App

	// flags
	guest      bool
	jsonOutput bool
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags, app *derma.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Watch a directory and analyze images as they appear",
		UsageText: "derma watch [--guest] [--json] <dir>",
		Description: `Watches a directory for new or modified jpeg/png files and uploads
each for analysis. Useful with a camera import folder. Stop with ctrl-c.`,
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

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one directory. Usage: derma watch <dir>")
	}
	dir := c.Args().First()

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if !cmd.guest && !cmd.app.Client.IsLoggedIn() {
		return fmt.Errorf("not signed in. Run 'derma login', or use --guest")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	predict := &PredictCmd{flags: cmd.flags, app: cmd.app, guest: cmd.guest, jsonOutput: cmd.jsonOutput}
	wf := cmd.app.NewWorkflow(cmd.guest)
	defer wf.Close()

	out := c.Root().Writer
	fmt.Fprintln(out, styles.MutedStyle.Render("Watching "+dir+" (ctrl-c to stop)"))

	// Debounce window; image writes arrive as a Create followed by a
	// burst of Writes, and partial files must not be uploaded.
	const settle = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImagePath(event.Name) {
				continue
			}

			// Drain queued events until the burst settles.
			changed := map[string]bool{event.Name: true}
			debounce := time.NewTimer(settle)
		debounceLoop:
			for {
				select {
				case e := <-watcher.Events:
					if isImagePath(e.Name) && (e.Has(fsnotify.Create) || e.Has(fsnotify.Write)) {
						changed[e.Name] = true
					}
					if !debounce.Stop() {
						<-debounce.C
					}
					debounce.Reset(settle)
				case <-debounce.C:
					break debounceLoop
				case <-ctx.Done():
					return nil
				}
			}

			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			for _, path := range paths {
				if err := predict.analyzeOne(ctx, wf, path, out); err != nil {
					fmt.Fprintln(out, styles.ErrorStyle.Render(fmt.Sprintf("%s: %s", filepath.Base(path), err)))
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.app.Log.Error().Err(err).Msg("watcher error")
		}
	}
}

func isImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}
