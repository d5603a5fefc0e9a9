package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dermalab/derma/internal/core/notify"
	"github.com/dermalab/derma/internal/derma"
	"github.com/dermalab/derma/internal/tui"
	"github.com/dermalab/derma/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags
	app   *derma.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *derma.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("DERMA_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal. Use 'derma predict' and friends for scripting")
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				cmd.app.Log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		cmd.app.Log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	m := tui.New(tui.Deps{App: cmd.app})

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Forward bus notifications into the program as messages so the
	// toast overlay renders them.
	cmd.app.Bus.Subscribe(func(n notify.Notification) {
		p.Send(tui.NotifyMsg(n))
	})

	finalModel, err := p.Run()

	// Teardown the final model, not the initial one; the workflow can
	// be swapped mid-run when a dead session falls back to guest mode.
	if fm, ok := finalModel.(tui.Model); ok {
		fm.Teardown()
	} else {
		m.Teardown()
	}

	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
