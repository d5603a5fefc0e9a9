package commands

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dermalab/derma/internal/core/history"
	"github.com/dermalab/derma/internal/core/styles"
	"github.com/dermalab/derma/internal/core/workflow"
	"github.com/dermalab/derma/internal/derma"
	"github.com/dermalab/derma/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	app   *derma.App

	// flags
	jsonOutput bool
	cached     bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, app *derma.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Browse and manage past analyses",
		UsageText: "derma history <command>",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List past analyses grouped by day, newest first",
				UsageText: "derma history ls [--json] [--cached]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
					&cli.BoolFlag{
						Name:        "cached",
						Usage:       "read the local mirror instead of the server",
						Destination: &cmd.cached,
					},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "rm",
				Usage:     "Delete one analysis by id",
				UsageText: "derma history rm <id>",
				Action:    cmd.runRm,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) runLs(ctx context.Context, c *cli.Command) error {
	var (
		records []history.Record
		err     error
	)

	if cmd.cached {
		records, err = cmd.app.CachedHistory(ctx)
	} else {
		if !cmd.app.Client.IsLoggedIn() {
			return fmt.Errorf("not signed in. Run 'derma login', or use --cached")
		}
		records, err = cmd.app.FetchHistory(ctx)
	}
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, rec := range records {
			if err := iojson.WriteLine(out, rec); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		return nil
	}

	groups := history.GroupByDate(records)
	if len(groups) == 0 {
		fmt.Fprintln(out, styles.MutedStyle.Render("No analyses yet. Run 'derma predict' to start."))
		return nil
	}

	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, styles.TitleStyle.Render(group.Label))

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tTIME\tCONDITION\tCONFIDENCE")
		for _, rec := range group.Records {
			band := workflow.Classify(rec.Confidence)
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				rec.ID,
				rec.Timestamp.ClockLabel(),
				rec.Disease,
				styles.Confidence(string(band)).Render(fmt.Sprintf("%.1f%%", rec.Confidence)),
			)
		}
		_ = w.Flush()
	}

	return nil
}

func (cmd *HistoryCmd) runRm(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one id. Usage: derma history rm <id>")
	}

	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", c.Args().First())
	}

	records, err := cmd.app.DeleteRecord(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Deleted. %d analyses remain.\n", len(records))
	return nil
}
