package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/dermalab/derma/internal/core/conditions"
	"github.com/dermalab/derma/internal/derma"
	"github.com/dermalab/derma/pkg/iojson"
)

type ConditionsCmd struct {
	flags *Flags
	app   *derma.App

	// flags
	jsonOutput bool
}

// NewConditionsCmd creates a new conditions command
func NewConditionsCmd(flags *Flags, app *derma.App) *ConditionsCmd {
	return &ConditionsCmd{flags: flags, app: app}
}

// Register adds the conditions command to the application
func (cmd *ConditionsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "conditions",
		Usage:     "Browse the catalog of recognized skin conditions",
		UsageText: "derma conditions [name]",
		Description: `Without arguments, lists every condition the analysis model can
recognize. With a name, renders that condition's reference page.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ConditionsCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if c.Args().Len() == 0 {
		if cmd.jsonOutput {
			return iojson.WriteWith(out, conditions.All())
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, cond := range conditions.All() {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", cond.Name, cond.Description)
		}
		return w.Flush()
	}

	name := strings.Join(c.Args().Slice(), " ")
	cond, ok := conditions.Find(name)
	if !ok {
		return fmt.Errorf("unknown condition %q. Run 'derma conditions' for the list", name)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(out, cond)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}

	rendered, err := r.Render(cond.Markdown())
	if err != nil {
		return fmt.Errorf("render condition: %w", err)
	}

	fmt.Fprint(out, rendered)
	return nil
}
