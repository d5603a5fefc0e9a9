package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dermalab/derma/internal/derma"
	"github.com/dermalab/derma/internal/geo"
	"github.com/dermalab/derma/pkg/iojson"
)

type DoctorsCmd struct {
	flags *Flags
	app   *derma.App
	geo   *geo.Client

	// flags
	jsonOutput bool
}

// NewDoctorsCmd creates a new doctors command
func NewDoctorsCmd(flags *Flags, app *derma.App, geoClient *geo.Client) *DoctorsCmd {
	return &DoctorsCmd{flags: flags, app: app, geo: geoClient}
}

// Register adds the doctors command to the application
func (cmd *DoctorsCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON",
		Destination: &cmd.jsonOutput,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "doctors",
		Usage:     "Location lookups for finding a dermatologist",
		UsageText: "derma doctors <command>",
		Commands: []*cli.Command{
			{
				Name:      "countries",
				Usage:     "List countries available for the doctor search",
				UsageText: "derma doctors countries [--json]",
				Flags:     []cli.Flag{jsonFlag},
				Action:    cmd.runCountries,
			},
			{
				Name:      "cities",
				Usage:     "List cities of one country",
				UsageText: "derma doctors cities [--json] <country>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    cmd.runCities,
			},
		},
	})

	return app
}

func (cmd *DoctorsCmd) runCountries(ctx context.Context, c *cli.Command) error {
	countries, err := cmd.geo.Countries(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, country := range countries {
			if err := iojson.WriteLine(out, country); err != nil {
				return fmt.Errorf("encode country: %w", err)
			}
		}
		return nil
	}

	for _, country := range countries {
		fmt.Fprintln(out, country.Country)
	}
	return nil
}

func (cmd *DoctorsCmd) runCities(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("no country given. Usage: derma doctors cities <country>")
	}

	country := strings.Join(c.Args().Slice(), " ")
	cities, err := cmd.geo.Cities(ctx, country)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, cities)
	}

	for _, city := range cities {
		fmt.Fprintln(out, city)
	}
	return nil
}
