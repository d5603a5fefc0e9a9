package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/dermalab/derma/internal/core/styles"
	"github.com/dermalab/derma/internal/derma"
)

type VerifyCmd struct {
	flags *Flags
	app   *derma.App

	// flags
	email string
	token string
}

// NewVerifyCmd creates a new verify command
func NewVerifyCmd(flags *Flags, app *derma.App) *VerifyCmd {
	return &VerifyCmd{flags: flags, app: app}
}

// Register adds the verify command to the application
func (cmd *VerifyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "verify",
		Usage:     "Verify an account email with a mailed token",
		UsageText: "derma verify [--email EMAIL] [--token TOKEN]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "account email",
				Destination: &cmd.email,
			},
			&cli.StringFlag{
				Name:        "token",
				Aliases:     []string{"t"},
				Usage:       "verification token from the email",
				Destination: &cmd.token,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "resend",
				Usage:     "Request a fresh verification token",
				UsageText: "derma verify resend --email EMAIL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "email",
						Aliases:     []string{"e"},
						Usage:       "account email",
						Destination: &cmd.email,
						Required:    true,
					},
				},
				Action: cmd.runResend,
			},
		},
	})

	return app
}

func (cmd *VerifyCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.email == "" || cmd.token == "" {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if err := cmd.app.Client.VerifyEmail(ctx, cmd.email, cmd.token); err != nil {
		return err
	}

	fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("Email verified."))
	return nil
}

func (cmd *VerifyCmd) runResend(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Client.RequestVerificationToken(ctx, cmd.email); err != nil {
		return err
	}

	fmt.Fprintln(c.Root().Writer, "Verification token sent to "+cmd.email)
	return nil
}

func (cmd *VerifyCmd) runForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Validate(validateEmail).
				Value(&cmd.email),
			huh.NewInput().
				Title("Verification token").
				Validate(validateRequired("token")).
				Value(&cmd.token),
		),
	).WithTheme(styles.FormTheme()).Run()
}
