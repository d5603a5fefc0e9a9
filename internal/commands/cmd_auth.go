package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/dermalab/derma/internal/core/styles"
	"github.com/dermalab/derma/internal/derma"
	"github.com/dermalab/derma/pkg/iojson"
)

type LoginCmd struct {
	flags *Flags
	app   *derma.App

	// flags
	email    string
	password string
}

// NewLoginCmd creates a new login command
func NewLoginCmd(flags *Flags, app *derma.App) *LoginCmd {
	return &LoginCmd{flags: flags, app: app}
}

// Register adds the login command to the application
func (cmd *LoginCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "login",
		Usage:     "Sign in and store the session cookie",
		UsageText: "derma login [--email EMAIL]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "account email",
				Destination: &cmd.email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "account password (prompted when omitted)",
				Sources:     cli.EnvVars("DERMA_PASSWORD"),
				Destination: &cmd.password,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LoginCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.email == "" || cmd.password == "" {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if err := cmd.app.Client.Login(ctx, cmd.email, cmd.password); err != nil {
		return err
	}

	fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("Signed in as "+cmd.email))
	return nil
}

func (cmd *LoginCmd) runForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Validate(validateEmail).
				Value(&cmd.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validateRequired("password")).
				Value(&cmd.password),
		),
	).WithTheme(styles.FormTheme()).Run()
}

type RegisterCmd struct {
	flags *Flags
	app   *derma.App

	// flags
	fullName string
	email    string
	password string
	confirm  string
}

// NewRegisterCmd creates a new register command
func NewRegisterCmd(flags *Flags, app *derma.App) *RegisterCmd {
	return &RegisterCmd{flags: flags, app: app}
}

// Register adds the register command to the application
func (cmd *RegisterCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "register",
		Usage:     "Create a new account",
		UsageText: "derma register [--name NAME] [--email EMAIL]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "full name",
				Destination: &cmd.fullName,
			},
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "account email",
				Destination: &cmd.email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "account password (prompted when omitted)",
				Sources:     cli.EnvVars("DERMA_PASSWORD"),
				Destination: &cmd.password,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RegisterCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.fullName == "" || cmd.email == "" || cmd.password == "" {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if err := cmd.app.Client.Register(ctx, cmd.fullName, cmd.email, cmd.password); err != nil {
		return err
	}

	out := c.Root().Writer
	fmt.Fprintln(out, styles.SuccessStyle.Render("Account created."))
	fmt.Fprintln(out, "Check your inbox for a verification token, then run 'derma verify'.")
	return nil
}

func (cmd *RegisterCmd) runForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Validate(validateRequired("full name")).
				Value(&cmd.fullName),
			huh.NewInput().
				Title("Email").
				Validate(validateEmail).
				Value(&cmd.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validatePassword).
				Value(&cmd.password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s != cmd.password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}).
				Value(&cmd.confirm),
		),
	).WithTheme(styles.FormTheme()).Run()
}

type LogoutCmd struct {
	flags *Flags
	app   *derma.App
}

// NewLogoutCmd creates a new logout command
func NewLogoutCmd(flags *Flags, app *derma.App) *LogoutCmd {
	return &LogoutCmd{flags: flags, app: app}
}

// Register adds the logout command to the application
func (cmd *LogoutCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "logout",
		Usage:     "Sign out and clear stored session cookies",
		UsageText: "derma logout",
		Action: func(ctx context.Context, c *cli.Command) error {
			// Cookies are cleared locally even when the server call
			// fails; a dead session should never wedge the client.
			err := cmd.app.Client.Logout(ctx)
			fmt.Fprintln(c.Root().Writer, "Signed out.")
			return err
		},
	})

	return app
}

type WhoamiCmd struct {
	flags *Flags
	app   *derma.App

	// flags
	jsonOutput bool
}

// NewWhoamiCmd creates a new whoami command
func NewWhoamiCmd(flags *Flags, app *derma.App) *WhoamiCmd {
	return &WhoamiCmd{flags: flags, app: app}
}

// Register adds the whoami command to the application
func (cmd *WhoamiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "whoami",
		Usage:     "Show the signed-in account",
		UsageText: "derma whoami [--json]",
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

func (cmd *WhoamiCmd) run(ctx context.Context, c *cli.Command) error {
	if !cmd.app.Client.IsLoggedIn() {
		return fmt.Errorf("not signed in. Run 'derma login' first")
	}

	user, err := cmd.app.Client.Me(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, user)
	}

	fmt.Fprintln(out, styles.TitleStyle.Render(user.FullName))
	fmt.Fprintln(out, user.Email)
	if !user.IsVerified {
		fmt.Fprintln(out, styles.WarningStyle.Render("Email not verified. Run 'derma verify'."))
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
