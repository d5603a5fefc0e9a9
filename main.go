package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/dermalab/derma/internal/api"
	"github.com/dermalab/derma/internal/commands"
	"github.com/dermalab/derma/internal/core/config"
	"github.com/dermalab/derma/internal/core/notify"
	"github.com/dermalab/derma/internal/data/db"
	"github.com/dermalab/derma/internal/data/stores"
	"github.com/dermalab/derma/internal/derma"
	"github.com/dermalab/derma/internal/geo"
	"github.com/dermalab/derma/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	// Local overrides for development, such as DERMA_SERVER_URL.
	_ = godotenv.Load()

	var (
		logCloser func()
		dermaApp  = &derma.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "derma",
		Usage:     "Skin condition analysis from your terminal",
		UsageText: "derma [global options] command [command options]",
		Description: `Derma uploads skin photos to a DermaAI server for analysis and keeps
your past results at hand.

Run 'derma' with no arguments to open the interactive client.
Run 'derma predict <image>' for one-shot analysis from scripts.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("DERMA_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/derma.log)",
				Sources:     cli.EnvVars("DERMA_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("DERMA_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("DERMA_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "server",
				Usage:       "DermaAI server base URL (overrides config)",
				Sources:     cli.EnvVars("DERMA_SERVER_URL"),
				Destination: &flags.ServerURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := os.MkdirAll(flags.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data directory: %w", err)
			}

			// Always log to a file; the terminal belongs to the UI.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "derma.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.ServerURL != "" {
				cfg.Server.BaseURL = flags.ServerURL
			}
			flags.Config = cfg

			jar, err := api.OpenJar(cfg.CookiesFile())
			if err != nil {
				return ctx, fmt.Errorf("open cookie jar: %w", err)
			}

			bus := notify.NewBus()
			bus.Subscribe(func(n notify.Notification) {
				log.Debug().
					Int64("id", n.ID).
					Str("level", string(n.Level)).
					Str("message", n.Message).
					Msg("notification")
			})

			client := api.NewClient(cfg.Server.BaseURL, jar, bus, log.With().Str("component", "api").Logger())
			client.SetTimeout(cfg.Timeout())

			// The history cache is best effort; a broken database only
			// disables 'history ls --cached'.
			var cache *stores.HistoryStore
			database, err = db.Open(cfg.DataDir, db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
			})
			if err != nil {
				log.Warn().Err(err).Msg("history cache unavailable")
				database = nil
			} else {
				cache = stores.NewHistoryStore(database)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*dermaApp = *derma.NewApp(client, bus, cfg, cache, log.Logger)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, dermaApp)

	app = commands.NewLoginCmd(flags, dermaApp).Register(app)
	app = commands.NewRegisterCmd(flags, dermaApp).Register(app)
	app = commands.NewLogoutCmd(flags, dermaApp).Register(app)
	app = commands.NewWhoamiCmd(flags, dermaApp).Register(app)
	app = commands.NewVerifyCmd(flags, dermaApp).Register(app)
	app = commands.NewPredictCmd(flags, dermaApp).Register(app)
	app = commands.NewWatchCmd(flags, dermaApp).Register(app)
	app = commands.NewHistoryCmd(flags, dermaApp).Register(app)
	app = commands.NewConditionsCmd(flags, dermaApp).Register(app)
	app = commands.NewDoctorsCmd(flags, dermaApp, geo.NewClient("")).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'derma --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
