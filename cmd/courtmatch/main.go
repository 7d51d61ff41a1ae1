package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tosh-m12/courtmatch/internal/app"
	"github.com/tosh-m12/courtmatch/internal/auth"
	"github.com/tosh-m12/courtmatch/internal/config"
	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/web"
)

var (
	version = "dev"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:    "courtmatch",
		Usage:   "tennis club match scheduling",
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			generateCommand(),
			versionCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "courtmatch.yaml", Usage: "path to the YAML config file"},
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides server.addr"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path, overrides database.path"},
			&cli.StringFlag{Name: "password", Usage: "organizer password (generated when unset)"},
			&cli.StringFlag{Name: "loglevel", Usage: "log level: debug, info, warn, error"},
			&cli.BoolFlag{Name: "nobanner", Usage: "skip the startup banner"},
			&cli.BoolFlag{Name: "nokeyboard", Usage: "disable keyboard shortcuts"},
		},
		Action: serve,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "courtmatch %s\n", version)
			return nil
		},
	}
}

// loadServeConfig loads the config file and applies command-line overrides
func loadServeConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if v := c.String("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := c.String("db"); v != "" {
		cfg.Database.Path = v
	}
	if v := c.String("password"); v != "" {
		cfg.Auth.OrganizerPassword = v
		cfg.Auth.PasswordHash = ""
	}
	if v := c.String("loglevel"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadServeConfig(c)
	if err != nil {
		return err
	}

	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})

	if !c.Bool("nobanner") {
		showBanner()
	}

	password := cfg.Auth.OrganizerPassword
	generated := false
	if password == "" && cfg.Auth.PasswordHash == "" {
		password = auth.GeneratePassword()
		generated = true
	}
	organizerAuth, err := auth.New(auth.Config{
		Password:     password,
		PasswordHash: cfg.Auth.PasswordHash,
		Secret:       cfg.Auth.JWTSecret,
		TTL:          cfg.Auth.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to set up organizer auth: %w", err)
	}

	a, err := app.New(cfg, appLog, organizerAuth, web.GetTemplatesFS(), web.GetStaticFS())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	if generated {
		appLog.Info("Organizer password", "password", password)
	}
	appLog.Info("Organizer console", "url", a.BaseURL()+"/")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.Bool("nokeyboard") {
		printKeyboardHelp()
		restore := startKeyboard(ctx, a.BaseURL()+"/", appLog, stop)
		defer restore()
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	if err := a.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
