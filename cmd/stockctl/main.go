package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockflow/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newCatalogFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "catalog",
		Usage:   "Catalog file (YAML, JSON or TOML); the built-in catalog when empty",
		EnvVars: []string{"CATALOG_FILE"},
	}
}

func configureLogger(c *cli.Context) error {
	logger.Configure(os.Stderr, c.String("log-format"))
	logger.SetLevel(c.String("log-level"))
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stockctl",
		Usage: "Parse order files, simulate material stock and manage the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "console or json",
				Value:   "console",
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Before: configureLogger,
		Commands: []*cli.Command{
			parseCommand(),
			simulateCommand(),
			purchaseNoteCommand(),
			migrateCommand(),
			seedCommand(),
		},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("stockctl failed")
	}
}
