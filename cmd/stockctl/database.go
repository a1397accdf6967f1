package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockflow/internal/repository"
	"github.com/andresuchdata/stockflow/internal/repository/postgres"
	"github.com/andresuchdata/stockflow/pkg/logger"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Create the database schema",
		Flags:  []cli.Flag{newDBURLFlag()},
		Action: runMigrate,
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the schema and upsert the catalog into the database",
		Flags: []cli.Flag{
			newDBURLFlag(),
			newCatalogFlag(),
		},
		Action: runSeed,
	}
}

func openDB(c *cli.Context) (*postgres.DB, error) {
	db, err := postgres.NewDBFromURL(c.Context, c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := postgres.Migrate(c.Context, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func runMigrate(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Log.Info().Msg("schema is up to date")
	return nil
}

func runSeed(c *cli.Context) error {
	catalog, err := loadCatalog(c)
	if err != nil {
		return err
	}
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return repository.Seed(c.Context, postgres.NewStore(db), catalog.Materials, catalog.ClothingTypes)
}
