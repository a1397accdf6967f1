package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockflow/internal/config"
	"github.com/andresuchdata/stockflow/internal/drive"
	"github.com/andresuchdata/stockflow/internal/export"
	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/purchasenote"
	"github.com/andresuchdata/stockflow/internal/replenishment"
	"github.com/andresuchdata/stockflow/internal/simulation"
	"github.com/andresuchdata/stockflow/pkg/logger"
)

func policyFlags() []cli.Flag {
	p := replenishment.DefaultPolicy()
	return []cli.Flag{
		&cli.Float64Flag{Name: "annual-demand", Value: p.AnnualDemand, EnvVars: []string{"ANNUAL_DEMAND"}},
		&cli.Float64Flag{Name: "order-cost", Value: p.OrderCost, EnvVars: []string{"ORDER_COST"}},
		&cli.Float64Flag{Name: "holding-cost", Value: p.HoldingCost, EnvVars: []string{"HOLDING_COST"}},
		&cli.IntFlag{Name: "lead-time-days", Value: p.LeadTimeDays, EnvVars: []string{"LEAD_TIME_DAYS"}},
		&cli.Float64Flag{Name: "safety-stock", Value: p.SafetyStock, EnvVars: []string{"SAFETY_STOCK"}},
	}
}

func policyFromFlags(c *cli.Context) (replenishment.Policy, error) {
	p := replenishment.Policy{
		AnnualDemand: c.Float64("annual-demand"),
		OrderCost:    c.Float64("order-cost"),
		HoldingCost:  c.Float64("holding-cost"),
		LeadTimeDays: c.Int("lead-time-days"),
		SafetyStock:  c.Float64("safety-stock"),
	}
	if err := p.Validate(); err != nil {
		return replenishment.Policy{}, err
	}
	return p, nil
}

func headerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "company", Value: "Stockflow Garments", EnvVars: []string{"COMPANY_NAME"}},
		&cli.StringFlag{Name: "supplier", Value: "Materials Supplier", EnvVars: []string{"SUPPLIER_NAME"}},
		&cli.StringFlag{Name: "supplier-address", EnvVars: []string{"SUPPLIER_ADDRESS"}},
	}
}

func headerFromFlags(c *cli.Context) purchasenote.Header {
	return purchasenote.Header{
		Company:         c.String("company"),
		Supplier:        c.String("supplier"),
		SupplierAddress: c.String("supplier-address"),
	}
}

func loadCatalog(c *cli.Context) (*config.Catalog, error) {
	if path := c.String("catalog"); path != "" {
		return config.LoadCatalogFile(path)
	}
	return config.DefaultCatalog(), nil
}

func simulateCommand() *cli.Command {
	flags := []cli.Flag{
		newCatalogFlag(),
		newWorkersFlag(),
		&cli.StringFlag{
			Name:    "consumption-policy",
			Usage:   "aggregate or last-order-doubled",
			Value:   string(simulation.ConsumeAggregate),
			EnvVars: []string{"CONSUMPTION_POLICY"},
		},
		&cli.BoolFlag{
			Name:  "drain",
			Usage: "Keep stepping empty days until every reorder has arrived",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "Print the stock of every day",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the result as JSON",
		},
		&cli.StringFlag{
			Name:    "drive-folder-id",
			Usage:   "Download order files from this Google Drive folder first",
			EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
		},
		&cli.StringFlag{
			Name:    "drive-credentials",
			Usage:   "Service account credentials for Google Drive",
			EnvVars: []string{"GOOGLE_APPLICATION_CREDENTIALS"},
		},
		&cli.StringFlag{
			Name:  "download-dir",
			Usage: "Where Drive files are stored; a temporary directory when empty",
		},
		&cli.StringFlag{
			Name:  "purchase-note",
			Usage: "Write a PDF purchase note for the reordered materials",
		},
		&cli.StringFlag{
			Name:  "xlsx",
			Usage: "Write the result to this workbook",
		},
	}
	flags = append(flags, policyFlags()...)
	flags = append(flags, headerFlags()...)

	return &cli.Command{
		Name:      "simulate",
		Usage:     "Run the day-by-day stock simulation over order files",
		ArgsUsage: "FILE...",
		Flags:     flags,
		Action:    runSimulate,
	}
}

func runSimulate(c *cli.Context) error {
	policy, err := policyFromFlags(c)
	if err != nil {
		return err
	}
	consumption, err := simulation.ParseConsumptionPolicy(c.String("consumption-policy"))
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(c)
	if err != nil {
		return err
	}

	paths := c.Args().Slice()
	if folderID := c.String("drive-folder-id"); folderID != "" {
		downloaded, cleanup, err := downloadFromDrive(c.Context, folderID, c.String("drive-credentials"), c.String("download-dir"))
		if err != nil {
			return err
		}
		defer cleanup()
		paths = append(paths, downloaded...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no order files given")
	}

	days, err := loadDays(c, paths)
	if err != nil {
		return err
	}

	cfg := simulation.Config{Consumption: consumption, TraceLevel: simulation.TraceNone, Drain: c.Bool("drain")}
	if c.Bool("trace") {
		cfg.TraceLevel = simulation.TraceDays
	}
	calc := materials.NewCalculator(materials.NewCatalog(catalog.ClothingTypes, catalog.SizeMultipliers))
	sim, err := simulation.New(cfg, calc, policy, catalog.InitialStock())
	if err != nil {
		return err
	}
	result, err := sim.Run(c.Context, days)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(c.App.Writer, result)
	}

	if path := c.String("xlsx"); path != "" {
		if err := writeFile(path, func(f *os.File) error { return export.WriteSimulation(f, result) }); err != nil {
			return fmt.Errorf("write simulation workbook: %w", err)
		}
		logger.Log.Info().Str("path", path).Msg("simulation workbook written")
	}

	if path := c.String("purchase-note"); path != "" {
		totals := result.ReorderTotals()
		if len(totals) == 0 {
			logger.Log.Info().Msg("nothing was reordered, no purchase note written")
			return nil
		}
		note, err := writePurchaseNote(path, headerFromFlags(c), totals, materials.PricesFromMaterials(catalog.Materials))
		if err != nil {
			return err
		}
		logger.Log.Info().Str("number", note.Number).Str("path", path).Msg("purchase note written")
	}
	return nil
}

// downloadFromDrive pulls the folder's order files. The returned cleanup
// removes the directory when it was created here.
func downloadFromDrive(ctx context.Context, folderID, credentials, dir string) ([]string, func(), error) {
	if credentials == "" {
		return nil, nil, fmt.Errorf("--drive-credentials is required with --drive-folder-id")
	}
	svc, err := drive.NewServiceFromFile(ctx, credentials)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if dir == "" {
		tmp, err := os.MkdirTemp("", "stockctl-drive-")
		if err != nil {
			return nil, nil, err
		}
		dir = tmp
		cleanup = func() { os.RemoveAll(tmp) }
	}

	paths, err := drive.NewDownloader(svc).DownloadOrderFiles(ctx, drive.DownloadOptions{
		FolderID:    folderID,
		DownloadDir: dir,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("download order files: %w", err)
	}
	logger.Log.Info().Int("files", len(paths)).Str("folder_id", folderID).Msg("order files downloaded")
	return paths, cleanup, nil
}

func writePurchaseNote(path string, header purchasenote.Header, quantities map[string]float64, prices materials.PriceTable) (purchasenote.Note, error) {
	issued := time.Now().UTC()
	note, err := purchasenote.Build(purchasenote.NewNumber(issued), issued, header, quantities, prices)
	if err != nil {
		return purchasenote.Note{}, err
	}
	if err := writeFile(path, func(f *os.File) error { return purchasenote.Render(f, note) }); err != nil {
		return purchasenote.Note{}, fmt.Errorf("write purchase note: %w", err)
	}
	return note, nil
}

func printResult(w io.Writer, result *simulation.Result) {
	for _, d := range result.Days {
		fmt.Fprintf(w, "day %d:", d.Day)
		for _, m := range d.Stock.Keys() {
			fmt.Fprintf(w, " %s=%.2f", m, d.Stock[m])
		}
		for _, r := range d.Reorders {
			fmt.Fprintf(w, " [reorder %s %.2f due day %d]", r.Material, r.Quantity, r.ArrivalDay)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "days run: %d\n", result.DaysRun)
	fmt.Fprintf(w, "economic order quantity: %.4f\n", result.EOQ)
	fmt.Fprintf(w, "reorder point: %.4f\n", result.ReorderPoint)
	fmt.Fprintln(w, "final stock:")
	for _, m := range result.FinalStock.Keys() {
		fmt.Fprintf(w, "  %-12s %12.2f\n", m, result.FinalStock[m])
	}
	summary := result.Summary()
	if len(summary) == 0 {
		fmt.Fprintln(w, "no reorders placed")
		return
	}
	fmt.Fprintln(w, "reorders:")
	for _, s := range summary {
		fmt.Fprintf(w, "  %-12s %3d orders %12.2f units\n", s.Material, s.Orders, s.Quantity)
	}
}
