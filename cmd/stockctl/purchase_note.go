package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockflow/internal/materials"
)

func purchaseNoteCommand() *cli.Command {
	flags := []cli.Flag{
		newCatalogFlag(),
		&cli.StringSliceFlag{
			Name:     "material",
			Usage:    "Material to order as name=quantity; repeatable",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "PDF file to write",
			Value: "purchase-note.pdf",
		},
	}
	flags = append(flags, headerFlags()...)

	return &cli.Command{
		Name:   "purchase-note",
		Usage:  "Render a supplier purchase note priced from the catalog",
		Flags:  flags,
		Action: runPurchaseNote,
	}
}

func runPurchaseNote(c *cli.Context) error {
	quantities, err := parseMaterialQuantities(c.StringSlice("material"))
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(c)
	if err != nil {
		return err
	}

	path := c.String("out")
	note, err := writePurchaseNote(path, headerFromFlags(c), quantities, materials.PricesFromMaterials(catalog.Materials))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %d lines, total %s, written to %s\n",
		note.Number, len(note.Lines), note.Total.StringFixed(2), path)
	return nil
}

// parseMaterialQuantities reads name=quantity pairs; repeated names add up.
func parseMaterialQuantities(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid material %q, want name=quantity", pair)
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for %s: %w", name, err)
		}
		if qty <= 0 {
			return nil, fmt.Errorf("quantity for %s must be positive", name)
		}
		out[name] += qty
	}
	return out, nil
}
