package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockflow/internal/drive"
	"github.com/andresuchdata/stockflow/internal/export"
	"github.com/andresuchdata/stockflow/internal/orderparser"
)

func newWorkersFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "workers",
		Usage: "Order files parsed concurrently",
		Value: 4,
	}
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse order files and print the orders of every day",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			newWorkersFlag(),
			&cli.StringFlag{
				Name:  "xlsx",
				Usage: "Also write the parsed orders to this workbook",
			},
		},
		Action: runParse,
	}
}

func runParse(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one order file is required")
	}
	days, err := loadDays(c, c.Args().Slice())
	if err != nil {
		return err
	}

	out := c.App.Writer
	for _, d := range days {
		if len(d.Orders) == 0 {
			fmt.Fprintf(out, "day %d: no orders\n", d.Index)
			continue
		}
		parts := make([]string, 0, len(d.Orders))
		for _, o := range d.Orders {
			parts = append(parts, fmt.Sprintf("%d %s %s", o.Quantity, o.ClothingType, o.Size))
		}
		fmt.Fprintf(out, "day %d: %s\n", d.Index, strings.Join(parts, ", "))
	}
	fmt.Fprintf(out, "%d days, %d orders\n", len(days), len(orderparser.Orders(days)))

	if path := c.String("xlsx"); path != "" {
		if err := writeFile(path, func(f *os.File) error { return export.WriteOrders(f, days) }); err != nil {
			return fmt.Errorf("write orders workbook: %w", err)
		}
		fmt.Fprintf(out, "orders written to %s\n", path)
	}
	return nil
}

// loadDays parses paths as one timeline. Workbooks are flattened into text
// files in a scratch directory first so every input goes through ParseFiles.
func loadDays(c *cli.Context, paths []string) ([]orderparser.Day, error) {
	var scratch string
	defer func() {
		if scratch != "" {
			os.RemoveAll(scratch)
		}
	}()

	inputs := make([]string, 0, len(paths))
	for i, p := range paths {
		if !strings.EqualFold(filepath.Ext(p), ".xlsx") {
			inputs = append(inputs, p)
			continue
		}
		if scratch == "" {
			dir, err := os.MkdirTemp("", "stockctl-orders-")
			if err != nil {
				return nil, err
			}
			scratch = dir
		}
		lines, err := drive.ReadXLSXLines(p)
		if err != nil {
			return nil, err
		}
		txt := filepath.Join(scratch, fmt.Sprintf("%03d.txt", i))
		if err := os.WriteFile(txt, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
			return nil, fmt.Errorf("flatten %s: %w", p, err)
		}
		inputs = append(inputs, txt)
	}

	return orderparser.ParseFiles(c.Context, inputs, c.Int("workers"))
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
