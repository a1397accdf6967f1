package orderparser

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ParseFiles parses the given files concurrently (at most workers at a time)
// and returns their lines as one continuous timeline, in argument order.
func ParseFiles(ctx context.Context, paths []string, workers int) ([]Day, error) {
	if workers <= 0 {
		workers = 1
	}

	perFile := make([][]Day, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open order file %s: %w", path, err)
			}
			defer f.Close()

			days, err := ParseReader(f)
			if err != nil {
				return fmt.Errorf("parse order file %s: %w", path, err)
			}
			perFile[i] = days

			log.Debug().
				Str("file", path).
				Int("lines", len(days)).
				Int("orders", len(Orders(days))).
				Msg("order file parsed")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Day
	for _, days := range perFile {
		for _, d := range days {
			d.Index = len(all) + 1
			all = append(all, d)
		}
	}
	return all, nil
}
