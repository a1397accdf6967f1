package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// DownloadOptions controls how order files are pulled from Google Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Downloader wraps a FileSource to download order files from a specific folder.
type Downloader struct {
	source FileSource
}

// NewDownloader creates a new Downloader.
func NewDownloader(s FileSource) *Downloader {
	return &Downloader{source: s}
}

// DownloadOrderFiles downloads every .txt and .xlsx file in the folder into
// DownloadDir and returns local text paths sorted by file name, which is the
// order their lines are simulated in.
//
//   - .txt files are downloaded directly.
//   - .xlsx files are downloaded, their first sheet is written out as a .txt
//     next to them, and the .xlsx is removed.
func (d *Downloader) DownloadOrderFiles(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := d.source.ListFiles(ctx, opts.FolderID)
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var localPaths []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".txt" && ext != ".xlsx" {
			log.Debug().Str("file", f.Name).Msg("drive: skipping non-order file")
			continue
		}

		localPath := filepath.Join(opts.DownloadDir, filepath.Base(f.Name))
		if err := d.fetch(ctx, f, localPath); err != nil {
			return nil, err
		}

		if ext == ".txt" {
			localPaths = append(localPaths, localPath)
			continue
		}

		txtPath := strings.TrimSuffix(localPath, filepath.Ext(localPath)) + ".txt"
		if err := convertXLSXToText(localPath, txtPath); err != nil {
			return nil, fmt.Errorf("failed to convert %s to text: %w", f.Name, err)
		}
		_ = os.Remove(localPath)
		localPaths = append(localPaths, txtPath)
	}

	log.Info().
		Str("folder", opts.FolderID).
		Int("files", len(localPaths)).
		Msg("drive: order files downloaded")
	return localPaths, nil
}

func (d *Downloader) fetch(ctx context.Context, f *File, localPath string) error {
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	defer out.Close()

	if err := d.source.DownloadFile(ctx, f.ID, out); err != nil {
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return nil
}
