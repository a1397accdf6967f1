package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockflow/internal/config"
)

func TestLocalClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	client, err := New(ctx, config.StorageConfig{Driver: "local", LocalDir: root})
	require.NoError(t, err)

	require.NoError(t, client.UploadObject(ctx, "notes/PN-1.pdf", []byte("%PDF-1.3"), "application/pdf"))

	objects, err := client.ListObjects(ctx, "notes")
	require.NoError(t, err)
	require.Len(t, objects, 1)

	dest := filepath.Join(t.TempDir(), "out", "PN-1.pdf")
	require.NoError(t, client.DownloadObject(ctx, "notes/PN-1.pdf", dest))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(got))
}

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	_, err = New(ctx, config.StorageConfig{Driver: "local"})
	assert.Error(t, err)

	_, err = New(ctx, config.StorageConfig{Driver: "s3", Endpoint: "s3.local"})
	assert.Error(t, err, "credentials are required")

	_, err = New(ctx, config.StorageConfig{Driver: "minio", Bucket: "b"})
	assert.Error(t, err, "endpoint is required")
}
