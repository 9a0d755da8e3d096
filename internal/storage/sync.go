package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/memelab/memelab/internal/logger"
)

// SyncDir uploads every regular file in dir to store under keyPrefix,
// skipping objects that already exist. It is used at startup to mirror the
// offline asset directory into the bucket backend.
func SyncDir(ctx context.Context, store ObjectStorage, dir, keyPrefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read asset directory: %w", err)
	}

	keyPrefix = strings.Trim(keyPrefix, "/")

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		key := keyPrefix + "/" + entry.Name()
		exists, err := store.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read asset %s: %w", entry.Name(), err)
		}

		contentType := mime.TypeByExtension(filepath.Ext(entry.Name()))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		if err := store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			return err
		}
		logger.CtxInfo(ctx, "Uploaded offline asset %s", key)
	}

	return nil
}
