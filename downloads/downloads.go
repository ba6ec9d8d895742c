// Package downloads stores exported summaries, subtitle files and audio.
package downloads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vidbrief/config"

	"github.com/sirupsen/logrus"
)

// Sink stores one downloaded file and returns where it ended up
type Sink interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// LocalDir writes files into a directory, never overwriting existing ones
type LocalDir struct {
	dir string
}

// NewLocalDir creates the directory if needed
func NewLocalDir(dir string) (*LocalDir, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create download dir %s: %w", dir, err)
	}
	return &LocalDir{dir: dir}, nil
}

// Save writes data as name, adding " (n)" before the extension on collision
func (l *LocalDir) Save(_ context.Context, name string, data []byte, _ string) (string, error) {
	name = filepath.Base(name)
	for i := 0; ; i++ {
		path := filepath.Join(l.dir, numbered(name, i))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", path, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to close %s: %w", path, err)
		}
		return path, nil
	}
}

// numbered returns name for i == 0, otherwise "stem (i).ext"
func numbered(name string, i int) string {
	if i == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), i, ext)
}

// Open returns the S3 sink when a bucket is configured, otherwise the local directory
func Open(ctx context.Context, cfg *config.Config) (Sink, error) {
	if cfg.S3.Bucket != "" {
		sink, err := NewS3Sink(ctx, cfg.S3)
		if err == nil {
			return sink, nil
		}
		logrus.WithError(err).WithField("bucket", cfg.S3.Bucket).Warn("S3 unavailable, saving downloads locally")
	}
	return NewLocalDir(cfg.DownloadDir)
}
