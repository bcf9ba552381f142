package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// File is a local regular file and the object key it maps to.
type File struct {
	Path string
	Key  string
}

type FileCollector interface {
	Collect(ctx context.Context, file *File) error
}

// Walk walks through the given directory recursively and hands every non-hidden regular file to
// the collector. Keys are the slash separated paths relative to rootDir, joined under keyPrefix.
// Directories are not collected, they exist implicitly through the keys of their files.
func Walk(ctx context.Context, log *logrus.Logger, rootDir, keyPrefix string, collector FileCollector) error {
	logger := log.WithFields(logrus.Fields{
		"root_dir":   rootDir,
		"key_prefix": keyPrefix,
	})
	logger.Info("Walking directory")

	err := filepath.WalkDir(rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if strings.HasSuffix(p, "~") {
			// skip temp files created by other apps e.g. editors
			return nil
		}

		if name := filepath.Base(p); name != "." && p != rootDir && strings.HasPrefix(name, ".") {
			// skip hidden files or directories
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() {
			// skip irregular files e.g. symlinks
			return nil
		}

		rel, err := filepath.Rel(rootDir, p)
		if err != nil {
			return fmt.Errorf("relative path of %q: %w", p, err)
		}

		err = collector.Collect(ctx, &File{
			Path: p,
			Key:  strings.Trim(path.Join(keyPrefix, filepath.ToSlash(rel)), "/"),
		})
		if err != nil {
			logger.WithField("path", p).WithError(err).Error("Error collecting file")
			return fmt.Errorf("collect file: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}
