package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watch re-renders whenever the input or a script file is written, until
// ctx is done. Parent directories are watched so editors that replace
// files by rename are still seen.
func watch(ctx context.Context, opts options, out, errOut io.Writer, logger *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range append([]string{opts.input}, opts.scripts...) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	logger.Info("watching", zap.Int("files", len(files)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(ev.Name)
			if !files[abs] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("change", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			fmt.Fprintf(out, "--- %s\n", filepath.Base(ev.Name))
			if err := render(opts, out, logger); err != nil {
				fmt.Fprintf(errOut, "Error: %v\n", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
