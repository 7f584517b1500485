package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/EchoTools/probetools/internal/config"
	"github.com/EchoTools/probetools/internal/logging"
	"github.com/EchoTools/probetools/pkg/probe"
)

// runWatch re-exports a capture whenever it or its sidecar changes, and
// keeps the manifest in the output directory up to date.
func runWatch(ctx context.Context, cfg config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchRecursive(watcher, inputPath); err != nil {
		return err
	}

	manifestPath := filepath.Join(cfg.Export.OutputDir, probe.ManifestName)
	m, err := probe.ReadManifest(manifestPath)
	if errors.Is(err, os.ErrNotExist) {
		m = &probe.Manifest{}
	} else if err != nil {
		return err
	}

	opts := exportOptions(cfg)
	logging.Info("watching captures", "dir", inputPath, "output", cfg.Export.OutputDir)

	for {
		select {
		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := watchRecursive(watcher, e.Name); err != nil {
						logging.Warn("watch directory", "dir", e.Name, "err", err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			path, ok := capturePathFor(e.Name)
			if !ok {
				continue
			}
			if err := reexport(path, opts, m, manifestPath); err != nil {
				logging.Error("re-export failed", "capture", path, "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("watcher", "err", err)

		case <-ctx.Done():
			logging.Info("watch stopped")
			return nil
		}
	}
}

// capturePathFor maps a changed file to the capture it belongs to.
func capturePathFor(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case probe.CaptureExt:
		return name, true
	case probe.SidecarExt:
		path := strings.TrimSuffix(name, filepath.Ext(name)) + probe.CaptureExt
		if _, err := os.Stat(path); err != nil {
			return "", false
		}
		return path, true
	default:
		return "", false
	}
}

func reexport(path string, opts probe.Options, m *probe.Manifest, manifestPath string) error {
	p, err := probe.Open(path)
	if err != nil {
		return err
	}

	entry, err := probe.Export(p, opts)
	if err != nil {
		return err
	}

	m.Put(entry)
	return probe.WriteManifest(manifestPath, m)
}

// watchRecursive adds dir and every directory below it to the watch list.
func watchRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
