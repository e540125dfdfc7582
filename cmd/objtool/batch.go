package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-obj/internal/assets"
	"github.com/Faultbox/midgard-obj/internal/config"
	"github.com/Faultbox/midgard-obj/internal/loader"
	"github.com/Faultbox/midgard-obj/internal/logger"
	"github.com/Faultbox/midgard-obj/internal/mesh"
)

const meshExt = ".omsh"

type batchResult struct {
	Converted int
	Failed    int
}

// runBatch converts every file under dir whose extension is configured,
// mirroring the directory layout under cfg.Convert.OutputDir.
// Per-file failures are logged and counted; only setup errors are returned.
func runBatch(cfg *config.Config, dir string, showProgress bool) (batchResult, error) {
	registry := assets.NewRegistry()
	registry.Register(loader.Load, cfg.Convert.Extensions...)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := registry.ForPath(d.Name()); ok {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return batchResult{}, fmt.Errorf("scanning %s: %w", dir, err)
	}

	logger.Info("batch started",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("workers", cfg.Convert.Workers),
	)

	manager := assets.NewManager(os.DirFS(dir), registry)
	defer manager.Close()

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(files)), "converting")
		defer bar.Close()
	}

	var converted, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(max(cfg.Convert.Workers, 1))
	for _, file := range files {
		file := file
		g.Go(func() error {
			if bar != nil {
				defer bar.Add(1)
			}
			if err := convertOne(cfg, manager, file); err != nil {
				logger.Warn("conversion failed", zap.String("file", file), zap.Error(err))
				failed.Add(1)
				return nil
			}
			converted.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := batchResult{Converted: int(converted.Load()), Failed: int(failed.Load())}
	logger.Info("batch finished", zap.Int("converted", res.Converted), zap.Int("failed", res.Failed))
	return res, nil
}

func convertOne(cfg *config.Config, manager *assets.Manager, file string) error {
	h, err := manager.Load(file)
	if err != nil {
		return err
	}
	m, _ := manager.Get(h)

	if cfg.Convert.Validate {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	dst := filepath.Join(cfg.Convert.OutputDir, filepath.FromSlash(strings.TrimSuffix(file, filepath.Ext(file))+meshExt))
	return writeMesh(dst, m)
}

func writeMesh(path string, m *mesh.Mesh) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
