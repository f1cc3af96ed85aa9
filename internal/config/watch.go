package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// ThresholdBounds is the subset of ThresholdConfig that hot-reloads: the
// min/max clamps the Adaptive Threshold Manager enforces. The current
// suggestion threshold itself is runtime, mutated state and is never
// reloaded from disk.
type ThresholdBounds struct {
	MinThreshold float64
	MaxThreshold float64
}

// WatchThresholdBounds watches configPath for changes and invokes onChange
// with the updated bounds after each write, debounced by 200ms to absorb
// editors that write a file in several steps. It returns an error at once
// if the watcher cannot be started; otherwise it blocks until the watcher's
// channels close, so callers run it in its own goroutine.
func WatchThresholdBounds(configPath string, onChange func(ThresholdBounds)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error().Err(err).Msg("config: fsnotify watcher init failed")
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		log.Error().Err(err).Str("dir", filepath.Dir(configPath)).Msg("config: fsnotify watch add failed")
		return err
	}
	log.Debug().Str("path", configPath).Msg("config: watching for threshold bound changes")

	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == filepath.Clean(configPath) {
				debounce.Reset(200 * time.Millisecond)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(watchErr).Msg("config: fsnotify watch error")
		case <-debounce.C:
			cfg, err := Load(configPath)
			if err != nil {
				log.Error().Err(err).Str("path", configPath).Msg("config: reload failed, keeping prior bounds")
				continue
			}
			log.Info().Float64("min", cfg.Threshold.MinThreshold).Float64("max", cfg.Threshold.MaxThreshold).Msg("config: threshold bounds reloaded")
			onChange(ThresholdBounds{MinThreshold: cfg.Threshold.MinThreshold, MaxThreshold: cfg.Threshold.MaxThreshold})
		}
	}
}
