package session

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EngineConfig is the on-disk (YAML) description of a Session's tunable
// runtime knobs: frame pacing and the flow-control thresholds (C12). A
// config adopted by a running Session replaces its flow-control thresholds;
// the frame budget and tick rate are stored, but the degradation controller
// and an already-running ticker keep the values the Session started with.
type EngineConfig struct {
	FrameBudgetMs int `yaml:"frame_budget_ms"`
	TickRateMs    int `yaml:"tick_rate_ms"`

	FlowControl FlowControlConfig `yaml:"flow_control"`
}

// FlowControlConfig is the YAML-friendly mirror of flow.FlowControlPolicy.
type FlowControlConfig struct {
	HardCapBytes                int     `yaml:"hard_cap_bytes"`
	QueueCoalesceThresholdBytes int     `yaml:"queue_coalesce_threshold_bytes"`
	LatencyBudgetMs             float64 `yaml:"latency_budget_ms"`
	FairnessThreshold           float64 `yaml:"fairness_threshold"`
	RateBudgetBps               float64 `yaml:"rate_budget_bps"`
}

// LoadEngineConfig reads and parses an EngineConfig from path.
func LoadEngineConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, err
	}
	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// FrameBudget returns the configured frame budget as a time.Duration,
// falling back to the Session default when unset.
func (c EngineConfig) FrameBudget() time.Duration {
	if c.FrameBudgetMs <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.FrameBudgetMs) * time.Millisecond
}

// TickRate returns the configured tick rate as a time.Duration, falling
// back to the Session default when unset.
func (c EngineConfig) TickRate() time.Duration {
	if c.TickRateMs <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.TickRateMs) * time.Millisecond
}

// ConfigWatcher reloads an EngineConfig from disk whenever it changes,
// publishing each successfully parsed version to onReload. Mirrors the
// style package's ThemeWatcher (yaml.v3 + fsnotify, mutex-guarded current
// value, one reload goroutine).
type ConfigWatcher struct {
	mu       sync.Mutex
	current  EngineConfig
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	onReload func(EngineConfig)
}

// WatchEngineConfig loads path once, then starts a goroutine that reloads
// it on every write/create event until Close is called. A reload that fails
// to parse is logged and the previously loaded configuration is kept.
func WatchEngineConfig(path string, log *zap.Logger, onReload func(EngineConfig)) (*ConfigWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := LoadEngineConfig(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	cw := &ConfigWatcher{current: cfg, watcher: w, log: log, onReload: onReload}
	go cw.loop(path)
	return cw, nil
}

func (cw *ConfigWatcher) loop(path string) {
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadEngineConfig(path)
			if err != nil {
				cw.log.Warn("engine config reload failed", zap.Error(err), zap.String("path", path))
				continue
			}
			cw.mu.Lock()
			cw.current = cfg
			cw.mu.Unlock()
			cw.log.Debug("engine config reloaded", zap.String("path", path))
			if cw.onReload != nil {
				cw.onReload(cfg)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("engine config watch error", zap.Error(err))
		}
	}
}

// Current returns the most recently loaded configuration. Swapping the
// Session's live values from this happens atomically between frames, never
// mid-render, since the host loop only reads it at the top of tick.
func (cw *ConfigWatcher) Current() EngineConfig {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.current
}

func (cw *ConfigWatcher) Close() error { return cw.watcher.Close() }
