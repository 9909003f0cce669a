package style

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ThemeConfig is the on-disk (YAML) description of a TableTheme's static
// colors; effects are composed in code and are not configurable from disk.
type ThemeConfig struct {
	Border      ColorConfig `yaml:"border"`
	Header      ColorConfig `yaml:"header"`
	Row         ColorConfig `yaml:"row"`
	RowAlt      ColorConfig `yaml:"row_alt"`
	RowSelected ColorConfig `yaml:"row_selected"`
	RowHover    ColorConfig `yaml:"row_hover"`
	Divider     ColorConfig `yaml:"divider"`
	Padding     int         `yaml:"padding"`
	ColumnGap   int         `yaml:"column_gap"`
	RowHeight   int         `yaml:"row_height"`
}

// ColorConfig is a YAML-friendly fg/bg pair; empty strings mean "inherit".
type ColorConfig struct {
	Fg string `yaml:"fg"`
	Bg string `yaml:"bg"`
}

func LoadThemeConfig(path string) (ThemeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ThemeConfig{}, err
	}
	var cfg ThemeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ThemeConfig{}, err
	}
	return cfg, nil
}

// ThemeWatcher reloads a ThemeConfig from path whenever it changes on disk,
// publishing each successfully parsed version to onReload.
type ThemeWatcher struct {
	mu       sync.Mutex
	current  ThemeConfig
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	onReload func(ThemeConfig)
}

// WatchThemeConfig loads path once, then starts a goroutine that reloads it
// on every write/create event until Close is called.
func WatchThemeConfig(path string, log *zap.Logger, onReload func(ThemeConfig)) (*ThemeWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := LoadThemeConfig(path)
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
	tw := &ThemeWatcher{current: cfg, watcher: w, log: log, onReload: onReload}
	go tw.loop(path)
	return tw, nil
}

func (tw *ThemeWatcher) loop(path string) {
	for {
		select {
		case ev, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadThemeConfig(path)
			if err != nil {
				tw.log.Warn("theme config reload failed", zap.Error(err), zap.String("path", path))
				continue
			}
			tw.mu.Lock()
			tw.current = cfg
			tw.mu.Unlock()
			if tw.onReload != nil {
				tw.onReload(cfg)
			}
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.log.Warn("theme config watch error", zap.Error(err))
		}
	}
}

// Current returns the most recently loaded configuration.
func (tw *ThemeWatcher) Current() ThemeConfig {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.current
}

func (tw *ThemeWatcher) Close() error { return tw.watcher.Close() }
