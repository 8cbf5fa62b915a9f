package assets

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/prism/engine/core"
)

// ConfigWatcher reloads a configuration file whenever it changes on disk.
// Only the most recent valid configuration is kept until it is taken.
type ConfigWatcher struct {
	path string

	fsnotify *fsnotify.Watcher
	configs  chan *Config
	errors   chan error
	done     chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewConfigWatcher watches the directory holding path, so that editors
// replacing the file are noticed too.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &ConfigWatcher{
		path:     abs,
		fsnotify: fsWatch,
		configs:  make(chan *Config, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

func (w *ConfigWatcher) Path() string {
	return w.path
}

// Latest returns the newest configuration loaded since the last call, if any.
func (w *ConfigWatcher) Latest() (*Config, bool) {
	select {
	case cfg := <-w.configs:
		return cfg, true
	default:
		return nil, false
	}
}

// Errors delivers reload failures. Failures nobody reads are dropped.
func (w *ConfigWatcher) Errors() <-chan error {
	return w.errors
}

func (w *ConfigWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsnotify.Close()
	})
	return err
}

func (w *ConfigWatcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cfg, err := LoadConfig(w.path)
			if err != nil {
				w.fail(err)
				continue
			}
			core.LogDebug("configuration %s reloaded", w.path)
			w.publish(cfg)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			w.fail(err)

		case <-w.done:
			return
		}
	}
}

// publish replaces any configuration not taken yet.
func (w *ConfigWatcher) publish(cfg *Config) {
	for {
		select {
		case w.configs <- cfg:
			return
		default:
		}
		select {
		case <-w.configs:
		default:
		}
	}
}

func (w *ConfigWatcher) fail(err error) {
	if err == nil {
		err = errors.New("unknown watcher error")
	}
	core.LogError(err.Error())
	select {
	case w.errors <- err:
	default:
	}
}
