// Package config 提供基于 viper 的配置加载：文件、环境变量与默认值三层合并，
// 文件变更时通过 fsnotify 热更新并通知订阅者。
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const debounce = 100 * time.Millisecond

// Config 配置管理器
type Config[T any] struct {
	v        *viper.Viper
	path     string
	value    *T
	mu       sync.RWMutex
	watchers []func(old, new T)
	logger   *slog.Logger
	watch    bool

	// viper 实例不是并发安全的，所有读取都在 mu 下进行，因此不使用 viper.WatchConfig
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Option 配置选项
type Option[T any] func(*Config[T])

// WithDefaults 设置默认值
func WithDefaults[T any](defaults map[string]any) Option[T] {
	return func(c *Config[T]) {
		for k, v := range defaults {
			c.v.SetDefault(k, v)
		}
	}
}

// WithEnv 绑定环境变量，键中的 "." 替换为 "_"，例如 model.apiKey -> PREFIX_MODEL_APIKEY
func WithEnv[T any](prefix string) Option[T] {
	return func(c *Config[T]) {
		c.v.SetEnvPrefix(prefix)
		c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		c.v.AutomaticEnv()
	}
}

// WithLogger 设置日志记录器
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Config[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithoutWatch 关闭文件监控，只在显式 Reload 时重新读取
func WithoutWatch[T any]() Option[T] {
	return func(c *Config[T]) { c.watch = false }
}

// Load 加载配置文件并自动监控变更。
// path 为空时只使用默认值和环境变量。
func Load[T any](path string, opts ...Option[T]) (*Config[T], error) {
	v := viper.New()
	c := &Config[T]{
		v:      v,
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		watch:  true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var val T
	if err := v.Unmarshal(&val); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	c.value = &val

	if path != "" && c.watch {
		if err := c.startWatch(); err != nil {
			c.logger.Warn("config watch disabled", slog.String("file", path), slog.Any("err", err))
		}
	}
	return c, nil
}

// Path 返回配置文件路径，未使用文件时为空
func (c *Config[T]) Path() string { return c.path }

// Get 获取当前配置（并发安全，返回深拷贝）
func (c *Config[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(*c.value)
}

// OnChange 注册配置变更回调
func (c *Config[T]) OnChange(callback func(old, new T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, callback)
}

// Close 停止文件监控，可重复调用
func (c *Config[T]) Close() error {
	c.closeOnce.Do(func() {
		if c.watcher == nil {
			return
		}
		c.closeErr = c.watcher.Close()
		<-c.done
	})
	return c.closeErr
}

// Reload 重新读取配置，内容有变化时通知回调并返回 true
func (c *Config[T]) Reload() (bool, error) {
	oldConfig, newConfig, watchers, err := c.reloadConfig()
	if err != nil {
		return false, err
	}
	if !Changed(oldConfig, newConfig) {
		return false, nil
	}

	for _, cb := range watchers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("config watcher panicked", slog.Any("panic", r))
				}
			}()
			cb(oldConfig, newConfig)
		}()
	}
	return true, nil
}

// Changed 比较两个值是否不同
func Changed[T any](old, new T) bool {
	return !reflect.DeepEqual(old, new)
}

// deepCopy 通过 JSON 序列化实现深拷贝
func deepCopy[T any](src T) T {
	var dst T
	data, _ := json.Marshal(src)
	_ = json.Unmarshal(data, &dst)
	return dst
}

// startWatch 监控配置文件所在目录，编辑器的 rename 写入也能被捕获
func (c *Config[T]) startWatch() error {
	file, err := filepath.Abs(c.path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(file)); err != nil {
		_ = w.Close()
		return err
	}
	c.watcher = w
	c.done = make(chan struct{})
	go c.watchLoop(w, file)
	return nil
}

func (c *Config[T]) watchLoop(w *fsnotify.Watcher, file string) {
	defer close(c.done)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != file || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, c.reloadFromWatch)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			c.logger.Warn("config watch error", slog.String("file", file), slog.Any("err", err))
		}
	}
}

func (c *Config[T]) reloadFromWatch() {
	changed, err := c.Reload()
	if err != nil {
		c.logger.Warn("config reload failed", slog.String("file", c.path), slog.Any("err", err))
		return
	}
	if changed {
		c.logger.Info("config reloaded", slog.String("file", c.path))
	}
}

// reloadConfig 在锁内重新加载配置，返回旧配置、新配置和回调列表
func (c *Config[T]) reloadConfig() (old, cur T, watchers []func(old, new T), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path != "" {
		if err := c.v.ReadInConfig(); err != nil {
			return old, cur, nil, fmt.Errorf("config: read %s: %w", c.path, err)
		}
	}

	var val T
	if err := c.v.Unmarshal(&val); err != nil {
		return old, cur, nil, fmt.Errorf("config: decode: %w", err)
	}
	old = deepCopy(*c.value)
	c.value = &val

	watchers = make([]func(old, new T), len(c.watchers))
	copy(watchers, c.watchers)

	return old, deepCopy(val), watchers, nil
}
