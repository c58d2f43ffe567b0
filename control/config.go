// File: control/config.go
// Package control implements runtime configuration, metrics, and logging.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// Configuration is loaded through viper (file plus WSPIPE_ environment
// variables), validated, and optionally hot-reloaded on file change.

package control

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds every runtime setting of a wspipe server.
type Config struct {
	ListenAddr        string        `mapstructure:"listen_addr" validate:"required"`
	ShardCount        int           `mapstructure:"shard_count" validate:"gte=1"`
	ReadBufferSize    int           `mapstructure:"read_buffer_size" validate:"gte=256"`
	MaxFramePayload   int64         `mapstructure:"max_frame_payload" validate:"gt=0"`
	MaxHandshakeBytes int           `mapstructure:"max_handshake_bytes" validate:"gt=0"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	Log               LogConfig     `mapstructure:"log"`
	Trace             TraceConfig   `mapstructure:"trace"`
}

// LogConfig configures the zap logger and its rotation sink.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error dpanic panic fatal"`
	Console    bool   `mapstructure:"console"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// TraceConfig configures the OpenTelemetry bootstrap.
type TraceConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter" validate:"omitempty,oneof=otlp-grpc otlp-http stdout"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
	ServiceName string  `mapstructure:"service_name"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8080",
		ShardCount:        16,
		ReadBufferSize:    4096,
		MaxFramePayload:   1 << 20,
		MaxHandshakeBytes: 8 << 10,
		WriteTimeout:      10 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		Log: LogConfig{
			Level:     "info",
			Console:   true,
			MaxSizeMB: 100,
		},
		Trace: TraceConfig{
			Exporter:    "stdout",
			SampleRatio: 1.0,
			ServiceName: "wspipe",
		},
	}
}

// Loader reads, validates, merges, and watches configuration.
type Loader struct {
	v        *viper.Viper
	validate *validator.Validate

	mu       sync.RWMutex
	current  *Config
	onReload []func(*Config)
}

// NewLoader builds a loader for the given file path. An empty path runs on
// defaults and environment variables only.
func NewLoader(path string) *Loader {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix("WSPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v, validate: validator.New()}
}

// Load reads the configuration and validates it. It is also the reload path,
// so it may be called again after the file changes.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

func (l *Loader) loadLocked() (*Config, error) {
	applyDefaults(l.v)
	if l.v.ConfigFileUsed() != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	cfg := new(Config)
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := l.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	l.current = cfg
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("shard_count", def.ShardCount)
	v.SetDefault("read_buffer_size", def.ReadBufferSize)
	v.SetDefault("max_frame_payload", def.MaxFramePayload)
	v.SetDefault("max_handshake_bytes", def.MaxHandshakeBytes)
	v.SetDefault("write_timeout", def.WriteTimeout)
	v.SetDefault("shutdown_timeout", def.ShutdownTimeout)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.console", def.Log.Console)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.max_age_days", def.Log.MaxAgeDays)
	v.SetDefault("log.compress", def.Log.Compress)
	v.SetDefault("trace.enabled", def.Trace.Enabled)
	v.SetDefault("trace.exporter", def.Trace.Exporter)
	v.SetDefault("trace.endpoint", def.Trace.Endpoint)
	v.SetDefault("trace.insecure", def.Trace.Insecure)
	v.SetDefault("trace.sample_ratio", def.Trace.SampleRatio)
	v.SetDefault("trace.service_name", def.Trace.ServiceName)
}

// Current returns the last successfully loaded configuration.
func (l *Loader) Current() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Snapshot returns every effective setting as a plain map.
func (l *Loader) Snapshot() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.AllSettings()
}

// Merge applies the given keys on top of the current settings. The merged
// result must still validate; listeners are notified on success.
func (l *Loader) Merge(values map[string]any) error {
	l.mu.Lock()
	for k, val := range values {
		l.v.Set(k, val)
	}
	cfg := new(Config)
	if err := l.v.Unmarshal(cfg); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := l.validate.Struct(cfg); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("validate config: %w", err)
	}
	l.current = cfg
	l.mu.Unlock()

	l.notify(cfg)
	return nil
}

// OnReload registers fn to run after every accepted configuration change.
func (l *Loader) OnReload(fn func(*Config)) {
	l.mu.Lock()
	l.onReload = append(l.onReload, fn)
	l.mu.Unlock()
}

func (l *Loader) notify(cfg *Config) {
	l.mu.RLock()
	listeners := make([]func(*Config), len(l.onReload))
	copy(listeners, l.onReload)
	l.mu.RUnlock()
	for _, fn := range listeners {
		fn(cfg)
	}
}

// Watch re-reads the file on change. Invalid reloads are logged and skipped;
// the previous configuration stays in effect.
func (l *Loader) Watch(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.Lock()
		cfg, err := l.loadLocked()
		l.mu.Unlock()
		if err != nil {
			logger.Warn("config reload rejected",
				zap.String("file", e.Name), zap.Error(err))
			return
		}
		logger.Info("config reloaded", zap.String("file", e.Name))
		l.notify(cfg)
	})
	l.v.WatchConfig()
}
