package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// WorkerConfig tunes one multilang worker process.
type WorkerConfig struct {
	Name          string `toml:"name" env:"STORMLANG_NAME"`
	LogLevel      string `toml:"log_level" env:"STORMLANG_LOG_LEVEL"`
	MaxFrameBytes int    `toml:"max_frame_bytes" env:"STORMLANG_MAX_FRAME_BYTES"`
	MetricsAddr   string `toml:"metrics_addr" env:"STORMLANG_METRICS_ADDR"`
	ForwardLogs   bool   `toml:"forward_logs" env:"STORMLANG_FORWARD_LOGS"`
	AutoAck       bool   `toml:"auto_ack" env:"STORMLANG_AUTO_ACK"`
}

func DefaultWorkerConfig(name string) WorkerConfig {
	return WorkerConfig{
		Name:          name,
		LogLevel:      "info",
		MaxFrameBytes: 8 * 1024 * 1024,
		ForwardLogs:   true,
		AutoAck:       true,
	}
}

// LoadWorkerConfig layers defaults, the TOML file at path (skipped when
// path is empty) and STORMLANG_* environment overrides, in that order.
func LoadWorkerConfig(path, name string) (WorkerConfig, error) {
	cfg := DefaultWorkerConfig(name)
	if strings.TrimSpace(path) != "" {
		if err := loadToml(path, &cfg); err != nil {
			return WorkerConfig{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return WorkerConfig{}, fmt.Errorf("config env parse failed: %w", err)
	}
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.MetricsAddr = strings.TrimSpace(cfg.MetricsAddr)
	if err := ValidateWorkerConfig(cfg); err != nil {
		return WorkerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, cfg *WorkerConfig) error {
	var raw WorkerConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("name") {
		cfg.Name = raw.Name
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	if meta.IsDefined("max_frame_bytes") {
		cfg.MaxFrameBytes = raw.MaxFrameBytes
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = raw.MetricsAddr
	}
	if meta.IsDefined("forward_logs") {
		cfg.ForwardLogs = raw.ForwardLogs
	}
	if meta.IsDefined("auto_ack") {
		cfg.AutoAck = raw.AutoAck
	}
	return nil
}

func ValidateWorkerConfig(cfg WorkerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("worker config missing name")
	}
	if cfg.MaxFrameBytes <= 0 {
		return fmt.Errorf("worker config max_frame_bytes must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "disabled", "off", "none":
	default:
		return fmt.Errorf("worker config unknown log_level %q", cfg.LogLevel)
	}
	if cfg.MetricsAddr != "" && !strings.Contains(cfg.MetricsAddr, ":") {
		return fmt.Errorf("worker config metrics_addr must be host:port")
	}
	return nil
}
