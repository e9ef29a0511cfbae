package config

import (
	"context"
	"strings"

	"github.com/bebetterst/lightAIchat/llm"
)

// EnvPrefix 环境变量前缀，例如 LIGHTAICHAT_MODEL_APIKEY
const EnvPrefix = "LIGHTAICHAT"

// File 是配置文件的完整结构
type File struct {
	Model llm.Settings `mapstructure:"model" json:"model" yaml:"model"`
	HTTP  HTTP         `mapstructure:"http" json:"http" yaml:"http"`
	Log   Log          `mapstructure:"log" json:"log" yaml:"log"`
}

// HTTP 出站请求相关配置
type HTTP struct {
	UserAgent string `mapstructure:"userAgent" json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	// RequestsPerSecond 为 0 表示不限流
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond" json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int     `mapstructure:"burst" json:"burst" yaml:"burst"`
}

// Log 日志配置
type Log struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Format string `mapstructure:"format" json:"format" yaml:"format"`
}

// Defaults 返回所有已知键的默认值。
// 每个键都需要注册，否则 AutomaticEnv 无法覆盖文件中不存在的键。
func Defaults() map[string]any {
	return map[string]any{
		"model.provider":    "",
		"model.apiKey":      "",
		"model.apiEndpoint": "",
		"model.modelName":   "",
		"model.temperature": 0.7,
		"model.maxTokens":   2048,
		"model.stream":      true,

		"http.userAgent":         "",
		"http.requestsPerSecond": 0.0,
		"http.burst":             1,

		"log.level":  "info",
		"log.format": "text",
	}
}

// Store 是模型配置的持久化来源，实现 dispatch.SettingsSource
type Store struct {
	cfg *Config[File]
}

// Open 打开配置文件（path 可为空），叠加默认值与 LIGHTAICHAT_ 环境变量
func Open(path string, opts ...Option[File]) (*Store, error) {
	all := append([]Option[File]{
		WithDefaults[File](Defaults()),
		WithEnv[File](EnvPrefix),
	}, opts...)
	cfg, err := Load(path, all...)
	if err != nil {
		return nil, err
	}
	return &Store{cfg: cfg}, nil
}

// File 返回当前缓存的完整配置
func (s *Store) File() File { return s.cfg.Get() }

// Path 返回配置文件路径
func (s *Store) Path() string { return s.cfg.Path() }

// Current 每次调用都重新读取配置，返回一份独立的 llm.Settings。
// 未配置 provider 且没有 API Key 时返回 nil，由调用方报告 "未配置"。
func (s *Store) Current(ctx context.Context) (*llm.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.cfg.Reload(); err != nil {
		return nil, err
	}
	m := s.cfg.Get().Model
	if strings.TrimSpace(string(m.Provider)) == "" && strings.TrimSpace(m.APIKey) == "" {
		return nil, nil
	}
	return &m, nil
}

// OnChange 注册配置变更回调
func (s *Store) OnChange(fn func(old, new File)) { s.cfg.OnChange(fn) }

// Close 停止配置文件监控
func (s *Store) Close() error { return s.cfg.Close() }
