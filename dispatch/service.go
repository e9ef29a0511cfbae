// Package dispatch 是对话补全的统一入口：校验配置、按 provider 选择适配器、
// 必要时规范化消息序列、调用适配器，并把任何失败统一包装为 *Error。
package dispatch

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bebetterst/lightAIchat/llm"
)

// SettingsSource 是外部配置存储，每次 DispatchCurrent 调用时读取一次。
type SettingsSource interface {
	Current(ctx context.Context) (*llm.Settings, error)
}

type Option func(*Service)

// WithLogger 设置日志记录器，默认丢弃日志。
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type Service struct {
	registry *Registry
	logger   *slog.Logger
}

// New 创建 Service。registry 为 nil 时所有 provider 都视为不支持。
func New(registry *Registry, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Registry() *Registry { return s.registry }

// Dispatch 使用给定的配置快照完成一次对话。
//
// settings 为 nil 或 API Key 为空时直接返回配置错误（不包装）；
// 其余失败（包括未知 provider）统一包装为 *Error，消息为 "AI response failed: <reason>"。
// 失败时不会返回部分结果。
func (s *Service) Dispatch(ctx context.Context, settings *llm.Settings, conv llm.Conversation, onProgress llm.ProgressFunc) (string, error) {
	if settings == nil {
		return "", llm.ErrNoSettings
	}
	if strings.TrimSpace(settings.APIKey) == "" {
		return "", llm.ErrMissingAPIKey
	}
	// 快照：本次调用期间不受外部修改影响
	snap := *settings

	adapter, ok := s.registry.Lookup(snap.Provider)
	if !ok {
		return "", wrap(snap.Provider, llm.ConfigError(snap.Provider, "unsupported provider"))
	}
	if err := snap.Validate(); err != nil {
		return "", err
	}

	desc := adapter.Descriptor()
	msgs := conv
	if desc.RequiresNormalization {
		msgs = llm.Normalize(conv)
	}

	log := s.logger.With(slog.String("provider", string(snap.Provider)), slog.String("model", snap.Model()))
	start := time.Now()
	out, err := adapter.Complete(ctx, msgs, snap, onProgress)
	if err != nil {
		log.Warn("dispatch failed", slog.Duration("elapsed", time.Since(start)), slog.Any("err", err))
		return "", wrap(snap.Provider, err)
	}
	log.Debug("dispatch completed",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("messages", len(msgs)),
		slog.Int("chars", len(out)),
	)
	return out, nil
}

// DispatchCurrent 从 src 读取当前配置后调用 Dispatch。
func (s *Service) DispatchCurrent(ctx context.Context, src SettingsSource, conv llm.Conversation, onProgress llm.ProgressFunc) (string, error) {
	settings, err := src.Current(ctx)
	if err != nil {
		return "", err
	}
	return s.Dispatch(ctx, settings, conv, onProgress)
}

// Probe 检查连通性，从不返回 error。
func (s *Service) Probe(ctx context.Context, settings *llm.Settings) llm.ProbeResult {
	if settings == nil {
		return llm.ProbeFailed(llm.ErrNoSettings.Message)
	}
	adapter, ok := s.registry.Lookup(settings.Provider)
	if !ok {
		return llm.ProbeFailed("unsupported provider")
	}
	if strings.TrimSpace(settings.APIKey) == "" {
		return llm.ProbeFailed(llm.ErrMissingAPIKey.Message)
	}
	res := adapter.Probe(ctx, *settings)
	s.logger.Debug("probe", slog.String("provider", string(settings.Provider)), slog.Bool("success", res.Success))
	return res
}
