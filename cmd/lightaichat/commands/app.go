package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/bebetterst/lightAIchat/config"
	"github.com/bebetterst/lightAIchat/dispatch"
	"github.com/bebetterst/lightAIchat/httpx"
	"github.com/bebetterst/lightAIchat/version"
)

const defaultConfigFile = "lightaichat.yaml"

// app 持有命令之间共享的状态，按需初始化
type app struct {
	configPath string
	logLevel   string

	store   *config.Store
	logger  *slog.Logger
	service *dispatch.Service
}

func (a *app) open(stderr io.Writer) error {
	if a.store != nil {
		return nil
	}
	path := a.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	store, err := config.Open(path, config.WithoutWatch[config.File]())
	if err != nil {
		return err
	}
	f := store.File()

	logger, err := newLogger(stderr, f.Log, a.logLevel)
	if err != nil {
		return err
	}
	hc, err := newHTTPClient(f.HTTP, logger)
	if err != nil {
		return err
	}
	reg, err := dispatch.NewRegistry(dispatch.Deps{HTTP: hc, Logger: logger})
	if err != nil {
		return err
	}

	a.store = store
	a.logger = logger
	a.service = dispatch.New(reg, dispatch.WithLogger(logger))
	logger.Debug("config loaded", slog.String("file", store.Path()))
	return nil
}

func newLogger(w io.Writer, cfg config.Log, override string) (*slog.Logger, error) {
	level := cfg.Level
	if override != "" {
		level = override
	}
	if level == "" {
		level = "info"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", cfg.Format)
	}
}

// newHTTPClient 构建所有适配器共享的 httpx 客户端
func newHTTPClient(cfg config.HTTP, logger *slog.Logger) (*httpx.Client, error) {
	ua := cfg.UserAgent
	if ua == "" {
		ua = version.UserAgent()
	}
	opts := []httpx.Option{httpx.WithUserAgent(ua)}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, httpx.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)))
	}
	c, err := httpx.New(opts...)
	if err != nil {
		return nil, err
	}
	return c.WithHooks(nil, []httpx.AfterHook{httpx.LoggingHooks(logger, httpx.DefaultRequestIDConfig().Header)}), nil
}
