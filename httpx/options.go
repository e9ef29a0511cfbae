package httpx

import (
	"net/http"
	"time"
)

// Option configures a Client built by New.
type Option interface{ apply(*Config) }

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

func WithBaseURL(baseURL string) Option {
	return optionFunc(func(c *Config) { c.BaseURL = baseURL })
}

func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.Timeout = d })
}

func WithTransport(rt http.RoundTripper) Option {
	return optionFunc(func(c *Config) { c.Transport = rt })
}

func WithUserAgent(ua string) Option {
	return optionFunc(func(c *Config) { c.UserAgent = ua })
}

func WithMaxErrorBodyBytes(n int64) Option {
	return optionFunc(func(c *Config) { c.MaxErrorBodyBytes = n })
}

// WithRateLimiter installs a client-wide limiter, e.g. a *rate.Limiter from golang.org/x/time/rate.
func WithRateLimiter(rl RateLimiter) Option {
	return optionFunc(func(c *Config) { c.RateLimiter = rl })
}
