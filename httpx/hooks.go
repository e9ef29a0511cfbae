package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// RateLimiter can be used to throttle outgoing requests.
// It should block until a token is available or ctx is canceled.
// *rate.Limiter from golang.org/x/time/rate satisfies it.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

type BeforeHook func(req *http.Request) error

type AfterHook func(req *http.Request, resp *http.Response, err error, dur time.Duration)

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// LoggingHooks returns an AfterHook that records every round trip at debug level,
// and at warn level when the transport failed. Query strings are dropped from the
// logged URL since some providers carry credentials there.
func LoggingHooks(logger *slog.Logger, requestIDHeader string) AfterHook {
	if logger == nil {
		logger = slog.Default()
	}
	return func(req *http.Request, resp *http.Response, err error, dur time.Duration) {
		attrs := []any{
			slog.String("method", req.Method),
			slog.String("url", RedactURL(req.URL)),
			slog.Duration("duration", dur),
		}
		if requestIDHeader != "" {
			if id := req.Header.Get(requestIDHeader); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}
		}
		if err != nil {
			attrs = append(attrs, slog.String("fault", Classify(err).String()), slog.Any("err", err))
			logger.Warn("http request failed", attrs...)
			return
		}
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
		logger.Debug("http request", attrs...)
	}
}
