package middleware

import (
	"context"
	"net/http"
	"taskboard/internal/logger"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const RequestIdKey contextKey = "request_id"

const RequestIdHeader = "X-Request-ID"

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain wraps base with the given transports; the first one runs outermost.
func Chain(base http.RoundTripper, transports ...func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(transports) - 1; i >= 0; i-- {
		base = transports[i](base)
	}
	return base
}

func RequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		requestId := r.Header.Get(RequestIdHeader)
		if requestId == "" {
			requestId = GetRequestID(r.Context())
		}
		if requestId == "" {
			requestId = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), RequestIdKey, requestId)
		r = r.Clone(ctx)
		r.Header.Set(RequestIdHeader, requestId)

		return next.RoundTrip(r)
	})
}

func Logging(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		requestId := GetRequestID(r.Context())

		logger.HTTPRequest(r, "HTTP_OUT: Request started", zap.String("request_id", requestId))

		resp, err := next.RoundTrip(r)
		if err != nil {
			logger.Error("HTTP_OUT: Request failed", err,
				zap.String("request_id", requestId),
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.Duration("ms", time.Since(start)),
			)
			return nil, err
		}

		logLevel := zap.DebugLevel
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			logLevel = zap.WarnLevel
		} else if resp.StatusCode >= 500 {
			logLevel = zap.ErrorLevel
		}
		logger.Log(
			logLevel,
			"HTTP_OUT: Response received",
			zap.String("request_id", requestId),
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("ms", time.Since(start)),
		)
		return resp, nil
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIdKey).(string); ok {
		return id
	}
	return ""
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIdKey, id)
}
