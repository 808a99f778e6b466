package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bookkeeping-web/pkg/id"
)

const (
	// DefaultLockTTL bounds how long a crashed request can block its route.
	DefaultLockTTL = 60 * time.Second

	storeTimeout = 2 * time.Second
)

type lockEntry struct {
	Token      string    `json:"token"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

type InFlightConfig struct {
	Redis *redis.Client
	TTL   time.Duration
	// SessionID extracts the browser session. Requests without one pass.
	SessionID func(c echo.Context) string
	// OnBusy answers a request whose twin is still running. Defaults to a
	// bare 409.
	OnBusy echo.HandlerFunc
	Logger *zap.Logger
}

// InFlightGuard rejects a mutating request while the same session already
// has one running on the same route, the server-side equivalent of a
// disabled submit button. Redis errors let the request through.
func InFlightGuard(cfg InFlightConfig) echo.MiddlewareFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultLockTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.OnBusy == nil {
		cfg.OnBusy = func(c echo.Context) error {
			return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			// Only enforce on mutating methods
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			sid := cfg.SessionID(c)
			if sid == "" {
				return next(c)
			}

			body := requestBody(req)
			key := buildKey(req.Method, c.Path(), sid)
			entry := lockEntry{Token: id.NewID32(), BodySHA256: bodyHash(body), CreatedAt: nowUTC()}

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			ok, err := provisionalSet(ctx, cfg.Redis, key, entry, cfg.TTL)
			cancel()
			if err != nil {
				cfg.Logger.Warn("in-flight store unavailable, not guarding", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if !ok {
				cur, errLoad := loadEntry(req.Context(), cfg.Redis, key)
				if errLoad != nil {
					cfg.Logger.Debug("load in-flight entry", zap.String("key", key), zap.Error(errLoad))
				}
				cfg.Logger.Info("duplicate submit rejected",
					zap.String("key", key),
					zap.Bool("same_body", cur.BodySHA256 == entry.BodySHA256),
				)
				return cfg.OnBusy(c)
			}

			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
				defer cancel()
				if err := release(ctx, cfg.Redis, key, entry); err != nil {
					cfg.Logger.Warn("release in-flight lock", zap.String("key", key), zap.Error(err))
				}
			}()
			return next(c)
		}
	}
}

// requestBody returns the bytes to fingerprint. A form already parsed by an
// earlier middleware has drained the body, so its values are re-encoded
// instead; otherwise the body is buffered and put back for the handler.
func requestBody(req *http.Request) []byte {
	if req.PostForm != nil {
		return []byte(req.PostForm.Encode())
	}
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	req.Body = io.NopCloser(bytes.NewBuffer(body))
	return body
}
