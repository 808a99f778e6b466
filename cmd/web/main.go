package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookkeeping-web/internal/adapter/apiclient"
	httpadp "bookkeeping-web/internal/adapter/http"
	mwadp "bookkeeping-web/internal/adapter/middleware"
	"bookkeeping-web/internal/adapter/repository/redisstore"
	"bookkeeping-web/internal/adapter/repository/sqlstore"
	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/domain/session"
	"bookkeeping-web/internal/infrastructure/cache"
	"bookkeeping-web/internal/infrastructure/db"
	"bookkeeping-web/internal/infrastructure/logger"
	"bookkeeping-web/internal/render"
	"bookkeeping-web/internal/usecase/app"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()
	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()
	if err := cfg.Validate(); err != nil {
		lg.Fatal("config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// redis backs the in-flight guard and, optionally, the token store
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.Open(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			lg.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	tokens, err := openTokenStore(ctx, cfg, rdb)
	if err != nil {
		lg.Fatal("token store", zap.String("store", cfg.TokenStore), zap.Error(err))
	}

	api := apiclient.New(cfg.APIBaseURL,
		apiclient.WithCredentials(cfg.APICredentials),
		apiclient.WithTimeout(cfg.APITimeout()),
		apiclient.WithLogger(lg),
	)
	money := render.NewMoney(cfg.UILocale, cfg.DefaultCurrency)
	reg := httpadp.NewRegistry(httpadp.NewCookieStore(cfg.SessionSecret), cfg.SessionCookie, cfg.APICredentials,
		func(sess *session.Session, v app.View) *app.Controller {
			return app.NewController(api, tokens, sess, v, app.WithLogger(lg), app.WithMoney(money))
		})
	go reg.SweepEvery(ctx, sweepInterval, cfg.SessionIdle(), lg)

	renderer, err := httpadp.NewTemplateRenderer()
	if err != nil {
		lg.Fatal("templates", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())
	e.Validator = httpadp.NewValidator()
	e.Renderer = renderer

	// The guard runs first so it sees the raw form body.
	var mw []echo.MiddlewareFunc
	if rdb != nil {
		mw = append(mw, mwadp.InFlightGuard(mwadp.InFlightConfig{
			Redis:     rdb,
			TTL:       cfg.InFlightTTL(),
			SessionID: reg.SessionID,
			OnBusy:    func(c echo.Context) error { return c.Redirect(http.StatusSeeOther, "/") },
			Logger:    lg,
		}))
	}
	mw = append(mw, httpadp.CSRF())
	httpadp.Register(e, httpadp.NewHandler(reg, cfg.DefaultCurrency, lg), mw...)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			lg.Warn("shutdown", zap.Error(err))
		}
	}()

	addr := ":" + cfg.AppPort
	lg.Info("listening",
		zap.String("addr", addr),
		zap.String("api", cfg.APIBaseURL),
		zap.String("token_store", cfg.TokenStore),
		zap.Bool("inflight_guard", rdb != nil),
	)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("server", zap.Error(err))
	}
}

func openTokenStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (session.TokenStore, error) {
	if cfg.TokenStore == config.StoreRedis {
		return redisstore.NewTokenRepository(rdb, cfg.TokenTTL()), nil
	}

	var (
		gdb *gorm.DB
		err error
	)
	if cfg.TokenStore == config.StoreMySQL {
		gdb, err = db.OpenMySQL(ctx, cfg.MySQLDSN())
	} else {
		gdb, err = db.OpenSQLite(ctx, cfg.SQLitePath)
	}
	if err != nil {
		return nil, err
	}
	repo := sqlstore.NewTokenRepository(gdb)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
