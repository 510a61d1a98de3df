package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/youruser/mockupapp/internal/api"
	"github.com/youruser/mockupapp/internal/config"
	"github.com/youruser/mockupapp/internal/delivery"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/logging"
	"github.com/youruser/mockupapp/internal/presets"
	"github.com/youruser/mockupapp/internal/render"
	"github.com/youruser/mockupapp/internal/source"
	"github.com/youruser/mockupapp/internal/store"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logging.New(config.Log{})
		bootLog.Fatal().Err(err).Msg("loading config")
	}
	log := logging.New(cfg.Log)

	// Load presets at startup (best-effort)
	all, err := presets.LoadFromDataDir(cfg.Print.PresetsDir)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load preset CSV, using built-in presets")
		all = presets.Builtin()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("opening store")
	}

	web := source.NewHTTPSource(source.Options{
		Timeout:      cfg.Fetch.Timeout,
		MaxRedirects: cfg.Fetch.MaxRedirects,
		MaxBytes:     cfg.Fetch.MaxBytes,
		UserAgent:    cfg.Fetch.UserAgent,
		BlockPrivate: cfg.Fetch.BlockPrivateNetworks,
	}, log.With().Str("component", "source").Logger(), source.Dropbox{})

	engine := imagepkg.NewEngine()
	engine.Limits = imagepkg.Limits{MaxSide: cfg.Print.MaxCanvasSide, MaxPixels: cfg.Print.MaxCanvasPixels}

	svc := render.NewService(
		source.NewRouter(web, cfg.Fetch.QRSize),
		engine,
		delivery.NewNotifier(cfg.Delivery.WebhookTimeout, cfg.Fetch.BlockPrivateNetworks, log.With().Str("component", "webhook").Logger()),
		all,
		render.Defaults{SafePercent: cfg.Print.DefaultSafePercent, DPI: cfg.Print.DefaultDPI},
		log.With().Str("component", "render").Logger(),
	)

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(log))
	api.RegisterRoutes(r, api.NewHandler(svc, st, api.Options{
		PublicBaseURL: cfg.Server.PublicBaseURL,
		Delivery:      delivery.Mode(strings.ToLower(cfg.Delivery.Mode)),
		BodyLimit:     int64(cfg.Server.BodyLimitMB) << 20,
	}, log))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Int("presets", len(all)).Str("store", cfg.Store.Backend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// openStore builds the configured content store. The disk backend gets a
// sweeper that removes expired files until ctx ends.
func openStore(ctx context.Context, cfg config.Store, log zerolog.Logger) (store.Store, error) {
	if !strings.EqualFold(cfg.Backend, "disk") {
		return store.NewMemory(cfg.TTL), nil
	}
	d, err := store.NewDisk(cfg.Dir, cfg.TTL)
	if err != nil {
		return nil, err
	}
	if cfg.SweepInterval > 0 {
		go func() {
			t := time.NewTicker(cfg.SweepInterval)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					n, err := d.Sweep()
					if err != nil {
						log.Warn().Err(err).Msg("store sweep")
						continue
					}
					if n > 0 {
						log.Debug().Int("removed", n).Msg("store sweep")
					}
				}
			}
		}()
	}
	return d, nil
}
