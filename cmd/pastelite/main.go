package main

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/issafronov/pastelite/internal/app/config"
	"github.com/issafronov/pastelite/internal/app/gateway"
	"github.com/issafronov/pastelite/internal/app/handlers"
	"github.com/issafronov/pastelite/internal/app/session"
	"github.com/issafronov/pastelite/internal/middleware/auth"
	"github.com/issafronov/pastelite/internal/middleware/compress"
	"github.com/issafronov/pastelite/internal/middleware/logger"
	"github.com/issafronov/pastelite/internal/middleware/trustedsubnet"
	"github.com/issafronov/pastelite/internal/pprof"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

// Router собирает маршруты фронтенда
func Router(h *handlers.Handler, trusted *net.IPNet, secret string) chi.Router {
	router := chi.NewRouter()
	router.Use(logger.RequestLogger)
	router.Use(compress.GzipMiddleware)

	router.Group(func(r chi.Router) {
		r.Use(auth.SessionMiddleware(secret))
		r.Get("/", h.CreatePage)
		r.Post("/", h.SubmitPaste)
		r.Post("/copy", h.CopyURL)
		r.Post("/reset", h.ResetForm)
	})
	router.Get("/p/{id}", h.ViewPaste)
	router.With(trustedsubnet.TrustedSubnetMiddleware(trusted)).Get("/internal/stats", h.Stats)

	router.NotFound(h.NotFoundPage)
	return router
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if err := logger.Initialize(cfg.LoggerLevel); err != nil {
		return err
	}
	defer logger.Log.Sync()

	logger.Log.Info("starting pastelite",
		zap.String("version", buildVersion),
		zap.String("date", buildDate),
		zap.String("address", cfg.ServerAddress),
		zap.String("api", cfg.APIBaseURL),
	)
	if cfg.UsesDefaultSecret() {
		logger.Log.Warn("session secret is not set, using the default one")
	}

	gw, err := gateway.New(cfg.APIBaseURL, gateway.WithLogger(logger.Log.Sugar()))
	if err != nil {
		return err
	}

	h, err := handlers.NewHandler(cfg, gw)
	if err != nil {
		return err
	}

	trusted, err := trustedsubnet.ParseSubnet(cfg.TrustedSubnet)
	if err != nil {
		return err
	}

	if cfg.PprofAddress != "" {
		addr, err := pprof.Start(cfg.PprofAddress)
		if err != nil {
			return err
		}
		logger.Log.Info("pprof listening", zap.Stringer("address", addr))
	}

	if cfg.SessionIdleTTL > 0 {
		go sweepSessions(h.Sessions(), cfg.SessionIdleTTL)
	}

	return http.ListenAndServe(cfg.ServerAddress, Router(h, trusted, cfg.SessionSecret))
}

// minSweepInterval — нижняя граница периода очистки сессий
const minSweepInterval = time.Second

func sweepInterval(idleTTL time.Duration) time.Duration {
	return max(idleTTL/2, minSweepInterval)
}

func sweepSessions(sessions *session.Registry, idleTTL time.Duration) {
	ticker := time.NewTicker(sweepInterval(idleTTL))
	defer ticker.Stop()
	for range ticker.C {
		if removed := sessions.Sweep(); removed > 0 {
			logger.Log.Debug("idle sessions removed", zap.Int("count", removed))
		}
	}
}
