package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	catalogapp "github.com/lockin-coffee/storefront/internal/catalog/app"
	cataloghttp "github.com/lockin-coffee/storefront/internal/catalog/http"
	"github.com/lockin-coffee/storefront/internal/catalog/infra/static"

	carthttp "github.com/lockin-coffee/storefront/internal/cart/http"
	checkoutapp "github.com/lockin-coffee/storefront/internal/checkout/app"
	checkouthttp "github.com/lockin-coffee/storefront/internal/checkout/http"
	"github.com/lockin-coffee/storefront/internal/checkout/infra/toss"
	engagehttp "github.com/lockin-coffee/storefront/internal/engage/http"
	"github.com/lockin-coffee/storefront/internal/session"
	sessionhttp "github.com/lockin-coffee/storefront/internal/session/http"
	waitlistapp "github.com/lockin-coffee/storefront/internal/waitlist/app"
	waitlisthttp "github.com/lockin-coffee/storefront/internal/waitlist/http"
	"github.com/lockin-coffee/storefront/internal/waitlist/infra/collector"

	"github.com/lockin-coffee/storefront/pkg/config"
	"github.com/lockin-coffee/storefront/pkg/logger"
	"github.com/lockin-coffee/storefront/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.App.Env,
		Level:     cfg.App.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Catalog
	catalogRepo, err := static.NewRepo()
	if err != nil {
		log.Error("catalog load failed", slog.Any("err", err))
		os.Exit(1)
	}
	catalogSvc := catalogapp.NewService(catalogRepo)
	log.Info("catalog loaded", slog.String("version", catalogSvc.CatalogVersion()))

	// Payment provider
	payments := toss.New(toss.Config{
		BaseURL:   cfg.Payment.BaseURL,
		ClientKey: cfg.Payment.ClientKey,
		Timeout:   cfg.Payment.Timeout(),
	}, log)

	// Sessions (cart store + checkout flow + visibility watcher per session)
	sessions := session.NewManager(catalogSvc, payments, session.Config{
		TTL:           cfg.Session.TTL(),
		SweepInterval: cfg.Session.SweepInterval(),
		ViewThreshold: cfg.Engage.ViewThreshold,
		Checkout: checkoutapp.FlowConfig{
			ShippingFee: cfg.Checkout.ShippingFee,
			SuccessURL:  cfg.Checkout.SuccessURL,
			FailURL:     cfg.Checkout.FailURL,
		},
	}, log)

	// Waitlist
	waitlistSvc := waitlistapp.NewService(
		collector.New(collector.Config{
			Endpoint: cfg.Waitlist.Endpoint,
			Timeout:  cfg.Waitlist.Timeout(),
		}),
		cfg.Waitlist.RequestsPerSecond,
		cfg.Waitlist.QueueSize,
		log,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	cataloghttp.NewHandler(catalogSvc).Register(mux)
	sessionhttp.NewHandler(sessions).Register(mux)
	carthttp.NewHandler(sessions, catalogSvc).Register(mux)
	engagehttp.NewHandler(sessions).Register(mux)
	checkouthttp.NewHandler(sessions).Register(mux)
	waitlisthttp.NewHandler(waitlistSvc).Register(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		return waitlistSvc.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("exit with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}
