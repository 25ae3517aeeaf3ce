package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"rafflehub/internal/config"
	"rafflehub/internal/events"
	"rafflehub/internal/handlers"
	"rafflehub/internal/logger"
	"rafflehub/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the raffle HTTP API",
		RunE:  serve,
	}
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := openApplication(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	hub := events.NewHub(64)
	engine, err := app.newEngine(ctx, events.Multi(events.LogNotifier{}, hub))
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// with the ton ledger a ticket is only sold for a payment the tracker saw
	// arrive at the escrow wallet
	directSales := app.cfg.Ledger == config.LedgerLocal
	if !directSales {
		logger.Info("http: direct ticket sales disabled, tickets are sold by the tracker")
	}
	handler := handlers.NewHTTPHandler(engine, hub, app.identity, directSales)
	api := router.Group("/api")
	handler.RegisterPublicRoutes(api)
	handler.RegisterCallerRoutes(api.Group("", handler.CallerMiddleware()))

	if app.cfg.TrackerEnabled() {
		client, err := tracker.NewTonapiClient(app.cfg.TonapiToken)
		if err != nil {
			return err
		}

		trackerInstance := tracker.NewTracker(ctx, client, app.store, engine, app.cfg.EscrowAddress)
		if err := trackerInstance.VerifyEscrowAccount(); err != nil {
			return err
		}
		go trackerInstance.Start(app.cfg.TrackerInterval)
	}

	server := &http.Server{
		Addr:    app.cfg.HTTPAddress,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", zap.String("address", app.cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("http: server stopped", zap.Error(err))
		cancel()
		return err
	case <-waitForInterrupt():
		logger.Info("interrupt received, shutting down")
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
