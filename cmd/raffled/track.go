package main

import (
	"context"
	"errors"

	"rafflehub/internal/events"
	"rafflehub/internal/logger"
	"rafflehub/internal/tracker"

	"github.com/spf13/cobra"
)

func TrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Buy tickets for payments sent to the escrow wallet",
		RunE:  track,
	}
}

func track(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := openApplication(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.cfg.TrackerEnabled() {
		return errors.New("track: RAFFLE_ESCROW_ADDRESS is not set")
	}

	engine, err := app.newEngine(ctx, events.LogNotifier{})
	if err != nil {
		return err
	}

	client, err := tracker.NewTonapiClient(app.cfg.TonapiToken)
	if err != nil {
		return err
	}

	trackerInstance := tracker.NewTracker(ctx, client, app.store, engine, app.cfg.EscrowAddress)
	if err := trackerInstance.VerifyEscrowAccount(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		trackerInstance.Start(app.cfg.TrackerInterval)
	}()

	<-waitForInterrupt()
	logger.Info("interrupt received, stopping tracker")
	cancel()
	<-done
	return nil
}
