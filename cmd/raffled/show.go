package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"rafflehub/internal/raffle"
	"rafflehub/internal/storage"

	"github.com/spf13/cobra"
)

func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <raffle-id>",
		Short: "Print a raffle and its participants",
		Args:  cobra.ExactArgs(1),
		RunE:  show,
	}
}

type raffleView struct {
	RaffleID     uint32             `json:"raffle_id"`
	Raffle       *raffle.Info       `json:"raffle"`
	Participants []raffle.AccountID `json:"participants"`
}

func show(cmd *cobra.Command, args []string) error {
	raffleID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid raffle id %q", args[0])
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.NewSqliteStorage(cfg.DatabasePath)
	if err != nil {
		return err
	}
	app := &application{cfg: cfg, store: store}
	defer app.Close()

	// reads never touch the ledger or the randomness source
	engine := raffle.NewEngine(app.store, nil, nil, nil, nil)

	ctx := cmd.Context()
	info, err := engine.RaffleInfo(ctx, uint32(raffleID))
	if err != nil {
		return err
	}
	if info == nil {
		return raffle.ErrRaffleNotFound
	}

	participants, err := engine.RaffleParticipants(ctx, uint32(raffleID))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(raffleView{
		RaffleID:     uint32(raffleID),
		Raffle:       info,
		Participants: participants,
	}, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
