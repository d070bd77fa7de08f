package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/osoriof/plata/internal/classify"
	"github.com/osoriof/plata/internal/common"
	"github.com/osoriof/plata/internal/storage"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify pending movements",
		Long: `Classify every movement still missing a group or concept. The rule
pass runs first; movements it cannot fully resolve fall back to
historical precedent by reference or description prefix. Movements
neither pass can resolve stay pending.

With --id, classify that single movement instead of the whole pending
set.`,
		RunE: runClassify,
	}

	cmd.Flags().Bool("details", false, "print a line per movement")
	cmd.Flags().Int64("id", 0, "classify a single movement by ID")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	showDetails, _ := cmd.Flags().GetBool("details")
	id, _ := cmd.Flags().GetInt64("id")

	window := viper.GetInt("classify.history_window")
	if window <= 0 {
		return common.NewUserError(
			fmt.Sprintf("classify.history_window must be positive, got %d", window),
			common.ErrInvalidConfig)
	}

	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine := classify.NewEngine(store, store, classify.Config{
		HistoryWindow: window,
	})

	if id > 0 {
		return classifyByID(ctx, store, engine, id)
	}

	result, err := engine.ClassifyPending(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("classified %d of %d pending movements\n", result.Classified, result.Total)
	if showDetails {
		for _, line := range result.Details {
			fmt.Println(line)
		}
	}

	return nil
}

func classifyByID(ctx context.Context, store *storage.SQLiteStore, engine *classify.Engine, id int64) error {
	movement, err := store.GetMovement(ctx, id)
	if err != nil {
		return err
	}
	if !movement.NeedsClassification() {
		return common.NewUserError(
			fmt.Sprintf("movement %d is already classified", id),
			common.ErrNoMovements)
	}

	outcome, err := engine.ClassifyOne(ctx, movement)
	if err != nil {
		return err
	}

	switch {
	case outcome.Resolved:
		fmt.Printf("movement %d classified by %s\n", id, strings.Join(outcome.Methods, "+"))
	case outcome.Assigned:
		fmt.Printf("movement %d partially classified by %s, still pending\n", id, strings.Join(outcome.Methods, "+"))
	default:
		fmt.Printf("movement %d could not be classified\n", id)
	}

	return nil
}
