/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/usersvc/apiserver/internal/events"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect user lifecycle events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print user events from the configured backend until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		publisher, err := events.Open(ctx, cfg.Events)
		if err != nil {
			return fmt.Errorf("open events backend: %w", err)
		}
		defer func() {
			_ = publisher.Close()
		}()

		logger.Info("tailing user events", "backend", cfg.Events.Backend, "channel", publisher.Channel())
		err = publisher.Subscribe(ctx, func(_ context.Context, evt events.Event) error {
			logger.Info("user event",
				"id", evt.ID,
				"type", evt.Type,
				"user_id", evt.UserID,
				"email", evt.Email,
				"occurred_at", evt.OccurredAt,
			)
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
