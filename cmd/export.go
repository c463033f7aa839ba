/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/usersvc/apiserver/internal/auth"
	"github.com/usersvc/apiserver/internal/db"
	"github.com/usersvc/apiserver/internal/storage"
	"github.com/usersvc/apiserver/internal/store"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload a JSON snapshot of all users to object storage",
	Long: `Uploads every user, without password hashes, to the configured
MinIO or GCS bucket as exports/users-<timestamp>.json. Usage:

	usersvc export
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		dbConn, err := db.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close(dbConn)
		}()

		dst, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() {
			_ = dst.Close()
		}()

		// The export never hashes or signs, so the repository gets no secret.
		users := store.NewUserRepository(dbConn, auth.NewHasher(cfg.Auth.BcryptCost), auth.NewTokenIssuer(auth.StaticSecret(""), 0))

		res, err := storage.ExportUsers(ctx, users, dst, time.Now())
		if err != nil {
			return err
		}
		logger.Info("users exported", "bucket", res.Bucket, "key", res.Key, "users", res.Users, "bytes", res.Bytes)

		pruned, err := storage.PruneExports(ctx, dst, exportKeep)
		if err != nil {
			return fmt.Errorf("prune exports: %w", err)
		}
		if len(pruned) > 0 {
			logger.Info("old exports removed", "count", len(pruned))
		}
		return nil
	},
}

var exportKeep int

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&exportKeep, "keep", 0, "number of exports to retain, older ones are deleted (0 keeps all)")
}
