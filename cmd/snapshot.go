package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"userdata-server/core/config"
	"userdata-server/core/logger"
	"userdata-server/core/storage"
	"userdata-server/feature/snapshot"

	"github.com/spf13/cobra"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot <path>",
	Short: "Upload a database snapshot to object storage",
	Long: `Uploads the given SQLite file to the configured snapshot bucket.
Storage endpoint and credentials come from the environment (STORAGE_*).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		object, err := snapshot.NewService(client, cfg.Storage.Bucket, logg).Upload(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Snapshot uploaded: %s/%s\n", cfg.Storage.Bucket, object)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(snapshotCmd)
}
