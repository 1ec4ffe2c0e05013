package cmd

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userdata-server/core/command"
	"userdata-server/core/config"
	"userdata-server/core/database"
	"userdata-server/core/lifecycle"
	"userdata-server/core/loader"
	"userdata-server/core/logger"
	"userdata-server/core/server"
	"userdata-server/core/storage"
	"userdata-server/feature/snapshot"
	"userdata-server/feature/users"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveDBPath string
	servePort   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the user-data server",
	Long: `Starts the user-data server against a SQLite database file and serves
lookups until interrupted. Flags override SERVER_DB_PATH and SERVER_PORT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		dbPath := cfg.Server.DBPath
		if serveDBPath != "" {
			dbPath = serveDBPath
		}
		port := cfg.Server.Port
		if servePort != "" {
			port = servePort
		}

		// 3. Initialize Storage (Optional)
		// Snapshots are only offered when the storage client comes up.
		var store storage.Client
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed, snapshots disabled", zap.Error(err))
		} else {
			store = client
		}

		// 4. Build the controller and its feature set
		drain := time.Duration(cfg.Server.DrainTimeoutSeconds) * time.Second
		ctrl := lifecycle.New(logg, func(sc server.Config, h *database.Handle) []loader.Feature {
			feats := []loader.Feature{users.NewFeature(h.DB(), logg)}
			if store != nil {
				feats = append(feats, snapshot.NewFeature(store, cfg.Storage.Bucket, sc.DBPath, logg))
			}
			return feats
		}, lifecycle.WithDrainTimeout(drain))
		facade := command.New(ctrl, logg)

		// 5. Start through the command boundary
		payload, err := json.Marshal(map[string]string{"db_path": dbPath, "port": port})
		if err != nil {
			return err
		}
		res := facade.Start(string(payload))
		logg.Info(res.Message, zap.String("status", facade.Status()))
		if !res.Success {
			os.Exit(1)
		}

		// 6. Wait for shutdown signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		res = facade.Stop()
		logg.Info(res.Message)
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "path to the SQLite user database")
	serveCmd.Flags().StringVar(&servePort, "port", "", "TCP port to listen on")
	RootCmd.AddCommand(serveCmd)
}
