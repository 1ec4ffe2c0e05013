// Package config provides configuration management for the user-data server shell.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults declared on the struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for process-level settings,
// divided into subsections:
//   - Server: serve command defaults (database path, port, drain timeout)
//   - Storage: S3/MinIO credentials and snapshot bucket settings
//   - Log: Logging level and format
//
// The per-start server configuration is deliberately not part of this
// package: it arrives as a JSON payload through the command facade.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
