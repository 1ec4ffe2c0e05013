package server

import (
	"fmt"
	"time"
)

// DefaultDrainTimeout bounds the shutdown drain when Config.DrainTimeout is zero.
const DefaultDrainTimeout = 5 * time.Second

// Config is the per-start server configuration. It is immutable once
// constructed; every start attempt builds a fresh value.
type Config struct {
	// DBPath is the filesystem path of the SQLite user database.
	DBPath string `json:"db_path"`
	// Port is the TCP port the engine listens on (1-65535).
	Port int `json:"port"`
	// DrainTimeout bounds the wait for in-flight requests during Stop.
	// Zero means DefaultDrainTimeout.
	DrainTimeout time.Duration `json:"-"`
}

// Addr returns the loopback listen address for the configured port. The
// engine only ever binds loopback; the server assumes local trusted access.
func (c Config) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", c.Port)
}

// Settings holds the process-level serving configuration used by the serve
// command as defaults. The per-start Config is built from these or from the
// JSON payload handed to the command facade.
type Settings struct {
	// DBPath is the default database file for the serve command.
	DBPath string `mapstructure:"db_path" default:""`
	// Port is the default port for the serve command.
	Port string `mapstructure:"port" default:"8080"`
	// DrainTimeoutSeconds bounds the shutdown drain.
	DrainTimeoutSeconds int `mapstructure:"drain_timeout_seconds" default:"5"`
}
