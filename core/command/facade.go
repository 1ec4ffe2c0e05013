package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"userdata-server/core/database"
	"userdata-server/core/lifecycle"

	"go.uber.org/zap"
)

// testTimeout bounds the standalone database connectivity probe.
const testTimeout = 10 * time.Second

// Result is the only shape returned across the command boundary.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Facade exposes the four boundary operations consumed by an embedding
// shell: Start, Stop, Status and TestDatabase. It translates between the
// string transport and the typed controller, and is the only place errors
// become display messages.
type Facade struct {
	ctrl   *lifecycle.Controller
	logger *zap.Logger
}

// New creates a facade over the given controller.
func New(ctrl *lifecycle.Controller, logg *zap.Logger) *Facade {
	return &Facade{ctrl: ctrl, logger: logg}
}

// Start parses the JSON configuration and starts the server.
func (f *Facade) Start(configJSON string) Result {
	cfg, err := ParseConfig(configJSON)
	if err != nil {
		f.logger.Warn("Rejected start command", zap.Error(err))
		return Result{Message: fmt.Sprintf("Invalid config: %v", err)}
	}

	if err := f.ctrl.Start(cfg); err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrAlreadyRunning):
			return Result{Message: "Server is already running"}
		case errors.Is(err, lifecycle.ErrOperationInProgress):
			return Result{Message: "Another operation is in progress"}
		default:
			return Result{Message: fmt.Sprintf("Failed to start server: %v", err)}
		}
	}

	st := f.ctrl.Status()
	return Result{Success: true, Message: fmt.Sprintf("Server started on 127.0.0.1:%d", st.Port)}
}

// Stop stops the server. Stopping an already-stopped server is a success.
func (f *Facade) Stop() Result {
	err := f.ctrl.Stop()
	switch {
	case err == nil:
		return Result{Success: true, Message: "Server stopped"}
	case errors.Is(err, lifecycle.ErrAlreadyStopped):
		return Result{Success: true, Message: "Server is not running"}
	case errors.Is(err, lifecycle.ErrOperationInProgress):
		return Result{Message: "Another operation is in progress"}
	default:
		return Result{Message: fmt.Sprintf("Failed to stop server: %v", err)}
	}
}

// Status returns the current state token: one of stopped, starting,
// running, stopping, failed.
func (f *Facade) Status() string {
	return string(f.ctrl.Status().State)
}

// TestDatabase probes connectivity to the database file at path. It opens
// its own short-lived handle and never touches the running server's, so it
// is safe to call in any state.
func (f *Facade) TestDatabase(path string) Result {
	f.logger.Info("Testing database connectivity", zap.String("path", path))
	return TestDatabase(path)
}

// TestDatabase is the standalone connectivity probe behind
// Facade.TestDatabase, independent of any controller.
func TestDatabase(path string) Result {
	h, err := database.Open(path)
	if err != nil {
		return Result{Message: fmt.Sprintf("Cannot open database: %v", err)}
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	count, err := h.HealthCheck(ctx)
	if err != nil {
		return Result{Message: fmt.Sprintf("Database query failed: %v", err)}
	}
	return Result{Success: true, Message: fmt.Sprintf("Database OK. Records: %d", count)}
}
