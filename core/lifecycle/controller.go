package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"userdata-server/core/database"
	"userdata-server/core/loader"
	"userdata-server/core/server"

	"go.uber.org/zap"
)

// State is the lifecycle state token reported across the command boundary.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateFailed   State = "failed"
)

var (
	// ErrAlreadyRunning rejects a Start while the server is running.
	ErrAlreadyRunning = errors.New("server is already running")
	// ErrAlreadyStopped reports a Stop on an already-stopped server. It marks
	// a no-op, not a failure; callers treat it as success.
	ErrAlreadyStopped = errors.New("server is already stopped")
	// ErrOperationInProgress rejects a mutating command while another one is
	// still in flight. The caller retries once the current transition settles.
	ErrOperationInProgress = errors.New("another operation is in progress")
)

// startupProbeTimeout bounds the health check run between opening the
// database and handing it to the engine.
const startupProbeTimeout = 10 * time.Second

// FeatureFactory builds the features the engine serves for a given start.
// It is invoked after the database handle is opened and validated.
type FeatureFactory func(cfg server.Config, handle *database.Handle) []loader.Feature

// Status is a point-in-time view of the controller.
type Status struct {
	// State is the current state token.
	State State
	// Port is the bound port, set only while running.
	Port int
	// Reason carries the failure cause when State is StateFailed.
	Reason error
}

// Controller owns the single engine instance and serializes all lifecycle
// transitions. Exactly one Start or Stop may be in flight at a time; a
// concurrent second command is rejected immediately rather than queued, so
// the command boundary stays bounded in latency.
type Controller struct {
	logger   *zap.Logger
	features FeatureFactory
	drain    time.Duration

	// opMu serializes mutating transitions. Acquired with TryLock only:
	// contention means another transition is in flight.
	opMu sync.Mutex

	// mu guards the observable state below. Held only for short reads
	// and writes, never across I/O.
	mu     sync.Mutex
	state  State
	reason error
	port   int
	engine *server.Engine
}

// Option customizes a Controller.
type Option func(*Controller)

// WithDrainTimeout sets the drain period applied to every start whose
// config does not carry one.
func WithDrainTimeout(d time.Duration) Option {
	return func(c *Controller) { c.drain = d }
}

// New creates a controller in the Stopped state.
func New(logg *zap.Logger, features FeatureFactory, opts ...Option) *Controller {
	if features == nil {
		features = func(server.Config, *database.Handle) []loader.Feature { return nil }
	}
	c := &Controller{
		logger:   logg,
		features: features,
		state:    StateStopped,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens the database, hands it to a new engine and moves the machine
// to Running. Allowed only from Stopped or Failed. Any failure fully
// unwinds: a partially-opened handle is closed before the error surfaces,
// and the machine lands in Failed.
func (c *Controller) Start(cfg server.Config) error {
	if !c.opMu.TryLock() {
		return ErrOperationInProgress
	}
	defer c.opMu.Unlock()

	c.mu.Lock()
	switch c.state {
	case StateRunning:
		c.mu.Unlock()
		return ErrAlreadyRunning
	case StateStarting, StateStopping:
		// Unreachable while opMu is held, kept as a guard.
		c.mu.Unlock()
		return ErrOperationInProgress
	}
	c.state = StateStarting
	c.reason = nil
	c.mu.Unlock()

	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = c.drain
	}

	c.logger.Info("Starting server",
		zap.String("db_path", cfg.DBPath),
		zap.Int("port", cfg.Port),
	)

	handle, err := database.Open(cfg.DBPath)
	if err != nil {
		return c.fail(fmt.Errorf("failed to open database: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupProbeTimeout)
	defer cancel()
	if _, err := handle.HealthCheck(ctx); err != nil {
		_ = handle.Close()
		return c.fail(fmt.Errorf("database failed startup probe: %w", err))
	}

	eng, err := server.Start(cfg, handle, c.features(cfg, handle), c.logger)
	if err != nil {
		// The engine takes no ownership on a failed start.
		_ = handle.Close()
		return c.fail(err)
	}

	c.mu.Lock()
	c.state = StateRunning
	c.engine = eng
	c.port = eng.Port()
	c.mu.Unlock()

	c.logger.Info("Server running", zap.Int("port", eng.Port()))
	return nil
}

// Stop drains and stops the running engine. From Stopped (or an unreported
// Failed) it returns ErrAlreadyStopped, which callers report as success.
func (c *Controller) Stop() error {
	if !c.opMu.TryLock() {
		return ErrOperationInProgress
	}
	defer c.opMu.Unlock()

	c.mu.Lock()
	switch c.state {
	case StateStopped:
		c.mu.Unlock()
		return ErrAlreadyStopped
	case StateFailed:
		// The failure was never observed; settle to Stopped on the way out.
		c.state = StateStopped
		c.reason = nil
		c.mu.Unlock()
		return ErrAlreadyStopped
	case StateStarting, StateStopping:
		c.mu.Unlock()
		return ErrOperationInProgress
	}
	eng := c.engine
	c.state = StateStopping
	c.mu.Unlock()

	err := eng.Stop()

	c.mu.Lock()
	c.state = StateStopped
	c.engine = nil
	c.port = 0
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("Server stopped with cleanup error", zap.Error(err))
	} else {
		c.logger.Info("Server stopped")
	}
	return nil
}

// Status reports the current state. It never blocks on a transition in
// flight; Starting and Stopping are observable as transient states. A
// failure is reported exactly once: the first Status that observes Failed
// returns it and settles the machine back to Stopped.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{State: c.state, Port: c.port}
	if c.state == StateFailed {
		st.Reason = c.reason
		c.state = StateStopped
		c.reason = nil
	}
	return st
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.state = StateFailed
	c.reason = err
	c.mu.Unlock()

	c.logger.Error("Start failed", zap.Error(err))
	return err
}
