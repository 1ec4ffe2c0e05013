package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"userdata-server/core/database"
	"userdata-server/core/loader"
	"userdata-server/core/logger"
	"userdata-server/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var (
	// ErrPortInUse indicates the configured port is already bound.
	ErrPortInUse = errors.New("port already in use")
	// ErrBindFailed indicates the listener could not be bound for another reason.
	ErrBindFailed = errors.New("failed to bind listener")
)

// Engine serves requests against a single owned database handle.
type Engine struct {
	cfg    Config
	handle *database.Handle
	app    *fiber.App
	ln     net.Listener
	logger *zap.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// Start binds a listener on cfg.Port and launches the request loop on its
// own goroutine. Binding is attempted exactly once. On success the engine
// takes ownership of the handle; on failure the caller keeps it.
func Start(cfg Config, handle *database.Handle, features []loader.Feature, logg *zap.Logger) (*Engine, error) {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("%w: %s", ErrPortInUse, cfg.Addr())
		}
		return nil, fmt.Errorf("%w: %v", ErrBindFailed, err)
	}

	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = DefaultDrainTimeout
	}

	e := &Engine{
		cfg:    cfg,
		handle: handle,
		ln:     ln,
		logger: logg,
		done:   make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We log our own startup message
	})

	// RayID must be first to trace everything
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	e.registerRoutes(app)

	mgr := loader.NewManager()
	for _, f := range features {
		mgr.Register(f)
	}
	if err := mgr.LoadAll(app); err != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("failed to load features: %w", err)
	}

	e.app = app

	go func() {
		defer close(e.done)
		if err := app.Listener(ln); err != nil {
			logg.Error("Server loop ended with error", zap.Error(err))
		}
	}()

	logg.Info("Server started", zap.String("addr", cfg.Addr()))
	return e, nil
}

// registerRoutes sets up the engine's built-in routes.
func (e *Engine) registerRoutes(app fiber.Router) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("User Data Server Running")
	})

	app.Get("/config", func(c *fiber.Ctx) error {
		return c.JSON(e.cfg)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		count, err := e.handle.HealthCheck(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "error",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"records": count,
		})
	})
}

// Port returns the port the engine's listener is bound to.
func (e *Engine) Port() int {
	return e.ln.Addr().(*net.TCPAddr).Port
}

// Stop ceases accepting new work, drains in-flight requests up to the
// configured drain period and releases the database handle. A second call
// is a no-op.
func (e *Engine) Stop() error {
	var err error
	first := false

	e.stopOnce.Do(func() {
		first = true
		e.logger.Info("Stopping server", zap.String("addr", e.cfg.Addr()))

		if sErr := e.app.ShutdownWithTimeout(e.cfg.DrainTimeout); sErr != nil {
			err = fmt.Errorf("shutdown did not drain cleanly: %w", sErr)
		}

		// Wait for the request loop goroutine to return before touching
		// the handle it serves from.
		select {
		case <-e.done:
		case <-time.After(e.cfg.DrainTimeout):
		}

		if cErr := e.handle.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("failed to close database handle: %w", cErr)
		}
	})

	if !first {
		e.logger.Debug("Stop called on already-stopped engine")
		return nil
	}
	return err
}
