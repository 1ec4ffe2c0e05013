// Package server implements the serving engine of the user-data server.
//
// An Engine owns exactly one open database Handle and one bound listener for
// its whole life. Start binds the listener synchronously, so a busy port is
// reported to the caller immediately (ErrPortInUse) instead of surfacing
// later from a background goroutine; the request loop then runs on its own
// goroutine until Stop.
//
// # Ownership
//
// On a successful Start the engine takes ownership of the Handle and closes
// it during Stop, after draining in-flight requests for a bounded period.
// On a failed Start the caller keeps ownership and must close the Handle
// itself.
//
// # Routes
//
// The engine serves a small built-in surface (banner, active config, health)
// and loads any registered features (user queries, stats, snapshots) onto
// the same Fiber application.
package server
