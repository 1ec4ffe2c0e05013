// Package command is the string-in, string-out boundary of the user-data
// server: start, stop, status and testDatabase.
//
// The Facade translates the four boundary operations into calls on the
// lifecycle controller, marshalling the JSON configuration payload into a
// typed server config on the way in and lifecycle errors into Result
// messages on the way out. Callers (a CLI shell, a mobile binding) issue
// commands from their own worker context; every command runs synchronously
// once invoked and always resolves to a Result.
//
// testDatabase bypasses the controller entirely: it opens a transient
// database handle of its own, so it is safe to call at any time, including
// while the server is running.
package command
