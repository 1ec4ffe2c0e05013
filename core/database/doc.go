// Package database owns the connection to the local user-data SQLite file.
//
// It provides a Handle wrapping GORM with a sqlite dialector. A Handle is
// exclusively owned: the lifecycle controller hands it to the serving engine
// on a successful start, and the standalone connectivity test opens its own
// short-lived Handle instead of touching the server's.
//
// # Open
//
// Open validates the path before connecting (the file must exist and be
// readable) and runs a cheap integrity probe so that a missing file, an
// unreadable file and a garbage file each surface as a distinct error
// (ErrNotFound, ErrPermissionDenied, ErrCorrupt).
//
// # Usage
//
//	h, err := database.Open("/data/user_data.db")
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	count, err := h.HealthCheck(ctx)
package database
