// Package snapshot uploads copies of the user database to object storage.
//
// It is an administrative feature: the upload reads the database file from
// disk and streams it to the configured S3/MinIO bucket, named with a UTC
// timestamp so successive snapshots never collide.
//
// # HTTP Endpoints
//
//   - POST /snapshot : Uploads the active database file; responds with the
//     object name.
//
// The same service backs the snapshot CLI command, which works without a
// running server.
package snapshot
