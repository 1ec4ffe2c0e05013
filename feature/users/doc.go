// Package users serves lookups against the user-data table.
//
// The feature assumes a fixed schema: a users table with nullable email,
// phone and qq text columns. It never opens its own database connection;
// the serving engine injects the handle it owns.
//
// # HTTP Endpoints
//
//   - POST /query : Form-encoded lookup by phone, qq or email (in that
//     priority when several are given). Returns a JSON array of matches.
//   - POST /stats : HTML fragment with total and distinct record counts.
package users
