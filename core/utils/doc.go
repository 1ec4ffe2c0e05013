// Package utils provides common utility functions shared across the
// user-data server. It includes helper functions for type conversion used
// when coercing loosely-typed configuration values.
package utils
