// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after
// secret resolution.  Any tag mismatch or validation error aborts startup,
// ensuring the binary never runs with partial, malformed, or missing
// configuration.
//
// The built-in rules in use are `required` and `hostname_port`.  Custom
// rules—e.g., “alias slugs must be lower-kebab” or admin-host pattern
// checks—can be registered here as the configuration surface grows.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
