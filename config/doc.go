// Package config loads and validates client configuration from layered
// sources.
//
// Precedence, lowest to highest:
//   - built-in defaults
//   - YAML configuration file
//   - environment variables prefixed with PULSENET_
//
// Environment variable names map to configuration keys by stripping the
// prefix, lowercasing, and replacing underscores with dots, so
// PULSENET_RETRY_MAXRETRIES sets retry.maxretries.
//
// Beyond the typed Config struct, values loaded from any source remain
// reachable through the accessor methods (GetString, GetInt, ...) for
// custom keys the struct does not model.
package config
