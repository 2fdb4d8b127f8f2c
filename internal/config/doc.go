// Package config loads and validates the application configuration from
// environment variables (TRADELENS_ prefix) merged with an optional YAML
// file. Environment values take precedence over file values.
package config
