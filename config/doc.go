// Package config binds runtime settings from environment variables,
// with optional .env file support for local development.
package config
