// Package logging builds the zap loggers used across the site.
package logging

import "go.uber.org/zap"

// New returns a zap logger. Debug gets the development config
// (human-readable, debug level); otherwise production (JSON, info level).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
