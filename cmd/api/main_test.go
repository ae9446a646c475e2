package main

import (
	"io"
	"log/slog"
)

// newTestApplication returns an applicationDependencies with test signing
// secrets and a discarded logger. No database is wired; tests that use this
// must stay away from the model layer.
func newTestApplication() *applicationDependencies {
	var settings serverConfig
	settings.environment = "development"
	settings.auth.accessSecret = "test-access-secret"
	settings.auth.refreshSecret = "test-refresh-secret"

	return &applicationDependencies{
		config: settings,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
