package http

import (
	natsadapter "github.com/parksyhq/parksy/internal/adapters/nats"
	"github.com/parksyhq/parksy/internal/adapters/postgres"
	"github.com/parksyhq/parksy/internal/adapters/valkey"
	"github.com/parksyhq/parksy/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// DB, Sessions, and Events are nil when the backend is not configured.
type Dependencies struct {
	Assistant *usecases.Assistant
	DB        *postgres.DB
	Sessions  *valkey.SessionStore
	Events    *natsadapter.Publisher
}
