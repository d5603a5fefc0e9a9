// Package derma wires the client, cache, and workflow into the operations
// the commands and the TUI share.
package derma

import (
	"github.com/rs/zerolog"

	"github.com/dermalab/derma/internal/api"
	"github.com/dermalab/derma/internal/core/config"
	"github.com/dermalab/derma/internal/core/notify"
	"github.com/dermalab/derma/internal/core/workflow"
	"github.com/dermalab/derma/internal/data/stores"
)

// App aggregates the long-lived collaborators. It is populated once in the
// CLI's Before hook and shared by every command.
type App struct {
	Client *api.Client
	Bus    *notify.Bus
	Config *config.Config
	Gate   *workflow.GuestGate

	// Cache is the local history mirror. It may be nil when the cache
	// database could not be opened; everything except `history ls
	// --cached` degrades gracefully.
	Cache *stores.HistoryStore

	Log zerolog.Logger
}

// NewApp assembles the application service.
func NewApp(client *api.Client, bus *notify.Bus, cfg *config.Config, cache *stores.HistoryStore, logger zerolog.Logger) *App {
	return &App{
		Client: client,
		Bus:    bus,
		Config: cfg,
		Gate:   workflow.NewGuestGate(),
		Cache:  cache,
		Log:    logger,
	}
}

// NewWorkflow creates a diagnosis workflow bound to the authenticated or
// guest prediction endpoint.
func (a *App) NewWorkflow(guest bool) *workflow.Workflow {
	if guest {
		return workflow.New(a.Client.GuestPredict, a.Bus)
	}
	return workflow.New(a.Client.Predict, a.Bus)
}
