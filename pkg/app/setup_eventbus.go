package app

import (
	"github.com/amirasaad/ledger/pkg/service/audit"
)

// setupEventBus registers the subscribers for events emitted after commit.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	a.Audit = audit.NewSubscriber(nil, a.Deps.Logger)
	a.Audit.Register(a.Deps.EventBus)
}
