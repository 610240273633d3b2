package main

import (
	"fmt"

	"github.com/draftpad/draftpad/internal/config"
	"github.com/draftpad/draftpad/internal/content"
	"github.com/draftpad/draftpad/internal/docs"
	"github.com/draftpad/draftpad/internal/reconcile"
	"github.com/draftpad/draftpad/internal/snapshot"
	"github.com/draftpad/draftpad/internal/storage"
)

// engine bundles the wired core for one CLI invocation.
type engine struct {
	cfg     config.Config
	store   *storage.Store
	content *content.Store
	service *docs.Service
	worker  *reconcile.Worker
}

// openEngine loads config and wires storage, content store, snapshot
// engine, coordinator, and reconcile worker. The returned close func must
// be called before exit.
func openEngine() (*engine, func(), error) {
	var cfg config.Config
	var err error
	if dataDir != "" {
		cfg, err = config.LoadFrom(dataDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}

	cs, err := content.NewStore(cfg.Storage.DocumentsDir)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("opening content store: %w", err)
	}

	snaps := snapshot.NewEngine(store, cfg.Versions.Max, cfg.Versions.Interval)
	service := docs.NewService(store, cs, snaps, nil)
	worker := reconcile.NewWorker(store, cs, cfg.Reconcile.Poll)

	e := &engine{cfg: cfg, store: store, content: cs, service: service, worker: worker}
	return e, func() { store.Close() }, nil
}
