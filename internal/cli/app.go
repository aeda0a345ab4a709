// Package cli implements the interactive farewatch terminal client: a REPL
// over the identity, subscription, search and detail sessions.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/farewatch/farewatch/internal/api"
	"github.com/farewatch/farewatch/internal/config"
	"github.com/farewatch/farewatch/internal/localstate"
	"github.com/farewatch/farewatch/internal/logging"
	"github.com/farewatch/farewatch/internal/models"
	"github.com/farewatch/farewatch/internal/services"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	store    localstate.Repository
	identity *services.IdentityService
	subs     *services.SubscriptionService
	search   *services.SearchService
	detail   *services.DetailService

	reader *bufio.Reader
	out    io.Writer

	// transient REPL state
	flatFlights []models.Flight
	currentView *services.DetailView
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localstate.Open(ctx, cfg.LocalStatePath)
	if err != nil {
		return nil, fmt.Errorf("initializing local state: %w", err)
	}
	store := localstate.NewSQLiteRepository(db)

	client := api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout)

	identity := services.NewIdentityService(client, store, log)
	subs := services.NewSubscriptionService(client, identity, log, cfg.EnrichmentConcurrency)
	search := services.NewSearchService(client, identity, log, cfg.HomeCountry, cfg.AwayCountry)
	detail := services.NewDetailService(client, identity, subs, log)

	return &App{
		config:   cfg,
		log:      log,
		db:       db,
		store:    store,
		identity: identity,
		subs:     subs,
		search:   search,
		detail:   detail,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Close releases the local state database.
func (a *App) Close() error {
	return a.db.Close()
}

// restoreEmail loads the last-used email from local state and resolves it,
// then loads the subscription collection for a Known identity.
func (a *App) restoreEmail(ctx context.Context) {
	email, err := a.store.Get(ctx, localstate.KeyEmail)
	if err != nil {
		a.log.Warn(ctx, "failed to read stored email", "err", err)
		return
	}
	if email == "" {
		return
	}

	a.identity.SetEmail(ctx, email)
	if err := a.identity.Resolve(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not check stored email %s: %v\n", email, err)
		return
	}

	snap := a.identity.Snapshot()
	fmt.Fprintf(a.out, "Welcome back, %s (%s)\n", snap.Email, snap.State)
	if snap.State == services.StateKnown {
		if err := a.subs.Load(ctx); err != nil {
			fmt.Fprintf(a.out, "Could not load your subscriptions: %v\n", err)
		}
	}
}
