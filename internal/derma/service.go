package derma

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dermalab/derma/internal/api"
	"github.com/dermalab/derma/internal/core/history"
	"github.com/dermalab/derma/internal/data/stores"
)

// Dashboard is the authenticated view's initial data set.
type Dashboard struct {
	User    api.User
	History []history.Record
}

// LoadDashboard fetches the user profile and history in parallel, both
// required. Any failure is fatal for the view; the caller routes it to
// the login path. The context scopes the whole load so view teardown
// cancels outstanding fetches.
func (a *App) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := a.Client.Me(ctx)
		if err != nil {
			return err
		}
		dash.User = user
		return nil
	})
	g.Go(func() error {
		records, err := a.Client.History(ctx)
		if err != nil {
			return err
		}
		dash.History = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.refreshCache(ctx, dash.History)
	return &dash, nil
}

// FetchHistory refetches the server's history list and refreshes the
// local cache.
func (a *App) FetchHistory(ctx context.Context) ([]history.Record, error) {
	records, err := a.Client.History(ctx)
	if err != nil {
		return nil, err
	}

	a.refreshCache(ctx, records)
	return records, nil
}

// DeleteRecord removes one record and, only on success, refetches the
// list. On failure the stale list stands; the error was already surfaced
// on the bus.
func (a *App) DeleteRecord(ctx context.Context, id int64) ([]history.Record, error) {
	if err := a.Client.DeleteHistory(ctx, id); err != nil {
		return nil, err
	}
	return a.FetchHistory(ctx)
}

// CachedHistory reads the local mirror without touching the network.
func (a *App) CachedHistory(ctx context.Context) ([]history.Record, error) {
	if a.Cache == nil {
		return nil, nil
	}
	return a.Cache.List(ctx)
}

// refreshCache mirrors the fetched list locally. Cache failures only log;
// the in-memory list the caller holds is what the UI renders.
func (a *App) refreshCache(ctx context.Context, records []history.Record) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.Replace(ctx, records); err != nil {
		if stores.IsBusyError(err) {
			// Another process holds the cache; the next fetch refreshes it.
			a.Log.Debug().Err(err).Msg("history cache busy, skipping refresh")
			return
		}
		a.Log.Warn().Err(err).Msg("failed to refresh history cache")
	}
}
