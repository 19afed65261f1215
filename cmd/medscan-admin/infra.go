package main

import (
	"errors"
	"fmt"

	"github.com/medscan/portal/internal/bootstrap"
	"github.com/medscan/portal/internal/data"
)

var errNotLoggedIn = errors.New("not logged in; run medscan-admin login first")

// portalHandle is an opened session store with the services wired on top of it.
type portalHandle struct {
	Repo     *data.SessionRepo
	Services bootstrap.ServiceContainer
	close    func() error
}

// Close disposes the session and releases the store.
func (p *portalHandle) Close() error {
	p.Services.Session.Dispose()
	return p.close()
}

// openPortal opens the configured session store and hydrates the session from it,
// the same way the server does on startup.
func openPortal(cmdCtx *commandContext) (*portalHandle, error) {
	storage, err := bootstrap.OpenSessionStorage(cmdCtx.Ctx, bootstrap.StorageConfig{
		Session: cmdCtx.Config.Session,
		Redis:   cmdCtx.Config.Redis,
		Logger:  cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	svcs, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cmdCtx.Config,
		Store:  storage.Repo,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return nil, errors.Join(err, storage.Close())
	}
	svcs.Session.Hydrate(cmdCtx.Ctx)

	return &portalHandle{Repo: storage.Repo, Services: svcs, close: storage.Close}, nil
}

// withPortal runs fn against an opened portal and closes it afterwards.
func withPortal(cmdCtx *commandContext, fn func(p *portalHandle) error) error {
	p, err := openPortal(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close session storage failed", "error", cerr)
		}
	}()
	return fn(p)
}

// requireLogin fails unless the hydrated session is authenticated.
func requireLogin(p *portalHandle) error {
	if !p.Services.Session.Snapshot().IsAuthenticated {
		return errNotLoggedIn
	}
	return nil
}
