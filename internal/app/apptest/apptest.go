// Package apptest wires an AppContext for service tests: in-memory SQLite,
// miniredis and a Redis-backed session store.
package apptest

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/mysticmatch/internal/app"
	"github.com/oggyb/mysticmatch/internal/cache"
	"github.com/oggyb/mysticmatch/internal/config"
	"github.com/oggyb/mysticmatch/internal/db/dbtest"
	"github.com/oggyb/mysticmatch/internal/logger"
	"github.com/oggyb/mysticmatch/internal/session"
)

// Env bundles the AppContext with the fake Redis behind it.
type Env struct {
	*app.AppContext
	Redis *miniredis.Miniredis
}

// New builds a fresh environment private to t.
func New(t *testing.T) *Env {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.App.ENV = "test"
	cfg.Redis.Addr = mr.Addr()
	cfg.Session.Backend = "redis"

	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })

	store := session.NewRedisStore(rc, session.TTLs{Registration: 24 * time.Hour, Chat: 12 * time.Hour})
	appCtx := app.New(cfg, dbtest.Open(t), rc, store, logger.Discard())

	return &Env{AppContext: appCtx, Redis: mr}
}
