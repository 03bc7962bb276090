package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/zerobalance/internal/client/client"
	"github.com/dmitrijs2005/zerobalance/internal/client/config"
	"github.com/dmitrijs2005/zerobalance/internal/client/credentials"
	"github.com/dmitrijs2005/zerobalance/internal/client/services"
	"github.com/dmitrijs2005/zerobalance/internal/client/session"
	"github.com/dmitrijs2005/zerobalance/internal/filex"
	"github.com/dmitrijs2005/zerobalance/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single connectivity probe.
const pingTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	api     client.Client
	auth    services.AuthService
	profile services.ProfileService
	session *session.Store
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp wires the local credential store, the API client, the services and
// the session store. With c.Ephemeral set the credential is kept in memory
// and no database is opened.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	log = logging.OrNop(log)

	var (
		db    *sql.DB
		store credentials.Store
	)
	if c.Ephemeral {
		store = credentials.NewMemoryStore()
	} else {
		dir, err := filex.EnsureDir(c.DataDir)
		if err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		db, err = client.InitDatabase(ctx, filepath.Join(dir, c.DBFile))
		if err != nil {
			log.Error(ctx, "error initializing database", "error", err)
			return nil, err
		}
		store = credentials.NewSQLiteStore(db)
	}

	bearer := credentials.NewBearer()
	api, err := client.NewHTTPClient(c.ResolveBaseURL(), client.WithTokenSource(bearer), client.WithLogger(log))
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	auth := services.NewAuthService(api, store, bearer, log)

	return &App{
		config:  c,
		log:     log,
		db:      db,
		api:     api,
		auth:    auth,
		profile: services.NewProfileService(api),
		session: session.NewStore(auth, log),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run starts the interactive client and releases its resources when the
// user leaves.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.Close(ctx); err != nil {
			a.log.Error(ctx, "shutdown", "error", err)
		}
	}()
	a.Root(ctx)
	return nil
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.auth != nil {
		errs = append(errs, a.auth.Close(ctx))
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated()
}

// checkOnline pings the backend once and updates the connectivity mode.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is
// done. The first probe runs immediately.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
