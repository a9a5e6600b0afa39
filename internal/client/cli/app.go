package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/config"
	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/client/services"
	"github.com/dmitrijs2005/taskmarket/internal/client/session"
	"github.com/dmitrijs2005/taskmarket/internal/client/signup"
	"github.com/dmitrijs2005/taskmarket/internal/client/storage"
	"github.com/dmitrijs2005/taskmarket/internal/logging"
)

type App struct {
	config        *config.Config
	log           logging.Logger
	sessions      *session.Provider
	authService   services.AuthService
	taskService   services.TaskService
	walletService services.WalletService
	reader        *bufio.Reader
	out           io.Writer
	closers       []func() error
}

// NewApp wires storage, the session provider, the API client and services
// from c. The session is loaded before NewApp returns.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(c.LogBackend, c.LogLevel, os.Stderr)
	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sessions = session.NewProvider(store, log)
	if _, err := a.sessions.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}

	client, err := api.New(c.APIBaseURL,
		api.WithTimeout(c.RequestTimeout),
		api.WithTokenSource(a.sessions.Token),
		api.WithLogger(log),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.authService = services.NewAuthService(client, a.sessions, signup.Options{
		RequireEmailVerification: c.RequireEmailVerification,
	})
	a.taskService = services.NewTaskService(client)
	a.walletService = services.NewWalletService(client, models.Rupees(c.MinWithdrawal))

	a.sessions.Subscribe(func(r session.Record) {
		if r.Active() {
			log.Debug(ctx, "session refreshed", "user", r.User.ID)
		}
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context) (session.Store, error) {
	switch a.config.SessionBackend {
	case config.BackendRedis:
		rdb, err := storage.OpenRedis(ctx, a.config.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return session.NewRedisStore(rdb, a.config.RedisPrefix, a.config.SessionTTL), nil
	default:
		db, err := storage.OpenSQLite(ctx, a.config.SessionDBPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return session.NewSQLiteStore(db), nil
	}
}

// Close releases the session store.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
	if z, ok := a.log.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
}

// Run starts the REPL and blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	fmt.Fprintln(a.out, "Welcome to taskmarket (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// requestCtx bounds a single backend round trip.
func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 15 * time.Second
	if a.config != nil && a.config.RequestTimeout > 0 {
		timeout = a.config.RequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.authService.CurrentUser(ctx)
	return err == nil
}

func (a *App) getStatus() string {
	r := a.sessions.Current()
	if !r.Active() {
		return "guest"
	}
	return r.User.DisplayName()
}

// Exec runs a single command non-interactively, as the one-shot
// subcommands do. Protected commands fail without a session instead of
// prompting. The returned error carries the user-facing message.
func (a *App) Exec(ctx context.Context, cmd string, args []string) error {
	var err error
	switch cmd {
	case "whoami":
		err = a.WhoAmI(ctx)
	case "logout":
		err = a.Logout(ctx)
	case "ref":
		err = a.Referral(ctx, args)
	case "balance":
		if !a.isLoggedIn(ctx) {
			err = session.ErrNotLoggedIn
			break
		}
		err = a.Balance(ctx)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		return errors.New(userMessage(err))
	}
	return nil
}
