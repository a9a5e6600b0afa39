package devapi

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/devapi/config"
	"github.com/dmitrijs2005/taskmarket/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// App runs a Server built from config until its context is cancelled.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config) *App {
	logger := logging.New(c.LogBackend, c.LogLevel, os.Stderr)

	srv := New(Options{
		OTPCode:                  c.OTPCode,
		Secret:                   []byte(c.SecretKey),
		TokenTTL:                 c.TokenValidityDuration,
		MinWithdrawal:            models.Rupees(c.MinWithdrawal),
		ReferralBonus:            models.Rupees(c.ReferralBonus),
		RequireEmailVerification: c.RequireEmailVerification,
		Logger:                   logger,
	})

	return &App{config: c, logger: logger, server: srv}
}

// Run listens on the configured address and shuts down gracefully when ctx
// is done. It returns the listener error, if any.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.ListenAddr)
	if err != nil {
		return err
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	app.logger.Info(ctx, "Starting devapi...", "addr", ln.Addr().String(), "otp_code", app.config.OTPCode)

	var (
		wg       sync.WaitGroup
		serveErr error
	)
	stopped := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(stopped)
		serveErr = app.server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case <-stopped:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown failed", "error", err)
	}

	wg.Wait()
	if serveErr != nil && !errors.Is(serveErr, net.ErrClosed) {
		return serveErr
	}
	app.logger.Info(ctx, "devapi stopped")
	return nil
}
