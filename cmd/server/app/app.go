// Package app contains the main entrypoint for the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starquake/quizbase/internal/config"
	"github.com/starquake/quizbase/internal/db"
	"github.com/starquake/quizbase/internal/logging"
	"github.com/starquake/quizbase/internal/server"
	"github.com/starquake/quizbase/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Run starts the application server, connects to the database, runs migrations, and listens for incoming requests.
// If ln is nil, Run listens on the configured host and port. Run returns once ctx is canceled or an
// interrupt is received and the server has shut down.
func Run(
	ctx context.Context,
	getenv func(string) string,
	stdout io.Writer,
	ln net.Listener,
) error {
	mainCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Parse(getenv)
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	logger := logging.New(stdout, cfg.LogLevel, cfg.LogFormat).With(slog.String("env", cfg.AppEnvironment))

	conn, err := db.Open(mainCtx, cfg.DBDriver, cfg.DBURI, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
	if err != nil {
		msg := "error opening database connection"
		logger.ErrorContext(mainCtx, msg, logging.ErrAttr(err))

		return fmt.Errorf("%s: %w", msg, err)
	}
	defer func() {
		if conErr := conn.Close(); conErr != nil {
			logger.ErrorContext(ctx, "error closing database connection", logging.ErrAttr(conErr))
		}
	}()

	if err = db.Migrate(mainCtx, conn, cfg.DBDriver); err != nil {
		msg := "error migrating database"
		logger.ErrorContext(mainCtx, msg, logging.ErrAttr(err))

		return fmt.Errorf("%s: %w", msg, err)
	}

	stores := store.New(conn, logger, store.Options{CascadeQuizDelete: cfg.QuizDeleteCascade})
	srv := server.NewServer(logger, stores, cfg)

	if ln == nil {
		listenConfig := &net.ListenConfig{}
		if ln, err = listenConfig.Listen(mainCtx, "tcp", net.JoinHostPort(cfg.Host, cfg.Port)); err != nil {
			return fmt.Errorf("error listening on %s:%s: %w", cfg.Host, cfg.Port, err)
		}
	}

	httpServer := &http.Server{
		ReadHeaderTimeout: readHeaderTimeout,
		Handler:           srv,
		BaseContext:       func(net.Listener) context.Context { return mainCtx },
	}

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		logger.InfoContext(gCtx, "listening on "+ln.Addr().String(), slog.String("addr", ln.Addr().String()))
		if httpErr := httpServer.Serve(ln); httpErr != nil && !errors.Is(httpErr, http.ErrServerClosed) {
			return fmt.Errorf("error listening and serving: %w", httpErr)
		}

		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.InfoContext(ctx, "shutting down server")
		// The parent context may already be canceled, so shutdown gets a fresh deadline.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer shutdownCancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("error shutting down server: %w", shutdownErr)
		}

		return nil
	})

	if err = g.Wait(); err != nil {
		logger.ErrorContext(ctx, "server stopped with error", logging.ErrAttr(err))

		return err
	}
	logger.InfoContext(ctx, "server stopped")

	return nil
}
