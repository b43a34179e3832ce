package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/janus/internal/adapters/credential"
	"github.com/okian/janus/internal/adapters/http/api"
	"github.com/okian/janus/internal/adapters/presentation"
	"github.com/okian/janus/internal/adapters/presentation/terminal"
	"github.com/okian/janus/internal/adapters/transport"
	app "github.com/okian/janus/internal/app"
	"github.com/okian/janus/internal/config"
	"github.com/okian/janus/internal/domain/gate"
	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out *os.File) error {
	log := logger.Get()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	creds, err := credentials(cfg)
	if err != nil {
		return err
	}

	mute := presentation.NewToggle(cfg.Muted)
	view := terminal.New(out, terminal.WithANSI(isTerminal(out)))

	svc := app.New(
		app.WithLogger(log.Named("client")),
		app.WithServerURL(cfg.ServerURL),
		app.WithIdentity(model.Identity{
			EventMax:    cfg.EventMax,
			OwnUsername: cfg.OwnUsername,
			Location:    loc,
		}),
		app.WithPresenter(view),
		app.WithMuteToggle(mute),
		app.WithCredentials(creds),
		app.WithQueueSize(cfg.QueueSize),
		app.WithTransportOptions(
			transport.WithHandshakeTimeout(cfg.HandshakeTimeout()),
			transport.WithWriteTimeout(cfg.WriteTimeout()),
			transport.WithMaxFrameBytes(cfg.MaxFrameBytes),
		),
		app.WithHistoryOptions(
			history.WithMaxRows(cfg.HistorySize),
			history.WithHighlightDelay(cfg.HighlightDelay()),
		),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	if cfg.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.NewServer(svc, loc).Handler(),
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		go func() {
			log.Info(ctx, "starting control API", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "control API failed", logger.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "control API shutdown failed", logger.Error(err))
			}
		}()
	}

	readCommands(ctx, in, svc, mute)
	log.Info(ctx, "shutting down")
	return nil
}

// credentials picks the session source: inline cookie text, then a cookie
// file, then none.
func credentials(cfg *config.Config) (gate.CredentialLookup, error) {
	switch {
	case cfg.Cookie != "":
		return credential.CookieString(cfg.Cookie), nil
	case cfg.CookieFile != "":
		return credential.NewFromFile(cfg.CookieFile)
	default:
		return credential.None{}, nil
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
