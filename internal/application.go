package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-board/internal/config"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-board/internal/service"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-board/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-board/transport/rest"
	"github.com/rocketscienceinc/tictactoe-board/transport/terminal"
	"github.com/rocketscienceinc/tictactoe-board/transport/websocket"
)

var (
	ErrAddrNotFound = errors.New("redis address string is empty")
	ErrUnknownMode  = errors.New("unknown mode")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sessionRepo, closeStorage, err := newSessionRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStorage(); closeErr != nil {
			log.Error("could not close storage", "error", closeErr)
		}
	}()

	sessionService := service.NewSessionService(sessionRepo)
	session := usecase.NewSessionUseCase(logger, conf.SessionID, tictactoe.NewEngine(), sessionService)

	if _, err = session.Load(ctx); err != nil {
		return fmt.Errorf("could not load game session: %w", err)
	}

	switch conf.Mode {
	case config.ModeTerminal:
		renderer := terminal.NewRenderer(os.Stdout)
		console := terminal.NewConsole(logger, session, renderer, os.Stdin, os.Stdout)

		return console.Run(ctx)
	case config.ModeWeb:
		return runWeb(ctx, log, logger, conf, session)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, conf.Mode)
	}
}

func runWeb(ctx context.Context, log, logger *slog.Logger, conf *config.Config, session usecase.SessionUseCase) error {
	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, session).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, session).Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newSessionRepository picks redis when it is enabled and process memory otherwise.
func newSessionRepository(ctx context.Context, conf *config.Config) (repository.SessionRepository, func() error, error) {
	if !conf.Redis.Enabled {
		return repository.NewMemorySessionRepository(), func() error { return nil }, nil
	}

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(),
		storage.WithPassword(conf.Redis.Password),
		storage.WithDB(conf.Redis.DB),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewSessionRepository(redisStorage.Connection), redisStorage.Close, nil
}
