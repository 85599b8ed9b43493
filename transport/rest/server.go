package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/pkg/handlers"
)

const shutdownTimeout = 5 * time.Second

type uSession interface {
	State() entity.Snapshot
	PlaceMark(ctx context.Context, coordinate entity.Coordinate) (entity.Snapshot, bool, error)
	Reset(ctx context.Context) (entity.Snapshot, error)
}

type Server struct {
	logger   *slog.Logger
	uSession uSession
}

func New(logger *slog.Logger, uSession uSession) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		uSession: uSession,
	}
}

// Handler returns the routes of the board API.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handlers.PingHandler)
	mux.HandleFunc("GET /api/board", that.handleGetBoard)
	mux.HandleFunc("POST /api/board/marks", that.handlePlaceMark)
	mux.HandleFunc("POST /api/board/reset", that.handleReset)

	return mux
}

// Start - serves the API until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
