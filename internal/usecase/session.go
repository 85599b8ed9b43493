package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
)

// SessionUseCase is the single game session shared by every presentation adapter of the process.
type SessionUseCase interface {
	SessionID() string

	Load(ctx context.Context) (entity.Snapshot, error)
	State() entity.Snapshot

	PlaceMark(ctx context.Context, coordinate entity.Coordinate) (entity.Snapshot, bool, error)
	Reset(ctx context.Context) (entity.Snapshot, error)

	// Subscribe hands the current state to the observer, then every new state after a change.
	// Observers are called with the session locked and must not call back into it.
	Subscribe(observer tictactoe.Observer) func()
}

type gameEngine interface {
	Size() int
	PlaceMark(coordinate entity.Coordinate) bool
	Reset()
	Snapshot() entity.Snapshot
	Restore(snapshot entity.Snapshot) error
	Subscribe(observer tictactoe.Observer) func()
}

type sessionService interface {
	NewSessionID() string
	SaveSession(ctx context.Context, sessionID string, snapshot entity.Snapshot) error
	GetSessionByID(ctx context.Context, sessionID string) (entity.Snapshot, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionUseCase struct {
	logger *slog.Logger

	mu        sync.Mutex
	sessionID string
	engine    gameEngine

	sessionService sessionService
}

// NewSessionUseCase wraps the engine; an empty sessionID gets a freshly generated one.
func NewSessionUseCase(logger *slog.Logger, sessionID string, engine gameEngine, sessionService sessionService) SessionUseCase {
	if sessionID == "" {
		sessionID = sessionService.NewSessionID()
	}

	return &sessionUseCase{
		logger:         logger.With("component", "session", "sessionID", sessionID),
		sessionID:      sessionID,
		engine:         engine,
		sessionService: sessionService,
	}
}

func (that *sessionUseCase) SessionID() string {
	return that.sessionID
}

// Load resumes the stored game of the session, or stores a fresh one when there is none.
func (that *sessionUseCase) Load(ctx context.Context) (entity.Snapshot, error) {
	log := that.logger.With("method", "Load")

	that.mu.Lock()
	defer that.mu.Unlock()

	stored, err := that.sessionService.GetSessionByID(ctx, that.sessionID)
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		log.Info("no stored session, starting a new game")
		that.engine.Reset()
	case err != nil:
		return entity.Snapshot{}, fmt.Errorf("failed to load session: %w", err)
	default:
		if err = that.engine.Restore(stored); err != nil {
			log.Warn("stored session is broken, starting a new game", "error", err)
			if err = that.sessionService.DeleteSession(ctx, that.sessionID); err != nil {
				log.Warn("failed to discard broken session", "error", err)
			}
			that.engine.Reset()
		} else {
			log.Info("session restored", "finished", stored.Finished)
		}
	}

	snapshot := that.engine.Snapshot()
	if err = that.sessionService.SaveSession(ctx, that.sessionID, snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to save session: %w", err)
	}

	return snapshot, nil
}

func (that *sessionUseCase) State() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.engine.Snapshot()
}

// PlaceMark forwards the move to the engine. Rejected moves are not errors: the returned flag is
// false and the state is unchanged. The in-memory game is authoritative, so a failed save is
// only logged.
func (that *sessionUseCase) PlaceMark(ctx context.Context, coordinate entity.Coordinate) (entity.Snapshot, bool, error) {
	log := that.logger.With("method", "PlaceMark", "row", coordinate.Row, "column", coordinate.Column)

	that.mu.Lock()
	defer that.mu.Unlock()

	if !coordinate.InBounds(that.engine.Size()) {
		return that.engine.Snapshot(), false, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCoordinate, coordinate.Row, coordinate.Column)
	}

	accepted := that.engine.PlaceMark(coordinate)
	snapshot := that.engine.Snapshot()

	if !accepted {
		log.Debug("move ignored", "finished", snapshot.Finished)
		return snapshot, false, nil
	}

	if snapshot.Result != nil {
		log.Info("game finished", "result", snapshot.Result.String())
	} else {
		log.Debug("mark placed", "next", snapshot.CurrentPlayer)
	}

	if err := that.sessionService.SaveSession(ctx, that.sessionID, snapshot); err != nil {
		log.Error("failed to save session, the move is kept in memory", "error", err)
	}

	return snapshot, true, nil
}

func (that *sessionUseCase) Reset(ctx context.Context) (entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.engine.Reset()
	snapshot := that.engine.Snapshot()

	log := that.logger.With("method", "Reset")
	log.Info("game reset")

	if err := that.sessionService.SaveSession(ctx, that.sessionID, snapshot); err != nil {
		log.Error("failed to save session, the reset is kept in memory", "error", err)
	}

	return snapshot, nil
}

func (that *sessionUseCase) Subscribe(observer tictactoe.Observer) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	unsubscribe := that.engine.Subscribe(observer)
	observer(that.engine.Snapshot())

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		unsubscribe()
	}
}
