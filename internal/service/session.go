package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

type SessionService interface {
	NewSessionID() string

	SaveSession(ctx context.Context, sessionID string, snapshot entity.Snapshot) error
	GetSessionByID(ctx context.Context, sessionID string) (entity.Snapshot, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, sessionID string, snapshot entity.Snapshot) error
	GetByID(ctx context.Context, sessionID string) (entity.Snapshot, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type sessionService struct {
	sessionRepo sessionRepo
}

func NewSessionService(sessionRepo sessionRepo) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
	}
}

func (that *sessionService) NewSessionID() string {
	return uuid.NewString()
}

func (that *sessionService) SaveSession(ctx context.Context, sessionID string, snapshot entity.Snapshot) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, sessionID, snapshot); err != nil {
		return fmt.Errorf("failed to save session to storage: %w", err)
	}
	return nil
}

func (that *sessionService) GetSessionByID(ctx context.Context, sessionID string) (entity.Snapshot, error) {
	snapshot, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to retrieve session from storage: %w", err)
	}
	return snapshot, nil
}

func (that *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := that.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
