package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const sessionKeyPrefix = "session:"

// SessionRepository keeps the latest snapshot of each game session.
type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, sessionID string, snapshot entity.Snapshot) error
	GetByID(ctx context.Context, sessionID string) (entity.Snapshot, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, sessionID string, snapshot entity.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	if err = that.client.Set(ctx, sessionKeyPrefix+sessionID, snapshotJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, sessionID string) (entity.Snapshot, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return entity.Snapshot{}, apperror.ErrSessionNotFound
	}

	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to get session by id: %w", err)
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return snapshot, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, sessionID string) error {
	if err := that.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	return nil
}
