package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

type memorySession struct {
	mu        sync.RWMutex
	snapshots map[string]entity.Snapshot
}

// NewMemorySessionRepository keeps snapshots in process memory; used when redis is disabled.
func NewMemorySessionRepository() SessionRepository {
	return &memorySession{
		snapshots: make(map[string]entity.Snapshot),
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, sessionID string, snapshot entity.Snapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.snapshots[sessionID] = snapshot

	return nil
}

func (that *memorySession) GetByID(_ context.Context, sessionID string) (entity.Snapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	snapshot, ok := that.snapshots[sessionID]
	if !ok {
		return entity.Snapshot{}, apperror.ErrSessionNotFound
	}

	return snapshot, nil
}

func (that *memorySession) DeleteByID(_ context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.snapshots, sessionID)

	return nil
}
