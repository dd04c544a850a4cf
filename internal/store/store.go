package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mikedutoitzs/floogleads/internal/models"
	"go.uber.org/zap"
)

const DefaultKey = "adcraft_state_v1"

var ErrNotFound = errors.New("state not found")

// Backend reads and writes one opaque record under the store key.
// Get returns ErrNotFound when nothing has been saved yet.
type Backend interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
	Close() error
}

// Store persists the whole campaign state as one JSON record.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Load returns the persisted state, or the default state when nothing is
// stored or the stored record cannot be decoded.
func (s *Store) Load(ctx context.Context) (models.CampaignState, error) {
	data, err := s.backend.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return models.DefaultState(), nil
	}
	if err != nil {
		return models.DefaultState(), fmt.Errorf("failed to read state: %w", err)
	}

	state, err := Decode(data)
	if err != nil {
		s.logger.Warn("Discarding unreadable saved state", zap.Error(err))
		return models.DefaultState(), nil
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, state models.CampaignState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.backend.Put(ctx, data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Clear erases the persisted record. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Decode parses a saved record and back-fills fields missing from older shapes.
// A saved in-flight flag is dropped since nothing can be in flight on load.
func Decode(data []byte) (models.CampaignState, error) {
	var state models.CampaignState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.CampaignState{}, err
	}
	state.Backfill()
	state.IsProcessing = false
	state.ProcessStatus = ""
	return state, nil
}
