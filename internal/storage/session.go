package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vidyasagar/tpanel/internal/nav"
)

// Session reads and writes the last active URL and the URL history.
type Session struct {
	store Store
}

// NewSession wraps store.
func NewSession(store Store) *Session {
	return &Session{store: store}
}

// LastActive returns the stored last active URL, or "" when none is stored.
func (s *Session) LastActive(ctx context.Context) (string, error) {
	v, err := s.store.Get(ctx, KeyLastActiveURL)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}

// SaveLastActive stores url as the last active URL.
func (s *Session) SaveLastActive(ctx context.Context, url string) error {
	return s.store.Set(ctx, KeyLastActiveURL, url)
}

// ClearLastActive removes the stored last active URL.
func (s *Session) ClearLastActive(ctx context.Context) error {
	return s.store.Delete(ctx, KeyLastActiveURL)
}

// History returns the stored URL history, or nil when none is stored.
func (s *Session) History(ctx context.Context) (nav.History, error) {
	v, err := s.store.Get(ctx, KeyURLHistory)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var h nav.History
	if err := json.Unmarshal([]byte(v), &h); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, KeyURLHistory, err)
	}
	if len(h) > nav.MaxHistory {
		h = h[:nav.MaxHistory]
	}
	return h, nil
}

// SaveHistory replaces the stored URL history with h.
func (s *Session) SaveHistory(ctx context.Context, h nav.History) error {
	if h == nil {
		h = nav.History{}
	}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, KeyURLHistory, err)
	}
	return s.store.Set(ctx, KeyURLHistory, string(data))
}
