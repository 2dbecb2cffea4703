// Package sessions tracks which browser sessions are signed in as the admin.
//
// A browser holds only an opaque session id in a cookie; the state behind it
// lives in a Store. Anonymous visitors are never written to the Store.
package sessions

import (
	"context"
	"errors"
	"time"
)

type State int

const (
	Anonymous State = iota
	Admin
)

func (s State) String() string {
	switch s {
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}

type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.State == Admin
}

var ErrNotFound = errors.New("session not found")

type Store interface {
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// Destroy is a no-op for unknown ids.
	Destroy(ctx context.Context, id string) error
}
