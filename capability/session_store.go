package capability

import (
	"context"
	"sync"

	"github.com/jrsteele09/hifz-auth/sessions"
)

// SessionStore persists the installed session between application starts.
type SessionStore interface {
	Load(ctx context.Context) (*sessions.Session, error) // ErrNoSession when nothing is stored
	Save(ctx context.Context, session *sessions.Session) error
	Clear(ctx context.Context) error
}

var _ SessionStore = (*MemorySessionStore)(nil)

type MemorySessionStore struct {
	session *sessions.Session
	lock    sync.Mutex
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load(_ context.Context) (*sessions.Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.session == nil {
		return nil, ErrNoSession
	}
	c := *s.session
	return &c, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *sessions.Session) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	c := *session
	s.session = &c
	return nil
}

func (s *MemorySessionStore) Clear(_ context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.session = nil
	return nil
}
