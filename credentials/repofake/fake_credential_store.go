package fakecredentialstore

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/hifz-auth/credentials"
)

var _ credentials.Store = (*FakeCredentialStore)(nil)

type FakeCredentialStore struct {
	records map[string]credentials.Record
	lock    sync.RWMutex
}

func NewFakeCredentialStore() *FakeCredentialStore {
	return &FakeCredentialStore{
		records: make(map[string]credentials.Record),
	}
}

func (cs *FakeCredentialStore) GetCredential(_ context.Context, loginHandle string) (*credentials.Record, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	r, ok := cs.records[loginHandle]
	if !ok {
		return nil, credentials.ErrNotFound
	}
	return &r, nil
}

func (cs *FakeCredentialStore) SetCredential(_ context.Context, loginHandle, passwordHash string) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.records[loginHandle] = credentials.Record{
		LoginHandle:  loginHandle,
		PasswordHash: passwordHash,
		UpdatedAt:    time.Now(),
	}
	return nil
}
