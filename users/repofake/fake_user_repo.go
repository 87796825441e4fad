package fakeuserrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/hifz-auth/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users       map[string]*users.User
	order       []string          // account ids in creation order
	emailIds    map[string]string // email to user id
	handleIds   map[string]string // login handle to user id
	memberships map[string]users.Memberships
	lock        sync.RWMutex
	nowFunc     func() time.Time
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:       make(map[string]*users.User),
		emailIds:    make(map[string]string),
		handleIds:   make(map[string]string),
		memberships: make(map[string]users.Memberships),
		nowFunc:     time.Now,
	}
}

func (ur *FakeUserRepo) Upsert(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.LoginHandle == "" {
		return fmt.Errorf("[FakeUserRepo.Upsert] login handle is required")
	}
	if id, ok := ur.handleIds[user.LoginHandle]; ok && id != user.ID {
		return users.ErrDuplicateHandle
	}
	if id, ok := ur.emailIds[user.Email]; ok && user.Email != "" && id != user.ID {
		return users.ErrDuplicateEmail
	}

	now := ur.nowFunc()
	existing, ok := ur.users[user.ID]
	if ok {
		delete(ur.emailIds, existing.Email)
		delete(ur.handleIds, existing.LoginHandle)
		user.CreatedAt = existing.CreatedAt
	} else {
		ur.order = append(ur.order, user.ID)
		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}
	}
	user.UpdatedAt = now

	stored := *user
	ur.users[user.ID] = &stored
	if user.Email != "" {
		ur.emailIds[user.Email] = user.ID
	}
	ur.handleIds[user.LoginHandle] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return copyUser(u), nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok || email == "" {
		return nil, users.ErrNotFound
	}
	return copyUser(ur.users[id]), nil
}

func (ur *FakeUserRepo) GetByLoginHandle(_ context.Context, handle string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.handleIds[handle]
	if !ok {
		return nil, users.ErrNotFound
	}
	return copyUser(ur.users[id]), nil
}

func (ur *FakeUserRepo) FindByDisplayName(_ context.Context, name string) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	matches := make([]*users.User, 0)
	for _, id := range ur.order {
		if u := ur.users[id]; u.DisplayName == name {
			matches = append(matches, copyUser(u))
		}
	}
	return matches, nil
}

func (ur *FakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.Active = active
	u.UpdatedAt = ur.nowFunc()
	return nil
}

func (ur *FakeUserRepo) SetLastLogin(_ context.Context, id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.LastLogin = ur.nowFunc()
	return nil
}

func (ur *FakeUserRepo) ListByAccount(_ context.Context, accountID string) (users.Memberships, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	if _, ok := ur.users[accountID]; !ok {
		return nil, users.ErrNotFound
	}
	return ur.memberships[accountID].Clone(), nil
}

func (ur *FakeUserRepo) Grant(_ context.Context, membership users.Membership) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.users[membership.AccountID]; !ok {
		return users.ErrNotFound
	}
	for _, m := range ur.memberships[membership.AccountID] {
		if m.Role == membership.Role && m.TenantID == membership.TenantID {
			return nil
		}
	}
	if membership.GrantedAt.IsZero() {
		membership.GrantedAt = ur.nowFunc()
	}
	ur.memberships[membership.AccountID] = append(ur.memberships[membership.AccountID], membership)
	return nil
}

func (ur *FakeUserRepo) Revoke(_ context.Context, membership users.Membership) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	current := ur.memberships[membership.AccountID]
	kept := make(users.Memberships, 0, len(current))
	for _, m := range current {
		if m.Role == membership.Role && m.TenantID == membership.TenantID {
			continue
		}
		kept = append(kept, m)
	}
	ur.memberships[membership.AccountID] = kept
	return nil
}

func copyUser(u *users.User) *users.User {
	c := *u
	return &c
}
