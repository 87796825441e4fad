package refresh_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/hifz-auth/token/refresh"
	refreshrepofake "github.com/jrsteele09/hifz-auth/token/refresh/repofake"
	"github.com/stretchr/testify/require"
)

// lockstepRepo holds every Get until all expected readers have read,
// so concurrent consumers see the token before any of them deletes it
type lockstepRepo struct {
	*refreshrepofake.FakeRefreshTokenRepo
	readers sync.WaitGroup
}

func (r *lockstepRepo) Get(ctx context.Context, token string) (*refresh.StoredRefreshToken, error) {
	rt, err := r.FakeRefreshTokenRepo.Get(ctx, token)
	r.readers.Done()
	r.readers.Wait()
	return rt, err
}

func TestConsume_SingleUseUnderRace(t *testing.T) {
	const consumers = 2
	ctx := context.Background()

	repo := &lockstepRepo{FakeRefreshTokenRepo: refreshrepofake.NewFakeRefreshTokenRepo()}
	m := refresh.NewManager(repo)
	token, err := m.Create(ctx, "acc-1", "center-a")
	require.NoError(t, err)

	repo.readers.Add(consumers)
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		notFound  atomic.Int32
	)
	for range consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Consume(ctx, token)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, refresh.ErrNotFound):
				notFound.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), succeeded.Load())
	require.Equal(t, int32(consumers-1), notFound.Load())
	require.Zero(t, repo.Count())
}

func TestConsume(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	repo := refreshrepofake.NewFakeRefreshTokenRepo()
	m := refresh.NewManager(repo,
		refresh.WithExpiry(time.Hour),
		refresh.WithNowFunc(func() time.Time { return now }),
	)

	token, err := m.Create(ctx, "acc-1", "center-a")
	require.NoError(t, err)

	rt, err := m.Consume(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", rt.AccountID)
	require.Equal(t, "center-a", rt.TenantID)

	_, err = m.Consume(ctx, token)
	require.ErrorIs(t, err, refresh.ErrNotFound)

	// An expired token is removed as well
	stale, err := m.Create(ctx, "acc-1", "")
	require.NoError(t, err)
	now = now.Add(2 * time.Hour)
	_, err = m.Consume(ctx, stale)
	require.ErrorIs(t, err, refresh.ErrExpired)
	require.Zero(t, repo.Count())
}
