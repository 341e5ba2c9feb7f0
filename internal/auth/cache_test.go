package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeStore struct {
	mu      sync.Mutex
	token   string
	loadErr error
	saveErr error
	saved   []string
}

func (s *fakeStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.token, nil
}

func (s *fakeStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, token)
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

type fakeProvider struct {
	cred  Credential
	err   error
	calls atomic.Int64
}

func (p *fakeProvider) Refresh(context.Context) (Credential, error) {
	p.calls.Add(1)
	if p.err != nil {
		return Credential{}, p.err
	}
	return p.cred, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCacheGet(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	freshToken := func(t *testing.T) string {
		return makeToken(t, map[string]any{"exp": now.Add(time.Hour).Unix()})
	}
	expiredToken := func(t *testing.T) string {
		return makeToken(t, map[string]any{"exp": now.Add(-time.Hour).Unix()})
	}

	newCache := func(store Store, provider Provider) *Cache {
		c := NewCache(store, provider, testLogger())
		c.now = func() time.Time { return now }
		return c
	}

	t.Run("uses stored credential without refreshing", func(t *testing.T) {
		stored := freshToken(t)
		store := &fakeStore{token: stored}
		provider := &fakeProvider{}

		cred, err := newCache(store, provider).Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cred.Token != stored {
			t.Errorf("Token = %q, want stored token", cred.Token)
		}
		if provider.calls.Load() != 0 {
			t.Errorf("provider called %d times, want 0", provider.calls.Load())
		}
	})

	t.Run("refreshes when nothing is stored", func(t *testing.T) {
		fresh := freshToken(t)
		store := &fakeStore{loadErr: ErrNoCredential}
		provider := &fakeProvider{cred: Credential{Token: fresh, ExpiresAt: now.Add(time.Hour)}}

		cred, err := newCache(store, provider).Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cred.Token != fresh {
			t.Errorf("Token = %q, want refreshed token", cred.Token)
		}
		if provider.calls.Load() != 1 {
			t.Errorf("provider called %d times, want 1", provider.calls.Load())
		}
		store.mu.Lock()
		defer store.mu.Unlock()
		if len(store.saved) != 1 || store.saved[0] != fresh {
			t.Errorf("saved = %v, want the refreshed token persisted once", store.saved)
		}
	})

	t.Run("refreshes when stored credential is expired", func(t *testing.T) {
		store := &fakeStore{token: expiredToken(t)}
		fresh := freshToken(t)
		provider := &fakeProvider{cred: Credential{Token: fresh, ExpiresAt: now.Add(time.Hour)}}

		cred, err := newCache(store, provider).Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cred.Token != fresh {
			t.Errorf("Token = %q, want refreshed token", cred.Token)
		}
	})

	t.Run("refreshes when stored credential is garbage", func(t *testing.T) {
		store := &fakeStore{token: "corrupted"}
		fresh := freshToken(t)
		provider := &fakeProvider{cred: Credential{Token: fresh, ExpiresAt: now.Add(time.Hour)}}

		cred, err := newCache(store, provider).Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cred.Token != fresh {
			t.Errorf("Token = %q, want refreshed token", cred.Token)
		}
	})

	t.Run("reports unavailable when store and provider both fail", func(t *testing.T) {
		store := &fakeStore{loadErr: ErrNoCredential}
		provider := &fakeProvider{err: errors.New("identity endpoint down")}

		_, err := newCache(store, provider).Get(ctx)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("save failure does not fail the refresh", func(t *testing.T) {
		fresh := freshToken(t)
		store := &fakeStore{loadErr: ErrNoCredential, saveErr: errors.New("disk full")}
		provider := &fakeProvider{cred: Credential{Token: fresh, ExpiresAt: now.Add(time.Hour)}}

		cred, err := newCache(store, provider).Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cred.Token != fresh {
			t.Errorf("Token = %q, want refreshed token", cred.Token)
		}
	})

	t.Run("second call reuses the in-memory credential", func(t *testing.T) {
		store := &fakeStore{loadErr: ErrNoCredential}
		provider := &fakeProvider{cred: Credential{Token: freshToken(t), ExpiresAt: now.Add(time.Hour)}}
		cache := newCache(store, provider)

		if _, err := cache.Get(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		store.mu.Lock()
		store.loadErr = errors.New("store must not be consulted again")
		store.mu.Unlock()

		if _, err := cache.Get(ctx); err != nil {
			t.Fatalf("unexpected error on reuse: %v", err)
		}
		if provider.calls.Load() != 1 {
			t.Errorf("provider called %d times, want 1", provider.calls.Load())
		}
	})

	t.Run("concurrent callers trigger exactly one refresh", func(t *testing.T) {
		store := &fakeStore{token: expiredToken(t)}
		provider := &fakeProvider{cred: Credential{Token: freshToken(t), ExpiresAt: now.Add(time.Hour)}}
		cache := newCache(store, provider)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := cache.Get(ctx); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if provider.calls.Load() != 1 {
			t.Errorf("provider called %d times, want 1", provider.calls.Load())
		}
	})
}

func TestCacheToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stored := makeToken(t, map[string]any{"exp": now.Add(time.Hour).Unix()})

	cache := NewCache(&fakeStore{token: stored}, &fakeProvider{}, testLogger())
	cache.now = func() time.Time { return now }

	token, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != stored {
		t.Errorf("Token = %q, want stored token", token)
	}
}
