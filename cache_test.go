package marketdesk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eringen/marketdesk/model"
)

// countingStore counts ListAccounts calls on the wrapped store.
type countingStore struct {
	Store
	lists atomic.Int32
}

func (s *countingStore) ListAccounts(ctx context.Context) ([]model.Account, error) {
	s.lists.Add(1)
	return s.Store.ListAccounts(ctx)
}

func TestAccountCacheServesFromMemory(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: setupTestStore(t)}
	acct := model.Account{Name: "Cached", Industry: "retail"}
	if err := store.CreateAccount(ctx, &acct); err != nil {
		t.Fatal(err)
	}

	c := NewAccountCache(store, time.Minute)
	for range 3 {
		if _, err := c.List(ctx); err != nil {
			t.Fatalf("List: %v", err)
		}
	}
	got, err := c.Get(ctx, acct.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Cached" {
		t.Errorf("Name = %q, want Cached", got.Name)
	}
	if n := store.lists.Load(); n != 1 {
		t.Errorf("ListAccounts called %d times, want 1", n)
	}

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing): err = %v, want ErrNotFound", err)
	}
}

func TestAccountCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: setupTestStore(t)}
	c := NewAccountCache(store, time.Minute)

	accounts, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 0 {
		t.Fatalf("List = %d accounts, want 0", len(accounts))
	}

	if err := store.CreateAccount(ctx, &model.Account{Name: "New", Industry: "legal"}); err != nil {
		t.Fatal(err)
	}
	accounts, _ = c.List(ctx)
	if len(accounts) != 0 {
		t.Errorf("stale List = %d accounts, want 0 before Invalidate", len(accounts))
	}

	c.Invalidate()
	accounts, _ = c.List(ctx)
	if len(accounts) != 1 {
		t.Errorf("List after Invalidate = %d accounts, want 1", len(accounts))
	}
}

func TestAccountCacheExpires(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: setupTestStore(t)}
	c := NewAccountCache(store, time.Nanosecond)

	c.List(ctx)
	time.Sleep(time.Millisecond)
	c.List(ctx)
	if n := store.lists.Load(); n != 2 {
		t.Errorf("ListAccounts called %d times, want 2", n)
	}
}

func TestAccountCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: setupTestStore(t)}
	c := NewAccountCache(store, time.Minute)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.List(ctx); err != nil {
				t.Errorf("List: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := store.lists.Load(); n != 1 {
		t.Errorf("ListAccounts called %d times, want 1", n)
	}
}
