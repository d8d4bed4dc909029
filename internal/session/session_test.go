package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

func newRedisCarts(t *testing.T) (cartrepo.Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cartrepo.NewRedis(client, time.Hour), mr
}

var mug = domain.Product{ID: "p1", Name: "Mug", Price: decimal.RequireFromString("12.99"), Category: "home"}

func TestResolve_CreatesAndReuses(t *testing.T) {
	reg := NewRegistry(nil, time.Hour, nil)
	ctx := context.Background()

	s, created := reg.Resolve(ctx, "")
	require.True(t, created)
	require.NotEmpty(t, s.ID)

	again, created := reg.Resolve(ctx, s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)
	assert.Equal(t, 1, reg.Len())
}

func TestResolve_MalformedIDGetsFreshOne(t *testing.T) {
	reg := NewRegistry(nil, time.Hour, nil)
	s, created := reg.Resolve(context.Background(), "not-a-uuid")
	require.True(t, created)
	assert.NotEqual(t, "not-a-uuid", s.ID)
}

func TestSessionsAreIsolated(t *testing.T) {
	reg := NewRegistry(nil, time.Hour, nil)
	ctx := context.Background()
	a, _ := reg.Resolve(ctx, "")
	b, _ := reg.Resolve(ctx, "")

	a.Cart.AddItem(mug, 2)
	assert.Equal(t, 2, a.Cart.ItemCount())
	assert.Equal(t, 0, b.Cart.ItemCount())
}

func TestCartPersistsAcrossRegistries(t *testing.T) {
	carts, mr := newRedisCarts(t)
	ctx := context.Background()

	first := NewRegistry(carts, time.Hour, nil)
	s, _ := first.Resolve(ctx, "")
	s.Cart.AddItem(mug, 3)
	require.True(t, mr.Exists("cart:"+s.ID))

	// A new registry stands in for a restarted server.
	second := NewRegistry(carts, time.Hour, nil)
	restored, created := second.Resolve(ctx, s.ID)
	require.True(t, created)
	assert.Equal(t, s.ID, restored.ID)
	require.Len(t, restored.Cart.Lines(), 1)
	assert.Equal(t, 3, restored.Cart.ItemCount())
	assert.True(t, restored.Cart.Total().Equal(decimal.RequireFromString("38.97")))
}

func TestClearedCartDeletesPersistedCopy(t *testing.T) {
	carts, mr := newRedisCarts(t)
	reg := NewRegistry(carts, time.Hour, nil)
	s, _ := reg.Resolve(context.Background(), "")

	s.Cart.AddItem(mug, 1)
	require.True(t, mr.Exists("cart:"+s.ID))
	s.Cart.Clear()
	assert.False(t, mr.Exists("cart:"+s.ID))
}

func TestRedisOutageDoesNotBreakCart(t *testing.T) {
	carts, mr := newRedisCarts(t)
	reg := NewRegistry(carts, time.Hour, nil)
	mr.Close()

	s, _ := reg.Resolve(context.Background(), "")
	s.Cart.AddItem(mug, 1)
	assert.Equal(t, 1, s.Cart.ItemCount())
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	carts, mr := newRedisCarts(t)
	reg := NewRegistry(carts, 30*time.Minute, nil)
	now := time.Now()
	reg.now = func() time.Time { return now }
	ctx := context.Background()

	idle, _ := reg.Resolve(ctx, "")
	idle.Cart.AddItem(mug, 1)

	now = now.Add(20 * time.Minute)
	active, _ := reg.Resolve(ctx, "")

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	_, ok := reg.Get(idle.ID)
	assert.False(t, ok)
	_, ok = reg.Get(active.ID)
	assert.True(t, ok)

	// Evicted sessions stop writing through.
	mr.Del("cart:" + idle.ID)
	idle.Cart.AddItem(mug, 1)
	assert.False(t, mr.Exists("cart:"+idle.ID))
}

func TestSessionToken(t *testing.T) {
	reg := NewRegistry(nil, time.Hour, nil)
	s, _ := reg.Resolve(context.Background(), "")
	assert.Empty(t, s.Token())
	s.SetToken("tok")
	assert.Equal(t, "tok", s.Token())
}
