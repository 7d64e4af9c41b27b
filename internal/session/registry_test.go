package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() (*Registry, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	registry := NewRegistry(DefaultIdleTimeout, []string{"ADMIN", "MANAGER"})
	registry.now = clock.Now
	return registry, clock
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestRegistryCreate(t *testing.T) {
	registry, _ := newTestRegistry()

	id, ok := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")
	assert.True(t, ok)
	assert.NotEmpty(t, id)
	assert.True(t, registry.IsValid(id))

	session, ok := registry.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "boss@wegavilla.lan", session.Email)
	assert.Equal(t, "ADMIN", session.Role)
	assert.True(t, session.Active)
	assert.Equal(t, session.CreatedAt, session.LastHeartbeat)
}

func TestRegistryCreateUnprivilegedRole(t *testing.T) {
	registry, _ := newTestRegistry()

	id, ok := registry.Create("u1", "guest@wegavilla.lan", "USER")
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.Empty(t, registry.ListActive())
}

func TestRegistryRenewHeartbeat(t *testing.T) {
	registry, clock := newTestRegistry()
	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")

	before, _ := registry.Lookup(id)
	clock.Advance(time.Minute)

	assert.True(t, registry.RenewHeartbeat(id))

	after, _ := registry.Lookup(id)
	assert.True(t, after.LastHeartbeat.After(before.LastHeartbeat))

	assert.False(t, registry.RenewHeartbeat("no-such-session"))
}

func TestRegistryIsValid(t *testing.T) {
	registry, clock := newTestRegistry()
	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")

	assert.False(t, registry.IsValid("unknown"))
	assert.True(t, registry.IsValid(id))

	// IsValid is a pure read: no heartbeat renewal happens.
	clock.Advance(29 * time.Minute)
	assert.True(t, registry.IsValid(id))
	clock.Advance(2 * time.Minute)
	assert.False(t, registry.IsValid(id))
}

func TestRegistryInvalidateIdempotent(t *testing.T) {
	registry, _ := newTestRegistry()
	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")

	assert.True(t, registry.Invalidate(id))
	assert.False(t, registry.Invalidate(id))
	assert.False(t, registry.IsValid(id))
	assert.False(t, registry.RenewHeartbeat(id))
}

func TestRegistryInvalidateAllForUser(t *testing.T) {
	registry, _ := newTestRegistry()
	a, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")
	b, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")
	c, _ := registry.Create("u2", "chief@wegavilla.lan", "MANAGER")

	assert.Equal(t, 2, registry.InvalidateAllForUser("u1"))
	assert.False(t, registry.IsValid(a))
	assert.False(t, registry.IsValid(b))
	assert.True(t, registry.IsValid(c))
	assert.Empty(t, registry.SessionsForUser("u1"))
	assert.Len(t, registry.SessionsForUser("u2"), 1)
}

func TestRegistrySweep(t *testing.T) {
	registry, clock := newTestRegistry()

	stale, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")
	clock.Advance(20 * time.Minute)
	fresh, _ := registry.Create("u2", "chief@wegavilla.lan", "MANAGER")
	freshBefore, _ := registry.Lookup(fresh)

	clock.Advance(15 * time.Minute) // stale is 35m idle, fresh 15m.
	assert.Equal(t, 1, registry.Sweep())

	_, ok := registry.Lookup(stale)
	assert.False(t, ok)
	assert.Empty(t, registry.SessionsForUser("u1"))

	// Survivors are left untouched.
	freshAfter, ok := registry.Lookup(fresh)
	require.True(t, ok)
	assert.Equal(t, freshBefore, freshAfter)

	// Nothing left to evict.
	assert.Zero(t, registry.Sweep())
}

func TestRegistrySweepEvictsInactive(t *testing.T) {
	registry, _ := newTestRegistry()

	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")
	registry.Invalidate(id)
	// Invalidate already removed the record, sweep finds nothing.
	assert.Zero(t, registry.Sweep())
	assert.Empty(t, registry.ListActive())
}

func TestRegistryIdleExpiryScenario(t *testing.T) {
	registry, clock := newTestRegistry()
	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")

	clock.Advance(29 * time.Minute)
	assert.True(t, registry.RenewHeartbeat(id))
	assert.True(t, registry.IsValid(id))

	clock.Advance(31 * time.Minute)
	assert.False(t, registry.IsValid(id))

	registry.Sweep()
	assert.Empty(t, registry.ListActive())
}

func TestRegistryValidateAndRenew(t *testing.T) {
	registry, clock := newTestRegistry()
	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")

	clock.Advance(time.Minute)
	assert.True(t, registry.ValidateAndRenew(id))

	session, _ := registry.Lookup(id)
	assert.Equal(t, clock.Now(), session.LastHeartbeat)

	clock.Advance(31 * time.Minute)
	assert.False(t, registry.ValidateAndRenew(id))
	assert.False(t, registry.ValidateAndRenew("unknown"))
}

func TestRegistryListActiveReturnsCopies(t *testing.T) {
	registry, _ := newTestRegistry()
	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")

	list := registry.ListActive()
	require.Len(t, list, 1)
	list[0].Active = false
	list[0].Role = "USER"

	assert.True(t, registry.IsValid(id))
	session, _ := registry.Lookup(id)
	assert.Equal(t, "ADMIN", session.Role)
}

func TestRegistryConcurrentRenewals(t *testing.T) {
	registry, clock := newTestRegistry()
	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Millisecond)
			registry.RenewHeartbeat(id)
		}()
	}
	wg.Wait()

	// The record is intact and the heartbeat is at least the last advanced instant.
	session, ok := registry.Lookup(id)
	require.True(t, ok)
	assert.True(t, session.Active)
	assert.False(t, session.LastHeartbeat.After(clock.Now()))
	assert.True(t, registry.IsValid(id))
}

func TestRegistryInvalidateRacingRenewal(t *testing.T) {
	registry, _ := newTestRegistry()

	for i := 0; i < 50; i++ {
		id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.RenewHeartbeat(id)
		}()
		go func() {
			defer wg.Done()
			registry.Invalidate(id)
		}()
		wg.Wait()

		// Whatever the interleaving, invalidation wins.
		assert.False(t, registry.IsValid(id))
		_, ok := registry.Lookup(id)
		assert.False(t, ok)
	}
}

func TestRegistryStats(t *testing.T) {
	registry, _ := newTestRegistry()
	registry.Create("u1", "boss@wegavilla.lan", "ADMIN")
	registry.Create("u1", "boss@wegavilla.lan", "ADMIN")
	registry.Create("u2", "chief@wegavilla.lan", "MANAGER")

	stats := registry.Stats()
	assert.Equal(t, 3, stats.ActiveSessions)
	assert.Equal(t, 2, stats.ActiveUsers)
	assert.Equal(t, 2, stats.SessionsByRole["ADMIN"])
	assert.Equal(t, 1, stats.SessionsByRole["MANAGER"])
}
