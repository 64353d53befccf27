package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariants walks the recency list and verifies that it agrees with
// the index: same membership, index slots point at the right entries,
// back-links mirror forward links, and the capacity bound holds.
func checkInvariants(t *testing.T, c *Cache) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.list
	seen := make(map[string]bool)
	prev := headSlot
	n := 0
	for s := l.entries[headSlot].next; s != tailSlot; s = l.entries[s].next {
		require.False(t, isSentinel(s), "sentinel %d inside list", s)
		e := l.entries[s]
		require.Equal(t, prev, e.prev, "back-link of %q", e.key)
		require.False(t, seen[e.key], "key %q linked twice", e.key)
		seen[e.key] = true

		got, ok := c.index.lookup(e.key)
		require.True(t, ok, "listed key %q missing from index", e.key)
		require.Equal(t, s, got, "index slot for %q", e.key)

		prev = s
		n++
		require.LessOrEqual(t, n, len(l.entries), "list does not terminate")
	}
	require.Equal(t, prev, l.entries[tailSlot].prev, "tail back-link")
	require.Equal(t, len(c.index), n, "index size vs list length")
	require.LessOrEqual(t, n, c.capacity)
	for key, s := range c.index {
		require.False(t, isSentinel(s), "index maps %q to a sentinel", key)
	}
}

func keysOf(l *recencyList) []string {
	var out []string
	l.each(func(_ slot, e *entry) bool {
		out = append(out, e.key)
		return true
	})
	return out
}

func TestRecencyListInsertFrontAndDetach(t *testing.T) {
	l := newRecencyList(4)
	assert.Equal(t, headSlot, l.back(), "empty list back is head")

	a := l.alloc("a", "1")
	b := l.alloc("b", "2")
	c := l.alloc("c", "3")
	l.insertFront(a)
	l.insertFront(b)
	l.insertFront(c)
	assert.Equal(t, []string{"c", "b", "a"}, keysOf(l))
	assert.Equal(t, a, l.back())

	l.detach(b)
	assert.Equal(t, []string{"c", "a"}, keysOf(l))

	l.moveToFront(a)
	assert.Equal(t, []string{"a", "c"}, keysOf(l))
	assert.Equal(t, c, l.back())
}

func TestRecencyListReusesReleasedSlots(t *testing.T) {
	l := newRecencyList(2)
	a := l.alloc("a", "1")
	l.insertFront(a)
	l.detach(a)
	l.release(a)

	assert.Empty(t, l.get(a).key, "released slot is cleared")
	b := l.alloc("b", "2")
	assert.Equal(t, a, b, "released slot should be reused")
	assert.Len(t, l.entries, 3)
}

func TestDetachSentinelPanics(t *testing.T) {
	l := newRecencyList(1)
	msg := (&InvariantError{Op: "detach", Detail: "attempt to detach a sentinel"}).Error()
	assert.PanicsWithError(t, msg, func() { l.detach(headSlot) })
	assert.PanicsWithError(t, msg, func() { l.detach(tailSlot) })
}

func TestDetachUnlinkedPanics(t *testing.T) {
	l := newRecencyList(1)
	s := l.alloc("a", "1")
	assert.Panics(t, func() { l.detach(s) })
}

func TestEvictWithEmptyListPanics(t *testing.T) {
	c, err := New(Config{Capacity: 1})
	require.NoError(t, err)

	// Desynchronize on purpose: the index claims an entry the list lacks.
	c.index.insert("ghost", slot(7))

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		ie, ok := r.(*InvariantError)
		require.True(t, ok, "panic value %T is not *InvariantError", r)
		assert.Equal(t, "evict", ie.Op)

		// The deferred unlock must have run.
		assert.Equal(t, 1, c.Len())
	}()
	c.Set("x", "1")
}

func TestSetExistingKeepsEntryIdentity(t *testing.T) {
	c, err := New(Config{Capacity: 3})
	require.NoError(t, err)

	c.Set("a", "1")
	c.Set("b", "2")
	before, _ := c.index.lookup("a")

	c.Set("a", "updated")
	after, _ := c.index.lookup("a")
	assert.Equal(t, before, after)
	assert.Equal(t, "updated", c.list.get(after).value)
	checkInvariants(t, c)
}

func TestEvictedSlotIsRecycled(t *testing.T) {
	c, err := New(Config{Capacity: 2})
	require.NoError(t, err)

	c.Set("a", "1")
	c.Set("b", "2")
	slotA, _ := c.index.lookup("a")
	c.Set("c", "3")

	slotC, ok := c.index.lookup("c")
	require.True(t, ok)
	assert.Equal(t, slotA, slotC)
	assert.Len(t, c.list.entries, 4, "arena should not grow past capacity+2")
	checkInvariants(t, c)
}
