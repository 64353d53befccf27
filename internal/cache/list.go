package cache

// slot identifies an entry by its position in the arena.
type slot int

const (
	headSlot slot = 0
	tailSlot slot = 1

	// nilSlot marks an unlinked entry (a freed slot).
	nilSlot slot = -1
)

// entry is one cached item. prev points toward head (more recently used),
// next toward tail. Links are slot numbers, so the arena alone owns the
// entries and the list holds no reference cycles.
type entry struct {
	key   string
	value string
	prev  slot
	next  slot
}

// recencyList orders live entries from most recently used (head.next) to
// least recently used (tail.prev). Slots 0 and 1 are the head and tail
// sentinels; they are never detached, evicted, or stored in the index.
type recencyList struct {
	entries []entry
	free    []slot
}

func newRecencyList(capacity int) *recencyList {
	l := &recencyList{
		entries: make([]entry, 2, 2+sizeHint(capacity)),
	}
	l.entries[headSlot] = entry{prev: nilSlot, next: tailSlot}
	l.entries[tailSlot] = entry{prev: headSlot, next: nilSlot}
	return l
}

// maxPrealloc bounds up-front allocation; larger caches grow on demand.
const maxPrealloc = 1024

func sizeHint(capacity int) int {
	return min(capacity, maxPrealloc)
}

func isSentinel(s slot) bool {
	return s == headSlot || s == tailSlot
}

// alloc returns an unlinked slot holding key/value, reusing a freed slot
// when one is available.
func (l *recencyList) alloc(key, value string) slot {
	e := entry{key: key, value: value, prev: nilSlot, next: nilSlot}
	if n := len(l.free); n > 0 {
		s := l.free[n-1]
		l.free = l.free[:n-1]
		l.entries[s] = e
		return s
	}
	l.entries = append(l.entries, e)
	return slot(len(l.entries) - 1)
}

// release clears a detached slot and makes it available to alloc.
func (l *recencyList) release(s slot) {
	l.entries[s] = entry{prev: nilSlot, next: nilSlot}
	l.free = append(l.free, s)
}

// detach unlinks s from its neighbours. Detaching a sentinel or an
// unlinked slot means the index and list disagree, so it panics.
func (l *recencyList) detach(s slot) {
	if isSentinel(s) {
		panic(&InvariantError{Op: "detach", Detail: "attempt to detach a sentinel"})
	}
	e := &l.entries[s]
	if e.prev == nilSlot || e.next == nilSlot {
		panic(&InvariantError{Op: "detach", Detail: "entry is not linked"})
	}
	l.entries[e.prev].next = e.next
	l.entries[e.next].prev = e.prev
	e.prev, e.next = nilSlot, nilSlot
}

// insertFront links s right after head, making it the most recently used.
func (l *recencyList) insertFront(s slot) {
	first := l.entries[headSlot].next
	e := &l.entries[s]
	e.prev = headSlot
	e.next = first
	l.entries[first].prev = s
	l.entries[headSlot].next = s
}

// moveToFront is detach followed by insertFront.
func (l *recencyList) moveToFront(s slot) {
	l.detach(s)
	l.insertFront(s)
}

// back returns the least recently used slot, or headSlot when the list
// holds no real entries.
func (l *recencyList) back() slot {
	return l.entries[tailSlot].prev
}

func (l *recencyList) get(s slot) *entry {
	return &l.entries[s]
}

// each walks live entries from most to least recently used until fn
// returns false.
func (l *recencyList) each(fn func(s slot, e *entry) bool) {
	for s := l.entries[headSlot].next; s != tailSlot; s = l.entries[s].next {
		if !fn(s, &l.entries[s]) {
			return
		}
	}
}
