package cache

// index maps a key to the arena slot holding it. It never contains the
// sentinel slots.
type index map[string]slot

func (ix index) lookup(key string) (slot, bool) {
	s, ok := ix[key]
	return s, ok
}

func (ix index) insert(key string, s slot) {
	ix[key] = s
}

func (ix index) remove(key string) {
	delete(ix, key)
}
