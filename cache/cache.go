package cache

import (
	"strconv"
	"time"

	"github.com/gwuhaolin/playgo/av"

	gocache "github.com/patrickmn/go-cache"
)

// Memory holds decoded frames keyed by position. Entries expire after ttl
// so a long pause does not pin the whole prefetch window in memory; a ttl
// of zero or below disables expiry.
type Memory struct {
	store *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		return &Memory{store: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Memory{store: gocache.New(ttl, 2*ttl)}
}

func key(position int64) string {
	return strconv.FormatInt(position, 10)
}

func (m *Memory) Add(frame *av.Frame) {
	if frame == nil {
		return
	}
	m.store.SetDefault(key(frame.Number), frame)
}

func (m *Memory) Get(position int64) (*av.Frame, bool) {
	v, found := m.store.Get(key(position))
	if !found {
		return nil, false
	}
	return v.(*av.Frame), true
}

func (m *Memory) Has(position int64) bool {
	_, found := m.store.Get(key(position))
	return found
}

func (m *Memory) Remove(position int64) {
	m.store.Delete(key(position))
}

func (m *Memory) Clear() {
	m.store.Flush()
}

func (m *Memory) Count() int {
	return m.store.ItemCount()
}
