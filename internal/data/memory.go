package data

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryBackend keeps serialized group snapshots in process memory. Saving
// deep-copies through the codec so later mutation of a live group does not
// alter the stored snapshot.
type MemoryBackend struct {
	mu          sync.RWMutex
	initialized bool
	groups      map[string]memoryGroup
}

type memoryGroup struct {
	snapshot groupSnapshot
	records  []recordSnapshot
}

type groupSnapshot struct {
	ID        string
	Name      string
	Meta      []byte
	CreatedAt int64
}

type recordSnapshot struct {
	Name    string
	Columns []byte
	Rows    []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Init(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.initialized = true
	b.groups = make(map[string]memoryGroup)
	return nil
}

func (b *MemoryBackend) ListGroups(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, errors.New("backend is not initialized")
	}
	ids := make([]string, 0, len(b.groups))
	for id := range b.groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return b.groups[ids[i]].snapshot.CreatedAt < b.groups[ids[j]].snapshot.CreatedAt
	})
	return ids, nil
}

func (b *MemoryBackend) LoadGroup(_ context.Context, id string) (*Group, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, false, errors.New("backend is not initialized")
	}
	stored, ok := b.groups[id]
	if !ok {
		return nil, false, nil
	}
	group, err := restoreFromSnapshots(stored.snapshot, stored.records)
	if err != nil {
		return nil, false, err
	}
	return group, true, nil
}

func (b *MemoryBackend) SaveGroup(_ context.Context, group *Group) error {
	if group == nil {
		return errors.New("group is required")
	}
	snapshot, records, err := snapshotGroup(group)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return errors.New("backend is not initialized")
	}
	b.groups[snapshot.ID] = memoryGroup{snapshot: snapshot, records: records}
	return nil
}
