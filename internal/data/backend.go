package data

import (
	"context"
	"fmt"
)

// Backend persists data groups. LoadGroup follows the
// (value, found, error) convention.
type Backend interface {
	Init(ctx context.Context) error
	ListGroups(ctx context.Context) ([]string, error)
	LoadGroup(ctx context.Context, id string) (*Group, bool, error)
	SaveGroup(ctx context.Context, group *Group) error
}

func NewBackend(kind, sqlitePath string) (Backend, error) {
	switch kind {
	case "", "memory":
		return NewMemoryBackend(), nil
	case "sqlite":
		return NewSQLiteBackend(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", kind)
	}
}

func CloseIfSupported(backend Backend) error {
	closer, ok := backend.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
