package main

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

//go:generate go run ../cmd/goproxy gen --file map_proxy.go . Map

type Map interface {
	Set(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string) (any, error)
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")

type LocalMap struct {
	mu    sync.RWMutex
	items map[string]any
}

func (m *LocalMap) Set(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = map[string]any{}
	}
	m.items[key] = value
	return nil
}

func (m *LocalMap) Get(_ context.Context, key string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found := m.items[key]
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "get '%s'", key)
	}
	return value, nil
}

func (m *LocalMap) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, found := m.items[key]; !found {
		return errors.Wrapf(ErrNotFound, "delete '%s'", key)
	}
	delete(m.items, key)
	return nil
}
