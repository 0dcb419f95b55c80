// Package cachetest provides an in-process cache.Cache for tests.
package cachetest

import (
	"context"
	"encoding/json"
	"path"
	"strconv"
	"sync"
	"time"

	"bookshelf-backend/pkg/cache"
)

// Memory stores JSON encoded values in a map. TTLs are recorded but never
// expire entries.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	TTLs map[string]time.Duration
}

var _ cache.Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}, TTLs: map[string]time.Duration{}}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	m.TTLs[key] = ttl
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.TTLs, k)
	}
	return nil
}

func (m *Memory) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
			delete(m.TTLs, k)
		}
	}
	return nil
}

func (m *Memory) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	if raw, ok := m.data[key]; ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}
	}
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (m *Memory) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		m.TTLs[key] = ttl
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Has reports whether key is stored.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
