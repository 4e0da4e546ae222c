// Package persistence implementa el almacén opaco de snapshots (ports.Gateway)
// sobre distintos backends: memoria, archivos locales, Redis y PostgreSQL.
package persistence

import (
	"context"
	"sync"
)

// MemoryStore almacén de blobs en memoria. Es el driver por defecto y el que
// usan los tests; no sobrevive reinicios.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore crea el almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Save guarda una copia del blob bajo la clave.
func (s *MemoryStore) Save(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), blob...)
	return nil
}

// Load devuelve una copia del blob; ok=false si la clave no existe.
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}
