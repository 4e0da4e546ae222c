package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/pos-pro/internal/domain"
)

// FileStore almacén de blobs en archivos locales: un archivo por clave lógica
// dentro de un directorio de datos. La escritura pasa por un archivo temporal
// y rename para no dejar snapshots a medias.
type FileStore struct {
	dir string
}

// NewFileStore crea el almacén y asegura el directorio.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: crear directorio: %v", domain.ErrPersistence, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save escribe el blob bajo la clave.
func (s *FileStore) Save(_ context.Context, key string, blob []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrPersistence, key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: renombrar %s: %v", domain.ErrPersistence, key, err)
	}
	return nil
}

// Load lee el blob; ok=false si el archivo no existe.
func (s *FileStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	blob, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, key, err)
	}
	return blob, true, nil
}

// path convierte la clave lógica en un nombre de archivo seguro.
func (s *FileStore) path(key string) string {
	name := strings.ReplaceAll(key, ":", "_") + ".json"
	return filepath.Join(s.dir, name)
}
