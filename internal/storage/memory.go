package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/aslectra/backend/internal/errors"
)

// MemoryStore keeps images in process memory. Used by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]memoryFile
}

type memoryFile struct {
	data        []byte
	contentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]memoryFile)}
}

func (s *MemoryStore) Save(_ context.Context, r io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.files[id] = memoryFile{data: data, contentType: contentType}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Open(_ context.Context, id string) (io.ReadCloser, FileInfo, error) {
	s.mu.RLock()
	f, ok := s.files[id]
	s.mu.RUnlock()
	if !ok {
		return nil, FileInfo{}, apperrors.ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(f.data)), FileInfo{ContentType: f.contentType, Size: int64(len(f.data))}, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.files, id)
	s.mu.Unlock()
	return nil
}

// Len reports how many images are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
