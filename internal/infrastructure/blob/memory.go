// Package blob provides ArtifactStore implementations for exported
// documents: in-memory, local filesystem and S3-compatible object storage.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
)

type memoryObject struct {
	info ports.Artifact
	body []byte
}

// MemoryStore keeps artifacts in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

// Put stores r under name, replacing any previous artifact with that name.
func (m *MemoryStore) Put(_ context.Context, name, contentType string, r io.Reader) (ports.Artifact, error) {
	if err := validName(name); err != nil {
		return ports.Artifact{}, err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return ports.Artifact{}, fmt.Errorf("read artifact %s: %w", name, err)
	}
	info := ports.Artifact{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(body)),
		CreatedAt:   time.Now().UTC(),
	}
	m.mu.Lock()
	m.objects[name] = memoryObject{info: info, body: body}
	m.mu.Unlock()
	return info, nil
}

func (m *MemoryStore) Get(_ context.Context, name string) (ports.Artifact, io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return ports.Artifact{}, nil, fmt.Errorf("get %s: %w", name, domain.ErrArtifactNotFound)
	}
	m.mu.RLock()
	obj, ok := m.objects[name]
	m.mu.RUnlock()
	if !ok {
		return ports.Artifact{}, nil, fmt.Errorf("get %s: %w", name, domain.ErrArtifactNotFound)
	}
	return obj.info, io.NopCloser(bytes.NewReader(obj.body)), nil
}
