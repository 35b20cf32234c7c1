package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
)

// FSStore writes artifacts as flat files under a root directory. A sidecar
// file (name + ".meta") records content type and creation time.
type FSStore struct {
	root string
}

// NewFSStore returns a store rooted at dir, creating it if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		dir = "./exports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FSStore{root: dir}, nil
}

type metaFile struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// validName rejects names that would leave the root or nest directories.
// Stores report such names as not found on reads.
func validName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty artifact name", domain.ErrValidation)
	case strings.Contains(name, ".."), strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: invalid artifact name %q", domain.ErrValidation, name)
	}
	return nil
}

// Put streams r to a temp file and renames it into place so readers never
// observe a partial document.
func (s *FSStore) Put(_ context.Context, name, contentType string, r io.Reader) (ports.Artifact, error) {
	if err := validName(name); err != nil {
		return ports.Artifact{}, err
	}
	dataPath := filepath.Join(s.root, name)

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return ports.Artifact{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	size, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return ports.Artifact{}, fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return ports.Artifact{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return ports.Artifact{}, err
	}

	mf := metaFile{ContentType: contentType, Size: size, CreatedAt: time.Now().UTC()}
	b, err := json.Marshal(mf)
	if err != nil {
		return ports.Artifact{}, err
	}
	if err := os.WriteFile(dataPath+".meta", b, 0o644); err != nil {
		return ports.Artifact{}, err
	}
	return ports.Artifact{Name: name, ContentType: contentType, Size: size, CreatedAt: mf.CreatedAt}, nil
}

func (s *FSStore) Get(_ context.Context, name string) (ports.Artifact, io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return ports.Artifact{}, nil, fmt.Errorf("get %s: %w", name, domain.ErrArtifactNotFound)
	}
	dataPath := filepath.Join(s.root, name)

	file, err := os.Open(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return ports.Artifact{}, nil, fmt.Errorf("get %s: %w", name, domain.ErrArtifactNotFound)
	}
	if err != nil {
		return ports.Artifact{}, nil, err
	}

	info := ports.Artifact{Name: name}
	if b, err := os.ReadFile(dataPath + ".meta"); err == nil {
		var mf metaFile
		if json.Unmarshal(b, &mf) == nil {
			info.ContentType, info.Size, info.CreatedAt = mf.ContentType, mf.Size, mf.CreatedAt
		}
	}
	if info.Size == 0 {
		if st, err := file.Stat(); err == nil {
			info.Size = st.Size()
		}
	}
	return info, file, nil
}
