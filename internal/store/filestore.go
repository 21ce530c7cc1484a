package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"BdsCrm/api/crm/ingest"
	"BdsCrm/internal/config"
)

// FileCache keeps each tenant's payload as a JSON file on disk, one file
// per tenant under the data directory. Writes go through a temp file and
// rename so a crash mid-save never leaves a truncated payload behind.
type FileCache struct {
	dir string
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

func (c *FileCache) path(tenant string) string {
	return filepath.Join(c.dir, tenant, config.PayloadCacheKey+".json")
}

func (c *FileCache) Load(_ context.Context, tenant string) (*ingest.Payload, error) {
	raw, err := os.ReadFile(c.path(tenant))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read payload cache: %v", err)
	}
	var p ingest.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode payload cache: %v", err)
	}
	p.Normalize()
	return &p, nil
}

func (c *FileCache) Save(_ context.Context, tenant string, p *ingest.Payload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload cache: %v", err)
	}
	dir := filepath.Dir(c.path(tenant))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %v", err)
	}
	tmp, err := os.CreateTemp(dir, "payload-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp payload: %v", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp payload: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp payload: %v", err)
	}
	if err := os.Rename(tmp.Name(), c.path(tenant)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace payload cache: %v", err)
	}
	return nil
}

func (c *FileCache) Clear(_ context.Context, tenant string) error {
	err := os.Remove(c.path(tenant))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear payload cache: %v", err)
	}
	return nil
}
