package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/domain/models"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// RecordStoreAdapter implements DeploymentRecordStore using a TOML file
type RecordStoreAdapter struct {
	path string
}

// NewRecordStoreAdapter creates a new RecordStoreAdapter
func NewRecordStoreAdapter(cfg *config.RuntimeConfig) *RecordStoreAdapter {
	return &RecordStoreAdapter{
		path: cfg.DatabasePath,
	}
}

// Load reads the deployment record from disk.
// A missing file is reported as domain.ErrNotFound; every other failure is a
// RecordUnreadableError so that callers never mistake it for "not deployed".
func (s *RecordStoreAdapter) Load(_ context.Context) (*models.DeploymentRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, fmt.Errorf("deployment record %s: %w", s.path, domain.ErrNotFound)
		}
		return nil, &domain.RecordUnreadableError{Path: s.path, Err: fmt.Errorf("failed to read deployment record: %w", err)}
	}

	var record models.DeploymentRecord
	md, err := toml.Decode(string(data), &record)
	if err != nil {
		return nil, &domain.RecordUnreadableError{Path: s.path, Err: fmt.Errorf("failed to parse deployment record: %w", err)}
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, &domain.RecordUnreadableError{Path: s.path, Err: fmt.Errorf("unknown fields: %s", strings.Join(keys, ", "))}
	}

	for _, network := range domain.Networks {
		if !md.IsDefined(string(network)) {
			return nil, &domain.RecordUnreadableError{Path: s.path, Err: fmt.Errorf("missing [%s] section", network)}
		}
	}

	if err := record.Validate(); err != nil {
		return nil, &domain.RecordUnreadableError{Path: s.path, Err: err}
	}

	return &record, nil
}

// Save writes the record to disk. The file is written to a temporary sibling
// and renamed into place, and an existing record is never overwritten.
func (s *RecordStoreAdapter) Save(_ context.Context, record *models.DeploymentRecord) error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("deployment record %s: %w", s.path, domain.ErrAlreadyExists)
	} else if !errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("failed to check deployment record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployment record directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("failed to marshal deployment record: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary deployment record: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write deployment record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync deployment record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close deployment record: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set deployment record permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to move deployment record into place: %w", err)
	}

	return nil
}

// Path returns the location of the record file
func (s *RecordStoreAdapter) Path() string {
	return s.path
}

// Ensure RecordStoreAdapter implements DeploymentRecordStore
var _ usecase.DeploymentRecordStore = (*RecordStoreAdapter)(nil)
