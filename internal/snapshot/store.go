// Package snapshot persists the precomputed name-mapping tables
// (import -> conda packages, PyPI -> conda names) in a local bolt database
// and keeps them fresh from a JSON snapshot file produced by an external
// metadata regeneration job.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"condameta/internal/domain"
)

var (
	bucketImportToPkg = []byte("import_to_pkg")
	bucketPyPIToConda = []byte("pypi_to_conda")
)

// Store is the bolt-backed mapping table. It implements
// source.MappingTable.
type Store struct {
	db     *bolt.DB
	logger *zap.Logger
}

func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return nil, fmt.Errorf("snapshot db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure snapshot dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketImportToPkg, bucketPyPIToConda} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return &Store{db: db, logger: logger.Named("snapshot")}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// snapshotDocument is the on-disk JSON layout ingested by LoadFile.
type snapshotDocument struct {
	ImportToPkg map[string][]string `json:"import_to_pkg"`
	PyPIToConda map[string][]string `json:"pypi_to_conda"`
}

// LoadFile replaces both mapping buckets from a snapshot file inside one
// write transaction, so readers see either the old or the new table.
func (s *Store) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var doc snapshotDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := replaceBucket(tx, bucketImportToPkg, doc.ImportToPkg); err != nil {
			return err
		}
		return replaceBucket(tx, bucketPyPIToConda, doc.PyPIToConda)
	})
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	s.logger.Info("mapping snapshot loaded",
		zap.String("path", path),
		zap.Int("imports", len(doc.ImportToPkg)),
		zap.Int("pypi_names", len(doc.PyPIToConda)))
	return nil
}

func replaceBucket(tx *bolt.Tx, name []byte, table map[string][]string) error {
	if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
		return err
	}
	bucket, err := tx.CreateBucket(name)
	if err != nil {
		return err
	}
	for key, values := range table {
		encoded, err := json.Marshal(values)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(key), encoded); err != nil {
			return err
		}
	}
	return nil
}

// PackagesForImport returns candidate packages for a normalized top-level
// import name.
func (s *Store) PackagesForImport(importName string) ([]string, error) {
	return s.get(bucketImportToPkg, importName)
}

// CondaNamesForPyPI returns every conda equivalent of a normalized PyPI
// name. The mapping is not bijective; zero, one, or many results are all
// legitimate.
func (s *Store) CondaNamesForPyPI(normalizedName string) ([]string, error) {
	return s.get(bucketPyPIToConda, normalizedName)
}

func (s *Store) get(bucket []byte, key string) ([]string, error) {
	var values []string
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucket).Get([]byte(key))
		if raw == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(raw, &values)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}
