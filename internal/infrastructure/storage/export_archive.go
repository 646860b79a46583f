package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/entity"
)

const bucketExports = "exports"

// BoltExportArchive implements port.ExportArchive on a bbolt file.
// Records are JSON values keyed by export ID.
type BoltExportArchive struct {
	db     *bolt.DB
	logger *zap.Logger
}

// OpenExportArchive opens or creates the archive at path
func OpenExportArchive(path string, logger *zap.Logger) (*BoltExportArchive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open export archive: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketExports))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucketExports, err)
	}

	logger.Info("Export archive opened", zap.String("path", path))
	return &BoltExportArchive{db: db, logger: logger}, nil
}

// Put stores or replaces a record
func (a *BoltExportArchive) Put(ctx context.Context, rec *entity.ExportRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal export record: %w", err)
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketExports)).Put([]byte(rec.ID), data)
	})
}

// Get returns the record with id, or nil
func (a *BoltExportArchive) Get(ctx context.Context, id string) (*entity.ExportRecord, error) {
	var rec *entity.ExportRecord
	err := a.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketExports)).Get([]byte(id))
		if data == nil {
			return nil
		}
		rec = &entity.ExportRecord{}
		return json.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get export record: %w", err)
	}
	return rec, nil
}

// ListByRegulation returns a regulation's exports, newest first
func (a *BoltExportArchive) ListByRegulation(ctx context.Context, regulationID int64) ([]*entity.ExportRecord, error) {
	recs, err := a.list(func(r *entity.ExportRecord) bool { return r.RegulationID == regulationID })
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	return recs, nil
}

// ListCreatedBefore returns exports created strictly before cutoff
func (a *BoltExportArchive) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*entity.ExportRecord, error) {
	return a.list(func(r *entity.ExportRecord) bool { return r.CreatedAt.Before(cutoff) })
}

func (a *BoltExportArchive) list(keep func(*entity.ExportRecord) bool) ([]*entity.ExportRecord, error) {
	recs := []*entity.ExportRecord{}
	err := a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketExports)).ForEach(func(k, v []byte) error {
			var rec entity.ExportRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				a.logger.Warn("Skipping unreadable export record", zap.ByteString("id", k), zap.Error(err))
				return nil
			}
			if keep(&rec) {
				recs = append(recs, &rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list export records: %w", err)
	}
	return recs, nil
}

// Delete removes a record; unknown IDs are ignored
func (a *BoltExportArchive) Delete(ctx context.Context, id string) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketExports)).Delete([]byte(id))
	})
}

// Close closes the archive file
func (a *BoltExportArchive) Close() error {
	return a.db.Close()
}

var _ port.ExportArchive = (*BoltExportArchive)(nil)
