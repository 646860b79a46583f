package port

import (
	"context"
	"time"

	"github.com/garyjia/travel-expense/internal/domain/entity"
)

// FileStorage stores generated files under a root directory
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	GetFullPath(relativePath string) string
}

// ExportArchive indexes generated export files by ID
type ExportArchive interface {
	Put(ctx context.Context, rec *entity.ExportRecord) error
	// Get returns (nil, nil) for an unknown ID
	Get(ctx context.Context, id string) (*entity.ExportRecord, error)
	ListByRegulation(ctx context.Context, regulationID int64) ([]*entity.ExportRecord, error)
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*entity.ExportRecord, error)
	Delete(ctx context.Context, id string) error
}
