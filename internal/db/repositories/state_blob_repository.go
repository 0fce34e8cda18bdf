package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	gormModels "flightdeck/watchtower/internal/models/gorm"
)

// ErrBlobNotFound is returned when no blob exists under the given key
var ErrBlobNotFound = errors.New("state blob not found")

// BlobStore is the durable key-value boundary the watchlist and entitlement
// stores persist through
type BlobStore interface {
	Save(ctx context.Context, key string, blob []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// StateBlobRepository implements BlobStore on the state_blobs table
type StateBlobRepository struct {
	db *gorm.DB
}

// Ensure StateBlobRepository implements BlobStore
var _ BlobStore = (*StateBlobRepository)(nil)

// NewStateBlobRepository creates a GORM-backed blob store
func NewStateBlobRepository(db *gorm.DB) *StateBlobRepository {
	return &StateBlobRepository{db: db}
}

// Save upserts the blob under its key
func (r *StateBlobRepository) Save(ctx context.Context, key string, blob []byte) error {
	row := gormModels.StateBlob{Key: key, Blob: blob}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
		}).
		Create(&row).Error

	if err != nil {
		return fmt.Errorf("failed to save state blob %q: %w", key, err)
	}
	return nil
}

// Load fetches the blob stored under key, or ErrBlobNotFound
func (r *StateBlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var row gormModels.StateBlob

	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to load state blob %q: %w", key, err)
	}

	return row.Blob, nil
}
