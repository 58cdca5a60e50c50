package catalog

import (
	"context"
	"fmt"

	"feed-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// Repository provides catalog access on top of gorm. Every statement it
// issues is parameterized; no SQL text is built from feed data.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a catalog repository bound to the given connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.SyncRun{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

// FindByExternalIDs loads all products whose external id is in ids.
// Missing ids are simply absent from the result.
func (r *Repository) FindByExternalIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("external_id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up products by external id: %w", err)
	}
	return rows, nil
}

// BatchUpdate applies the given patches in a single transaction.
// Empty patches are skipped.
func (r *Repository) BatchUpdate(ctx context.Context, patches []models.ProductPatch) error {
	if len(patches) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, patch := range patches {
			cols := patch.Columns()
			if len(cols) == 0 {
				continue
			}
			res := tx.Model(&models.Product{}).
				Where("id = ?", patch.ProductID).
				Updates(cols)
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply product updates: %w", err)
	}
	return nil
}

// BatchInsert inserts the given rows with a single multi-row statement.
func (r *Repository) BatchInsert(ctx context.Context, rows []models.Product) error {
	if len(rows) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert products: %w", err)
	}
	return nil
}

// ScanAvailableAfter returns up to pageSize available products with id
// strictly greater than cursorID, ordered by ascending id.
func (r *Repository) ScanAvailableAfter(ctx context.Context, cursorID uint, pageSize int) ([]models.ProductRef, error) {
	var refs []models.ProductRef
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id", "external_id").
		Where("id > ? AND available = ?", cursorID, true).
		Order("id").
		Limit(pageSize).
		Find(&refs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan available products: %w", err)
	}
	return refs, nil
}

// MarkUnavailable flips the given products to not-available and stamps the
// renewal marker. It returns the number of rows touched.
func (r *Repository) MarkUnavailable(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"available": false, "needs_renew": true})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark products unavailable: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// RecordRun persists the completion record of a successful run.
func (r *Repository) RecordRun(ctx context.Context, run models.SyncRun) error {
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	return nil
}
