package repository

import (
	"clientdesk/cmd/internal/domain/entity"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DefaultDocumentRepository struct {
	ownedTable[entity.Document]
}

func NewDocumentRepository(db *gorm.DB) *DefaultDocumentRepository {
	return &DefaultDocumentRepository{
		ownedTable: ownedTable[entity.Document]{
			db:    db,
			order: "uploaded_at desc",
			preloads: []preload{
				{name: "Client", columns: []string{"id", "name"}},
				{name: "Service", columns: []string{"id", "service_name"}},
			},
			frozen: []string{"file_path", "file_size", "mime_type", "uploaded_at"},
		},
	}
}

// DeleteWith removes the owned document and runs release inside the same
// transaction, before commit. A release error rolls the row back.
func (d *DefaultDocumentRepository) DeleteWith(ctx context.Context, id, ownerID string, release func(doc *entity.Document) error) (bool, error) {
	found := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc entity.Document
		err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&doc).Error; err != nil {
			return err
		}
		found = true
		return release(&doc)
	})
	return found, err
}
