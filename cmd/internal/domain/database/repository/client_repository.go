package repository

import (
	"clientdesk/cmd/internal/domain/entity"
	"context"

	"gorm.io/gorm"
)

type DefaultClientRepository struct {
	ownedTable[entity.Client]
}

func NewClientRepository(db *gorm.DB) *DefaultClientRepository {
	return &DefaultClientRepository{
		ownedTable: ownedTable[entity.Client]{db: db, order: "created_at desc"},
	}
}

// FindOptions returns PARTIAL clients, having only `ID` and `Name`, ordered
// by name. Forms use it to fill their client selector.
func (c *DefaultClientRepository) FindOptions(ctx context.Context, ownerID string) ([]*entity.Client, error) {
	var clients []*entity.Client
	err := c.db.WithContext(ctx).
		Select("id, name").
		Where("user_id = ?", ownerID).
		Order("name asc").
		Find(&clients).Error
	return clients, err
}
