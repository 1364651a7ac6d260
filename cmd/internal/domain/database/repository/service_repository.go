package repository

import (
	"clientdesk/cmd/internal/domain/entity"
	"context"

	"gorm.io/gorm"
)

type DefaultServiceRepository struct {
	ownedTable[entity.Service]
}

func NewServiceRepository(db *gorm.DB) *DefaultServiceRepository {
	return &DefaultServiceRepository{
		ownedTable: ownedTable[entity.Service]{
			db:       db,
			order:    "created_at desc",
			preloads: []preload{{name: "Client", columns: []string{"id", "name"}}},
		},
	}
}

// FindOptions returns PARTIAL services, having only `ID` and `ServiceName`.
func (s *DefaultServiceRepository) FindOptions(ctx context.Context, ownerID string) ([]*entity.Service, error) {
	var services []*entity.Service
	err := s.db.WithContext(ctx).
		Select("id, service_name").
		Where("user_id = ?", ownerID).
		Order("service_name asc").
		Find(&services).Error
	return services, err
}
