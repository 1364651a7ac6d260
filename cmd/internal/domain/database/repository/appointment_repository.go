package repository

import (
	"clientdesk/cmd/internal/domain/entity"
	"context"
	"time"

	"gorm.io/gorm"
)

type DefaultAppointmentRepository struct {
	ownedTable[entity.Appointment]
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{
		ownedTable: ownedTable[entity.Appointment]{
			db:       db,
			order:    "appointment_date asc",
			preloads: []preload{{name: "Client", columns: []string{"id", "name"}}},
		},
	}
}

// FindBetween finds the owner's appointments scheduled in [from, to).
func (a *DefaultAppointmentRepository) FindBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.scoped(ctx, ownerID).
		Where("appointment_date >= ?", from).
		Where("appointment_date < ?", to).
		Order(a.order).
		Find(&appts).Error
	return appts, err
}
