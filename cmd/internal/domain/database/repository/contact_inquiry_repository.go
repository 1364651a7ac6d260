package repository

import (
	"clientdesk/cmd/internal/domain/entity"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type DefaultContactInquiryRepository struct {
	db *gorm.DB
}

func NewContactInquiryRepository(db *gorm.DB) *DefaultContactInquiryRepository {
	return &DefaultContactInquiryRepository{db: db}
}

func (r *DefaultContactInquiryRepository) FindAll(ctx context.Context) ([]*entity.ContactInquiry, error) {
	var inquiries []*entity.ContactInquiry
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&inquiries).Error
	return inquiries, err
}

func (r *DefaultContactInquiryRepository) FindByID(ctx context.Context, id string) (*entity.ContactInquiry, error) {
	var inquiry entity.ContactInquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inquiry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *DefaultContactInquiryRepository) Create(ctx context.Context, inquiry *entity.ContactInquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

// UpdateStatus sets the status and the response timestamp; a nil respondedAt
// clears it. It reports false when no inquiry matched.
func (r *DefaultContactInquiryRepository) UpdateStatus(ctx context.Context, id, status string, respondedAt *time.Time) (bool, error) {
	changes := map[string]any{"status": status, "responded_at": nil}
	if respondedAt != nil {
		changes["responded_at"] = *respondedAt
	}

	res := r.db.WithContext(ctx).
		Model(&entity.ContactInquiry{}).
		Where("id = ?", id).
		Updates(changes)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
