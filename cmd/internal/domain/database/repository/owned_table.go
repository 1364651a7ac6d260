package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ownedTable is the table gateway shared by every record type that carries a
// user_id. Every statement it issues is filtered by the owner.
type ownedTable[T any] struct {
	db       *gorm.DB
	order    string
	preloads []preload
	// frozen lists the columns an update must never overwrite, besides id,
	// user_id and the creation timestamp.
	frozen []string
}

// preload joins the display columns of a related record.
type preload struct {
	name    string
	columns []string
}

func (t *ownedTable[T]) scoped(ctx context.Context, ownerID string) *gorm.DB {
	q := t.db.WithContext(ctx).Where("user_id = ?", ownerID)
	for _, p := range t.preloads {
		q = q.Preload(p.name, func(db *gorm.DB) *gorm.DB {
			return db.Select(p.columns)
		})
	}
	return q
}

func (t *ownedTable[T]) FindAll(ctx context.Context, ownerID string) ([]*T, error) {
	var rows []*T
	err := t.scoped(ctx, ownerID).Order(t.order).Find(&rows).Error
	return rows, err
}

func (t *ownedTable[T]) FindByID(ctx context.Context, id, ownerID string) (*T, error) {
	var row T
	err := t.scoped(ctx, ownerID).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t *ownedTable[T]) Create(ctx context.Context, row *T) error {
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

// Update writes every column of row onto the record identified by id, so
// nil fields become NULL. It reports false when no owned record matched.
func (t *ownedTable[T]) Update(ctx context.Context, id, ownerID string, row *T) (bool, error) {
	omit := append([]string{"id", "user_id", "created_at", clause.Associations}, t.frozen...)
	res := t.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND user_id = ?", id, ownerID).
		Select("*").
		Omit(omit...).
		Updates(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (t *ownedTable[T]) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res := t.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
